// Package cli provides the interactive Uplink command-line client for the
// DataPort portal.
//
// It wires configuration, the REST client, the request cache, the upload
// manager and the local upload journal into an interactive REPL. Typical
// flow: log in, upload files, watch transfer progress, browse listings that
// are served from the cache and refreshed when uploads or admin changes
// invalidate them.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
