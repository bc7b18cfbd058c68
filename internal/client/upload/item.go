// Package upload implements the file-upload session: per-file validation,
// queuing, bounded concurrent transfers, progress events, retry and
// cancellation. A session lives for one upload screen visit; its items are
// discarded with the session, independent of the server-side file records.
package upload

import (
	"github.com/dataport/uplink/internal/client/models"
)

// TransferState is the lifecycle stage of a single file in the session.
type TransferState string

const (
	// StateQueued: accepted, waiting for a transfer slot.
	StateQueued TransferState = "queued"
	// StateValidating: restriction checks in progress. Validation runs
	// synchronously inside Enqueue, so this state is only ever observed
	// from inside the manager.
	StateValidating TransferState = "validating"
	// StateUploading: bytes are streaming to the backend.
	StateUploading TransferState = "uploading"
	// StateSucceeded: the backend confirmed the upload. Absorbing.
	StateSucceeded TransferState = "succeeded"
	// StateFailed: transport failure (network, non-2xx, timeout).
	// Retryable via Retry.
	StateFailed TransferState = "failed"
	// StateRejected: failed validation, never attempted. Absorbing.
	StateRejected TransferState = "rejected"
	// StateCancelled: removed by the user while queued or in flight.
	// Absorbing.
	StateCancelled TransferState = "cancelled"
)

// Terminal reports whether no further transitions are possible. Failed is
// not terminal: an explicit user retry moves it back to Uploading.
func (s TransferState) Terminal() bool {
	return s == StateSucceeded || s == StateRejected || s == StateCancelled
}

// Item is a snapshot of one file tracked by the session.
type Item struct {
	ID           string
	Path         string
	Filename     string
	SizeBytes    int64
	MimeType     string
	State        TransferState
	BytesSent    int64
	RejectReason string
	Err          error

	// Remote is the server-side record, set once the item succeeds.
	Remote *models.StoredFile
}
