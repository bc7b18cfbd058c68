// Package common contains shared constants and sentinel errors used across
// Uplink components.
package common

// AuthorizationHeader is the HTTP header carrying the bearer access token
// on outbound requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix prefixes the access token inside the Authorization header.
const BearerPrefix = "Bearer "
