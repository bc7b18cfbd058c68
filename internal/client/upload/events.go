package upload

import "github.com/dataport/uplink/internal/client/models"

// EventType classifies session events.
type EventType string

const (
	// EventProgress reports bytes sent so far. For any one item, progress
	// values are non-decreasing and always precede the completion event.
	EventProgress EventType = "progress"
	// EventRejected reports validation failure. When a batch exceeds the
	// file-count limit, a single aggregated event covers all excess files
	// (ItemIDs carries them).
	EventRejected EventType = "rejected"
	// EventSucceeded is the completion event for a successful transfer.
	// It is emitted after the cache invalidation for listings and
	// statistics has been applied.
	EventSucceeded EventType = "succeeded"
	// EventFailed is the completion event for a failed transfer.
	EventFailed EventType = "failed"
	// EventCancelled confirms user-initiated removal. No success or
	// failure event follows it.
	EventCancelled EventType = "cancelled"
)

// Event is one message on the session's event channel. Events for a single
// item are delivered in order; the channel replaces ad-hoc callback wiring
// so consumers get a defined ordering guarantee.
type Event struct {
	Type      EventType
	ItemID    string
	ItemIDs   []string // only for aggregated rejections
	Filename  string
	BytesSent int64
	Reason    string
	Err       error
	File      *models.StoredFile
}
