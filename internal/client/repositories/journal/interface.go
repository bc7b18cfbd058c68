// Package journal persists a local record of completed uploads so the
// history survives across CLI sessions. It deliberately stores only what
// the user needs to recognise an upload; the authoritative file records
// live on the backend.
package journal

import (
	"context"

	"github.com/dataport/uplink/internal/client/models"
)

// Repository describes the journal operations used by the upload session
// manager and the history command.
type Repository interface {
	// Record appends a completed upload, pruning the oldest records
	// beyond the retention cap.
	Record(ctx context.Context, rec models.JournalRecord) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]models.JournalRecord, error)
}
