package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dataport/uplink/internal/common"
)

// MapStatus translates an HTTP status into the shared error taxonomy.
// detail is the backend's error message, kept for display. Exported so the
// upload transport shares one taxonomy with the REST client.
func MapStatus(status int, detail string) error {
	if detail == "" {
		detail = http.StatusText(status)
	}
	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, detail)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrConflict, detail)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, detail)
	case status >= 500:
		return fmt.Errorf("%w: %s (status %d)", common.ErrServer, detail, status)
	default:
		return fmt.Errorf("request rejected: %s (status %d)", detail, status)
	}
}

// MapTransportError classifies errors raised before any HTTP status was
// received: connection failures, DNS errors and client-side timeouts all
// surface as ErrUnavailable. Context cancellation passes through untouched
// so callers can distinguish their own cancellation from server trouble.
func MapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}
