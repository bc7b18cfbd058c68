package upload

import (
	"fmt"
	"strings"
)

// Restrictions is the validation set applied to every enqueued file before
// any network traffic. Entries in AllowedTypes starting with a dot are
// matched against the filename extension; everything else is matched
// against the declared MIME type. A file passes when either matches,
// mirroring the backend's own acceptance rule.
type Restrictions struct {
	MaxFileSize      int64
	MaxNumberOfFiles int
	AllowedTypes     []string
}

// check validates a single file against size and type limits. The returned
// reason is empty when the file is acceptable. The file-count limit is
// session-wide and enforced separately by the manager.
func (r Restrictions) check(filename, mimeType string, sizeBytes int64) string {
	if r.MaxFileSize > 0 && sizeBytes > r.MaxFileSize {
		return fmt.Sprintf("file exceeds the %d byte size limit", r.MaxFileSize)
	}
	if len(r.AllowedTypes) == 0 {
		return ""
	}

	lower := strings.ToLower(filename)
	for _, t := range r.AllowedTypes {
		if strings.HasPrefix(t, ".") {
			if strings.HasSuffix(lower, strings.ToLower(t)) {
				return ""
			}
		} else if strings.EqualFold(t, mimeType) {
			return ""
		}
	}
	return fmt.Sprintf("file type not allowed (allowed: %s)", strings.Join(r.AllowedTypes, ", "))
}
