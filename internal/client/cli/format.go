package cli

import "fmt"

// formatSize renders a byte count in a compact human form.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for u := n / unit; u >= unit; u /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// percent is bounded to [0,100] even if sent overshoots the declared size.
func percent(sent, total int64) int64 {
	if total <= 0 {
		return 0
	}
	p := sent * 100 / total
	if p > 100 {
		p = 100
	}
	return p
}

// shortID is the 8-character prefix shown in listings; commands accept it
// in place of the full item ID.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
