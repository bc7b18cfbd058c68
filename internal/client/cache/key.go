package cache

import (
	"net/url"
	"strings"
)

// Key identifies a query by an operation tag plus its ordered arguments.
// Two logically identical queries always build the same Key; distinct
// queries can only collide by constructing the same (op, args) pair on
// purpose. Operation tags are slash-separated, e.g. "admin/users".
type Key struct {
	Op   string
	Args []string
}

// NewKey builds a Key for the given operation tag and arguments.
func NewKey(op string, args ...string) Key {
	return Key{Op: op, Args: args}
}

// Identity returns the deterministic string form of the key used as the
// map index. Arguments are escaped so values containing separators cannot
// collide with differently structured keys.
func (k Key) Identity() string {
	if len(k.Args) == 0 {
		return k.Op
	}
	escaped := make([]string, len(k.Args))
	for i, a := range k.Args {
		escaped[i] = url.QueryEscape(a)
	}
	return k.Op + "?" + strings.Join(escaped, "&")
}

// Matches reports whether the key belongs to the given pattern. A pattern
// matches its exact operation tag and every tag nested under it:
// "admin/users" matches "admin/users" and "admin/users/42" but not
// "admin/users-archive". Matching on structured tags instead of raw
// substrings keeps invalidation from sweeping unrelated keys.
func (k Key) Matches(pattern string) bool {
	if k.Op == pattern {
		return true
	}
	return strings.HasPrefix(k.Op, pattern+"/")
}
