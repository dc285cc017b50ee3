package operations

import (
	"net/url"
	"strconv"

	"github.com/spf13/cast"
)

const defaultPageLimit = 25

// Args wraps the raw argument map of one invocation with lenient coercion:
// tool callers routinely send numbers as floats or strings.
type Args struct {
	raw map[string]any
}

// NewArgs wraps a raw argument map. A nil map is valid and behaves as empty.
func NewArgs(raw map[string]any) *Args {
	if raw == nil {
		raw = map[string]any{}
	}
	return &Args{raw: raw}
}

// Has reports whether the key is present, regardless of value.
func (a *Args) Has(key string) bool {
	_, ok := a.raw[key]
	return ok
}

// String returns the value coerced to a string, or "" when absent.
func (a *Args) String(key string) string {
	return cast.ToString(a.raw[key])
}

// StringOr returns the value coerced to a string, or def when absent/empty.
func (a *Args) StringOr(key, def string) string {
	if s := a.String(key); s != "" {
		return s
	}
	return def
}

// Int returns the value coerced to an int, or def when absent.
func (a *Args) Int(key string, def int) int {
	v, ok := a.raw[key]
	if !ok {
		return def
	}
	return cast.ToInt(v)
}

// Bool returns the value coerced to a bool, or def when absent.
func (a *Args) Bool(key string, def bool) bool {
	v, ok := a.raw[key]
	if !ok {
		return def
	}
	return cast.ToBool(v)
}

// StringSlice returns the value coerced to a string slice, or nil when absent.
func (a *Args) StringSlice(key string) []string {
	v, ok := a.raw[key]
	if !ok {
		return nil
	}
	return cast.ToStringSlice(v)
}

// MissingFields returns the required field names that are absent or coerce to
// an empty string.
func (a *Args) MissingFields(required []string) []string {
	var missing []string
	for _, field := range required {
		if a.String(field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Pagination is the logical page window shared by every list operation.
type Pagination struct {
	Limit int
	Start int
}

// Pagination reads limit/start with defaults. The requested window is passed
// through as-is; any upper bound is the platform's to enforce.
func (a *Args) Pagination() Pagination {
	limit := a.Int("limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	start := a.Int("start", 0)
	if start < 0 {
		start = 0
	}
	return Pagination{Limit: limit, Start: start}
}

// CloudQuery writes the Cloud form: pagelen plus a 1-based page computed as
// floor(start/limit)+1.
func (p Pagination) CloudQuery(q url.Values) {
	q.Set("pagelen", strconv.Itoa(p.Limit))
	q.Set("page", strconv.Itoa(p.Start/p.Limit+1))
}

// ServerQuery writes the Server form: limit and a 0-based start offset,
// unchanged.
func (p Pagination) ServerQuery(q url.Values) {
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("start", strconv.Itoa(p.Start))
}
