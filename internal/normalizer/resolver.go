package normalizer

import "strconv"

// Resolver resolves a field from an ordered list of candidate sources.
// The first source where the field is present and non-nil wins; otherwise
// the caller-supplied default is returned. Absence is a normal case, never
// an error, so every accessor is total.
//
// Precedence is declared once at construction (e.g. final_decision over
// policy_adjudication over default) instead of being repeated at call sites.
type Resolver struct {
	sources []map[string]any
}

// NewResolver creates a resolver over the given sources, highest precedence
// first. Nil sources are permitted and simply never match.
func NewResolver(sources ...map[string]any) *Resolver {
	return &Resolver{sources: sources}
}

// lookup returns the first present, non-nil value for the field.
func (r *Resolver) lookup(field string) (any, bool) {
	for _, src := range r.sources {
		if src == nil {
			continue
		}
		if v, ok := src[field]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether the field is present and non-nil in any source.
func (r *Resolver) Has(field string) bool {
	_, ok := r.lookup(field)
	return ok
}

// String resolves a string field. Non-string values fall through to the
// default rather than being coerced; "" is a present value and is returned.
func (r *Resolver) String(field, def string) string {
	if v, ok := r.lookup(field); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Float resolves a numeric field. JSON numbers decode as float64, but
// integer and numeric-string values from lenient upstreams are accepted too.
func (r *Resolver) Float(field string, def float64) float64 {
	if v, ok := r.lookup(field); ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return def
}

// Int resolves an integer field, truncating fractional JSON numbers.
func (r *Resolver) Int(field string, def int) int {
	if v, ok := r.lookup(field); ok {
		if f, ok := toFloat(v); ok {
			return int(f)
		}
	}
	return def
}

// Bool resolves a boolean field.
func (r *Resolver) Bool(field string, def bool) bool {
	if v, ok := r.lookup(field); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Strings resolves a field holding a sequence of strings. Non-string
// elements are skipped.
func (r *Resolver) Strings(field string) []string {
	v, ok := r.lookup(field)
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// objectField extracts a nested object field, returning nil when the field
// is absent or not an object.
func objectField(m map[string]any, field string) map[string]any {
	if m == nil {
		return nil
	}
	if v, ok := m[field].(map[string]any); ok {
		return v
	}
	return nil
}

// sliceField extracts a nested array field, returning nil when the field is
// absent or not an array.
func sliceField(m map[string]any, field string) []any {
	if m == nil {
		return nil
	}
	if v, ok := m[field].([]any); ok {
		return v
	}
	return nil
}
