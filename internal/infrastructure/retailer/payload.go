package retailer

import (
	"strconv"

	"github.com/spf13/cast"

	"github.com/basketlens/backend/internal/domain"
)

// lookup walks a decoded JSON payload. Path segments are map keys, or
// decimal indexes when the current node is an array.
func lookup(raw domain.RawRecord, path ...string) (any, bool) {
	var node any = raw
	for _, key := range path {
		switch current := node.(type) {
		case map[string]any:
			next, ok := current[key]
			if !ok {
				return nil, false
			}
			node = next
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(current) {
				return nil, false
			}
			node = current[idx]
		default:
			m, err := cast.ToStringMapE(current)
			if err != nil {
				return nil, false
			}
			next, ok := m[key]
			if !ok {
				return nil, false
			}
			node = next
		}
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

// lookupString returns the string at path. Numbers are formatted.
func lookupString(raw domain.RawRecord, path ...string) (string, bool) {
	v, ok := lookup(raw, path...)
	if !ok {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

// lookupFloat returns the number at path. Numeric strings are accepted.
func lookupFloat(raw domain.RawRecord, path ...string) (float64, bool) {
	v, ok := lookup(raw, path...)
	if !ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// lookupMap returns the object at path
func lookupMap(raw domain.RawRecord, path ...string) (map[string]any, bool) {
	v, ok := lookup(raw, path...)
	if !ok {
		return nil, false
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, false
	}
	return m, true
}
