// Package docvalue provides the dynamic document representation the rest
// of the engine walks over. A Doc is an ordinary JSON/YAML object decoded
// into a generic map; this package supplies the small set of recursive
// helpers (clone, deep-equal, field get/set) that let the hierarchy
// walker and the volatile-diff gate stay polymorphic over arbitrary
// payload shapes, the way canonicalJSON/sortKeys walk an arbitrary
// interface{} tree.
package docvalue

// Doc is a single document: a JSON/YAML object with unconstrained
// payload fields plus the reserved fields described in the data model.
type Doc = map[string]interface{}

// GetString returns a string field, or "" if absent or not a string.
func GetString(d Doc, field string) string {
	if d == nil {
		return ""
	}
	if v, ok := d[field]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetDoc returns an object-valued field as a Doc, or nil.
func GetDoc(d Doc, field string) Doc {
	if d == nil {
		return nil
	}
	if v, ok := d[field]; ok {
		if m, ok := v.(Doc); ok {
			return m
		}
	}
	return nil
}

// GetSlice returns an array-valued field, or nil if absent or not an array.
func GetSlice(d Doc, field string) []interface{} {
	if d == nil {
		return nil
	}
	if v, ok := d[field]; ok {
		if s, ok := v.([]interface{}); ok {
			return s
		}
	}
	return nil
}

// AsDoc coerces an interface{} element (as found in a slice) into a Doc,
// or returns nil/false if it isn't an object.
func AsDoc(v interface{}) (Doc, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(Doc); ok {
		return m, true
	}
	return nil, false
}

// Clone performs a deep copy of a document tree, the way CreatePack's
// canonicalJSON helper deep-copies through sortKeys before hashing.
func Clone(v interface{}) interface{} {
	switch val := v.(type) {
	case Doc:
		out := make(Doc, len(val))
		for k, e := range val {
			out[k] = Clone(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = Clone(e)
		}
		return out
	default:
		return val
	}
}

// DeepEqual compares two decoded JSON/YAML trees for structural equality.
// Numbers are compared as float64: the json decoder produces float64,
// while the yaml decoder produces int for whole numbers.
func DeepEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, ev := range av {
			bev, ok := bv[k]
			if !ok || !DeepEqual(ev, bev) {
				return false
			}
		}
		return true
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i, ev := range av {
			if !DeepEqual(ev, bv[i]) {
				return false
			}
		}
		return true
	case int:
		return DeepEqual(float64(av), b)
	case int64:
		return DeepEqual(float64(av), b)
	case uint64:
		return DeepEqual(float64(av), b)
	case float64:
		switch bv := b.(type) {
		case int:
			return av == float64(bv)
		case int64:
			return av == float64(bv)
		case uint64:
			return av == float64(bv)
		}
		return a == b
	default:
		return a == b
	}
}

// SetField sets a field on a document, returning the same map for chaining.
func SetField(d Doc, field string, value interface{}) Doc {
	d[field] = value
	return d
}

// DeleteField removes a field from a document if present.
func DeleteField(d Doc, field string) {
	delete(d, field)
}
