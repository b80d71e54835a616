package record

// Record is one row as returned by the table store: an opaque id plus a
// bag of fields keyed by display name. Typing happens downstream.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// String returns the field as a string, or "" when absent or not a string.
func (r Record) String(key string) string {
	s, _ := r.Fields[key].(string)
	return s
}

// Float returns the field as a float64. Numeric JSON values decode as
// float64; anything else yields the zero value with ok=false.
func (r Record) Float(key string) (float64, bool) {
	f, ok := r.Fields[key].(float64)
	return f, ok
}

// Bool reports a checkbox field. Absent means false.
func (r Record) Bool(key string) bool {
	b, _ := r.Fields[key].(bool)
	return b
}

// Refs returns a linked-record field as a list of record ids. The store
// encodes links as arrays of strings; a scalar string is tolerated and
// treated as a single-element list.
func (r Record) Refs(key string) []string {
	switch v := r.Fields[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// FirstRef returns the first id of a linked-record field, or "".
func (r Record) FirstRef(key string) string {
	refs := r.Refs(key)
	if len(refs) == 0 {
		return ""
	}
	return refs[0]
}
