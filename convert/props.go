package convert

import "github.com/hazyhaar/domforge/hierarchy"

// stringsOf coerces a widget prop into a string slice.
func stringsOf(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, it := range s {
			if str, ok := it.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// panesOf coerces an accordion/tabs items prop into pane pairs.
func panesOf(v any) []hierarchy.Pane {
	panes, _ := v.([]hierarchy.Pane)
	return panes
}
