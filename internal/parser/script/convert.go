package script

import "github.com/bytedance/sonic"

// unmarshalJSValue round-trips a goja return value through JSON into a
// typed Go struct. goja's own Export() walks the object graph but its
// field-name mapping doesn't reliably match our json tags for nested
// structs, so JSON is the lowest-friction bridge.
func unmarshalJSValue(v interface {
	Export() any
}, out any) error {
	raw, err := sonic.Marshal(v.Export())
	if err != nil {
		return err
	}
	return sonic.Unmarshal(raw, out)
}
