package normalize

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Result is the normalized options record. Keys are destination names in
// declaration order, options first and positionals after them.
type Result struct {
	keys   []string
	values map[string]cty.Value
}

func newResult() *Result {
	return &Result{values: make(map[string]cty.Value)}
}

func (r *Result) set(key string, v cty.Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Keys returns the record keys in order.
func (r *Result) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get returns the value stored under key, or cty.NilVal.
func (r *Result) Get(key string) cty.Value {
	return r.values[key]
}

// Value returns the whole record as a cty object.
func (r *Result) Value() cty.Value {
	if len(r.values) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(r.values)
}

// Decode copies the record into target, which must be a pointer to a struct
// whose fields carry `cty:"<dest>"` tags for every key, or a pointer to a
// map of a single element type.
func (r *Result) Decode(target any) error {
	if err := gocty.FromCtyValue(r.Value(), target); err != nil {
		return fmt.Errorf("failed to decode options: %w", err)
	}
	return nil
}

// Map returns the record as plain Go values: string, bool, int64 or
// float64, and slices of those for multiple options.
func (r *Result) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = goValue(v)
	}
	return out
}

func goValue(v cty.Value) any {
	ty := v.Type()
	switch {
	case ty.IsListType() || ty.IsTupleType():
		items := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			items = append(items, goValue(ev))
		}
		return items
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); bf.IsInt() && acc == big.Exact {
			return i
		}
		f, _ := bf.Float64()
		return f
	case ty == cty.String:
		return v.AsString()
	}
	return v.GoString()
}
