package runtime

import (
	"fmt"
	"sort"
)

// VectorMarker is the key that tags a projected vector on the host side.
const VectorMarker = "__rill_vector"

// FromGo converts ordinary host data into a runtime value. Numbers become
// 64-bit floats, maps become dicts (keys sorted for determinism, since Go
// maps carry no order), and a map bearing the vector marker becomes a
// vector value.
func FromGo(v any) (Value, error) {
	switch tv := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return tv, nil
	case bool:
		return Bool(tv), nil
	case int:
		return Number(float64(tv)), nil
	case int64:
		return Number(float64(tv)), nil
	case uint64:
		return Number(float64(tv)), nil
	case float32:
		return Number(float64(tv)), nil
	case float64:
		return Number(tv), nil
	case string:
		return String(tv), nil
	case []float32:
		return &VectorValue{Data: tv}, nil
	case []any:
		elements := make([]Value, len(tv))
		for i, el := range tv {
			converted, err := FromGo(el)
			if err != nil {
				return nil, err
			}
			elements[i] = converted
		}
		return NewList(elements...), nil
	case map[string]any:
		if marker, ok := tv[VectorMarker]; ok {
			if flag, ok := marker.(bool); ok && flag {
				return vectorFromGo(tv)
			}
		}
		dict := NewDict()
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			converted, err := FromGo(tv[k])
			if err != nil {
				return nil, err
			}
			dict.Set(k, converted)
		}
		return dict, nil
	}
	return nil, fmt.Errorf("cannot convert %T to a rill value", v)
}

func vectorFromGo(m map[string]any) (Value, error) {
	model, _ := m["model"].(string)
	switch data := m["data"].(type) {
	case []float32:
		return &VectorValue{Data: data, Model: model}, nil
	case []float64:
		converted := make([]float32, len(data))
		for i, f := range data {
			converted[i] = float32(f)
		}
		return &VectorValue{Data: converted, Model: model}, nil
	case []any:
		converted := make([]float32, len(data))
		for i, el := range data {
			f, ok := el.(float64)
			if !ok {
				return nil, fmt.Errorf("vector data element %d is %T, want number", i, el)
			}
			converted[i] = float32(f)
		}
		return &VectorValue{Data: converted, Model: model}, nil
	}
	return nil, fmt.Errorf("vector marker present but data is %T", m["data"])
}

// ToGo projects a runtime value as ordinary host data: lists as []any,
// dicts as map[string]any, numbers as float64, and vectors as a marker map
// with the fixed-width float buffer and model name.
func ToGo(v Value) any {
	switch tv := v.(type) {
	case *NullValue:
		return nil
	case *BoolValue:
		return tv.Value
	case *NumberValue:
		return tv.Value
	case *StringValue:
		return tv.Value
	case *ListValue:
		out := make([]any, len(tv.Elements))
		for i, el := range tv.Elements {
			out[i] = ToGo(el)
		}
		return out
	case *DictValue:
		out := make(map[string]any, tv.Len())
		for _, k := range tv.Keys() {
			entry, _ := tv.Get(k)
			out[k] = ToGo(entry)
		}
		return out
	case *VectorValue:
		return map[string]any{
			VectorMarker: true,
			"data":       tv.Data,
			"model":      tv.Model,
		}
	}
	return v.String()
}
