package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Display returns the string-conversion form of a value, as used by string
// interpolation and the .str method. Scalars render bare (numbers in their
// integral form when whole, booleans as true/false, null as null); lists
// and dicts serialize to a compact JSON-like shape with no whitespace and
// keys in insertion order. Value graphs are trees in normal usage; if a
// host function injects a cycle, Display reports it as an error instead of
// looping.
func Display(v Value) (string, error) {
	switch tv := v.(type) {
	case *StringValue:
		return tv.Value, nil
	case *NullValue, *BoolValue, *NumberValue, *ClosureValue, *VectorValue:
		return v.String(), nil
	}
	var sb strings.Builder
	if err := writeCompact(&sb, v, make(map[Value]bool)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// writeCompact serializes composite values in the JSON-like display shape,
// tracking visited containers to detect cycles.
func writeCompact(sb *strings.Builder, v Value, seen map[Value]bool) error {
	switch tv := v.(type) {
	case *NullValue:
		sb.WriteString("null")
	case *BoolValue, *NumberValue:
		sb.WriteString(v.String())
	case *StringValue:
		sb.WriteString(strconv.Quote(tv.Value))
	case *ClosureValue:
		sb.WriteString(strconv.Quote(tv.String()))
	case *VectorValue:
		fmt.Fprintf(sb, `{"__rill_vector":true,"model":%s,"dim":%d}`, strconv.Quote(tv.Model), len(tv.Data))
	case *ListValue:
		if seen[v] {
			return fmt.Errorf("cannot serialize cyclic list")
		}
		seen[v] = true
		sb.WriteString("[")
		for i, el := range tv.Elements {
			if i > 0 {
				sb.WriteString(",")
			}
			if err := writeCompact(sb, el, seen); err != nil {
				return err
			}
		}
		sb.WriteString("]")
		delete(seen, v)
	case *DictValue:
		if seen[v] {
			return fmt.Errorf("cannot serialize cyclic dict")
		}
		seen[v] = true
		sb.WriteString("{")
		for i, k := range tv.Keys() {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(":")
			entry, _ := tv.Get(k)
			if err := writeCompact(sb, entry, seen); err != nil {
				return err
			}
		}
		sb.WriteString("}")
		delete(seen, v)
	default:
		sb.WriteString(v.String())
	}
	return nil
}
