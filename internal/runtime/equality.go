package runtime

// DeepEqual compares two values with strict type equality: values of
// different kinds are never equal (1 != "1", 1 != true). Lists compare
// element-wise, dicts by same key set with equal values at each key
// (insertion order does not matter), closures by identity, vectors by
// model and element-wise data.
func DeepEqual(a, b Value) bool {
	switch av := a.(type) {
	case *NullValue:
		_, ok := b.(*NullValue)
		return ok
	case *BoolValue:
		bv, ok := b.(*BoolValue)
		return ok && av.Value == bv.Value
	case *NumberValue:
		bv, ok := b.(*NumberValue)
		return ok && av.Value == bv.Value
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Value == bv.Value
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !DeepEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *DictValue:
		bv, ok := b.(*DictValue)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			other, ok := bv.Get(k)
			if !ok {
				return false
			}
			mine, _ := av.Get(k)
			if !DeepEqual(mine, other) {
				return false
			}
		}
		return true
	case *ClosureValue:
		bv, ok := b.(*ClosureValue)
		return ok && av == bv
	case *VectorValue:
		bv, ok := b.(*VectorValue)
		if !ok || av.Model != bv.Model || len(av.Data) != len(bv.Data) {
			return false
		}
		for i := range av.Data {
			if av.Data[i] != bv.Data[i] {
				return false
			}
		}
		return true
	}
	return false
}

// IsTruthy reports the truthiness of a value: only null and false are
// falsy.
func IsTruthy(v Value) bool {
	switch tv := v.(type) {
	case *NullValue:
		return false
	case *BoolValue:
		return tv.Value
	default:
		return true
	}
}
