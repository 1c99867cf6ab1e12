package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// BinaryMarker tags a JSON object that carries a Binary value:
//
//	{"__sskv_bin_value": true, "bytes": [1, 2, 3]}
const BinaryMarker = "__sskv_bin_value"

// ToJSON converts v into plain JSON-compatible Go values. Non-finite
// floats become null.
func (v Value) ToJSON() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindI64:
		return v.i
	case KindU64:
		return v.u
	case KindF64:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil
		}
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToJSON()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.ToJSON()
		}
		return out
	case KindBinary:
		nums := make([]int, len(v.bin))
		for i, b := range v.bin {
			nums[i] = int(b)
		}
		return map[string]any{BinaryMarker: true, "bytes": nums}
	}
	return nil
}

// FromJSON converts a decoded JSON document into a Value. Numbers are
// read as I64 when they fit, then U64, then F64, so a U64 below 2^63 comes
// back as I64 and an integral F64 comes back as I64.
func FromJSON(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return numberValue(t)
	case float64:
		return numberValue(json.Number(strconv.FormatFloat(t, 'g', -1, 64)))
	case string:
		return String(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromJSON(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Array(items...), nil
	case map[string]any:
		if bin, ok, err := binaryValue(t); ok || err != nil {
			return bin, err
		}
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			v, err := FromJSON(item)
			if err != nil {
				return Value{}, err
			}
			fields[k] = v
		}
		return Value{kind: KindObject, obj: fields}, nil
	}
	return Value{}, fmt.Errorf("unsupported JSON type %T", x)
}

func numberValue(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return I64(i), nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return U64(u), nil
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", n, err)
	}
	return F64(f), nil
}

func binaryValue(m map[string]any) (Value, bool, error) {
	if marker, _ := m[BinaryMarker].(bool); !marker || len(m) != 2 {
		return Value{}, false, nil
	}
	raw, ok := m["bytes"].([]any)
	if !ok {
		return Value{}, false, nil
	}
	out := make([]byte, len(raw))
	for i, item := range raw {
		var s string
		switch num := item.(type) {
		case json.Number:
			s = num.String()
		case float64:
			s = strconv.FormatFloat(num, 'f', -1, 64)
		default:
			return Value{}, true, fmt.Errorf("binary byte %d is %T, not a number", i, item)
		}
		b, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return Value{}, true, fmt.Errorf("binary byte %d: %w", i, err)
		}
		out[i] = byte(b)
	}
	return Value{kind: KindBinary, bin: out}, true, nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToJSON())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}
	out, err := FromJSON(x)
	if err != nil {
		return err
	}
	*v = out
	return nil
}
