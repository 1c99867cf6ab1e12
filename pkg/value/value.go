// Package value holds the dynamically typed payload stored under a key.
package value

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"tuplekv/pkg/dberrors"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindI64
	KindU64
	KindF64
	KindString
	KindArray
	KindObject
	KindBinary
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindI64:    "i64",
	KindU64:    "u64",
	KindF64:    "f64",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
	KindBinary: "binary",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is an immutable tagged union. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	arr  []Value
	obj  map[string]Value
	bin  []byte
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func I64(i int64) Value { return Value{kind: KindI64, i: i} }
func U64(u uint64) Value { return Value{kind: KindU64, u: u} }
func F64(f float64) Value { return Value{kind: KindF64, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// Object copies m.
func Object(m map[string]Value) Value {
	obj := make(map[string]Value, len(m))
	for k, v := range m {
		obj[k] = v
	}
	return Value{kind: KindObject, obj: obj}
}

// Binary copies b.
func Binary(b []byte) Value {
	return Value{kind: KindBinary, bin: append([]byte{}, b...)}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) mismatch(want Kind) error {
	return dberrors.New(dberrors.KindTypeMismatch, "value",
		fmt.Sprintf("want %s, have %s", want, v.kind))
}

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.b, nil
}

func (v Value) AsI64() (int64, error) {
	if v.kind != KindI64 {
		return 0, v.mismatch(KindI64)
	}
	return v.i, nil
}

func (v Value) AsU64() (uint64, error) {
	if v.kind != KindU64 {
		return 0, v.mismatch(KindU64)
	}
	return v.u, nil
}

func (v Value) AsF64() (float64, error) {
	if v.kind != KindF64 {
		return 0, v.mismatch(KindF64)
	}
	return v.f, nil
}

func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch(KindString)
	}
	return v.s, nil
}

// AsArray returns the elements. The slice must not be modified.
func (v Value) AsArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, v.mismatch(KindArray)
	}
	return v.arr, nil
}

// AsObject returns the members. The map must not be modified.
func (v Value) AsObject() (map[string]Value, error) {
	if v.kind != KindObject {
		return nil, v.mismatch(KindObject)
	}
	return v.obj, nil
}

// AsBinary returns the bytes. The slice must not be modified.
func (v Value) AsBinary() ([]byte, error) {
	if v.kind != KindBinary {
		return nil, v.mismatch(KindBinary)
	}
	return v.bin, nil
}

// AsInt reads either integer kind as int64, failing when a U64 does not fit.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindI64:
		return v.i, nil
	case KindU64:
		if v.u > math.MaxInt64 {
			return 0, dberrors.New(dberrors.KindTypeMismatch, "value",
				fmt.Sprintf("u64 %d overflows i64", v.u))
		}
		return int64(v.u), nil
	}
	return 0, v.mismatch(KindI64)
}

// Equal compares kinds and contents. F64 uses ==, so NaN is never equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindI64:
		return v.i == o.i
	case KindU64:
		return v.u == o.u
	case KindF64:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindBinary:
		return bytes.Equal(v.bin, o.bin)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, x := range v.obj {
			y, ok := o.obj[k]
			if !ok || !x.Equal(y) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindI64:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindU64:
		b.WriteString(strconv.FormatUint(v.u, 10))
		b.WriteByte('u')
	case KindF64:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindBinary:
		fmt.Fprintf(b, "bin(%x)", v.bin)
	case KindArray:
		b.WriteByte('[')
		for i, x := range v.arr {
			if i > 0 {
				b.WriteString(", ")
			}
			x.write(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, k := range sortedKeys(v.obj) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			v.obj[k].write(b)
		}
		b.WriteByte('}')
	}
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
