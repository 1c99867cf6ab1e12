package keys

import (
	"fmt"
	"math"

	"tuplekv/pkg/dberrors"
)

//go:generate go run ../../internal/gen/tuples -o tuples_gen.go -max 15

// Field lists the Go types usable as key segments. Narrow integers are
// widened to 64 bits on encode and converted back without range checks on
// decode. A Key field is copied verbatim on encode and, on decode, takes
// every remaining byte.
type Field interface {
	string | bool |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		Key
}

func appendField[T Field](buf []byte, v T) []byte {
	switch x := any(v).(type) {
	case string:
		return AppendString(buf, x)
	case bool:
		return AppendBool(buf, x)
	case int:
		return AppendInt64(buf, int64(x))
	case int8:
		return AppendInt64(buf, int64(x))
	case int16:
		return AppendInt64(buf, int64(x))
	case int32:
		return AppendInt64(buf, int64(x))
	case int64:
		return AppendInt64(buf, x)
	case uint:
		return AppendUint64(buf, uint64(x))
	case uint8:
		return AppendUint64(buf, uint64(x))
	case uint16:
		return AppendUint64(buf, uint64(x))
	case uint32:
		return AppendUint64(buf, uint64(x))
	case uint64:
		return AppendUint64(buf, x)
	case Key:
		return append(buf, x...)
	}
	return buf
}

func decodeField[T Field](d *Decoder, pos int) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *string:
		*p, err = d.DecodeString()
	case *bool:
		*p, err = d.DecodeBool()
	case *int64:
		*p, err = d.DecodeInt64()
	case *uint64:
		*p, err = d.DecodeUint64()
	case *int:
		*p, err = narrowInt[int](d)
	case *int8:
		*p, err = narrowInt[int8](d)
	case *int16:
		*p, err = narrowInt[int16](d)
	case *int32:
		*p, err = narrowInt[int32](d)
	case *uint:
		*p, err = narrowUint[uint](d)
	case *uint8:
		*p, err = narrowUint[uint8](d)
	case *uint16:
		*p, err = narrowUint[uint16](d)
	case *uint32:
		*p, err = narrowUint[uint32](d)
	case *Key:
		*p = d.Rest()
	}
	if err != nil {
		var zero T
		return zero, dberrors.AtPosition(err, pos)
	}
	return out, nil
}

// narrowInt truncates silently, matching how such keys were always read.
func narrowInt[T int | int8 | int16 | int32](d *Decoder) (T, error) {
	v, err := d.DecodeInt64()
	return T(v), err
}

func narrowUint[T uint | uint8 | uint16 | uint32](d *Decoder) (T, error) {
	v, err := d.DecodeUint64()
	return T(v), err
}

// Pack builds a key from dynamically typed values. Accepted types are the
// ones listed by Field.
func Pack(vals ...any) (Key, error) {
	buf := make([]byte, 0, defaultKeyCap)
	for i, v := range vals {
		var err error
		if buf, err = appendAny(buf, v); err != nil {
			return nil, dberrors.AtPosition(err, i)
		}
	}
	return Key(buf), nil
}

// MustPack is Pack for values known to be valid; it panics otherwise.
func MustPack(vals ...any) Key {
	k, err := Pack(vals...)
	if err != nil {
		panic(err)
	}
	return k
}

func appendAny(buf []byte, v any) ([]byte, error) {
	switch x := v.(type) {
	case string:
		if uint64(len(x)) > math.MaxUint32 {
			return buf, dberrors.New(dberrors.KindInvalidEncoding, "encode", "string segment exceeds 4GiB")
		}
		return AppendString(buf, x), nil
	case bool:
		return AppendBool(buf, x), nil
	case int:
		return AppendInt64(buf, int64(x)), nil
	case int8:
		return AppendInt64(buf, int64(x)), nil
	case int16:
		return AppendInt64(buf, int64(x)), nil
	case int32:
		return AppendInt64(buf, int64(x)), nil
	case int64:
		return AppendInt64(buf, x), nil
	case uint:
		return AppendUint64(buf, uint64(x)), nil
	case uint8:
		return AppendUint64(buf, uint64(x)), nil
	case uint16:
		return AppendUint64(buf, uint64(x)), nil
	case uint32:
		return AppendUint64(buf, uint64(x)), nil
	case uint64:
		return AppendUint64(buf, x), nil
	case Key:
		return append(buf, x...), nil
	}
	return buf, dberrors.New(dberrors.KindInvalidArgument, "encode", fmt.Sprintf("unsupported key field type %T", v))
}

// Unpack decodes one segment per kind, in order. Bytes left after the last
// kind are ignored.
func Unpack(k Key, kinds ...Kind) ([]any, error) {
	d := NewDecoder(k)
	out := make([]any, 0, len(kinds))
	for i, kind := range kinds {
		v, err := d.Decode(kind)
		if err != nil {
			return nil, dberrors.AtPosition(err, i)
		}
		out = append(out, v)
	}
	return out, nil
}

// Segments decodes every segment of k.
func Segments(k Key) ([]any, error) {
	d := NewDecoder(k)
	var out []any
	for i := 0; d.Len() > 0; i++ {
		v, err := d.Next()
		if err != nil {
			return nil, dberrors.AtPosition(err, i)
		}
		out = append(out, v)
	}
	return out, nil
}
