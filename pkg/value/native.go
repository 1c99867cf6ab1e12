package value

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"tuplekv/pkg/dberrors"
)

// TypeID is the leading byte of a natively encoded value.
type TypeID uint8

const (
	TypeNull TypeID = iota + 1
	TypeBool
	TypeInt64
	TypeUint64
	TypeFloat64
	TypeString
	TypeList
	TypeMessage
	TypeBinary
)

const maxNativeDepth = 64

// Native is a compact tagged little-endian format:
//
//	[type:1][payload]
//
// where strings and binaries carry a 4-byte length, lists a 4-byte count
// followed by the items, and messages a 4-byte count followed by
// (name string, value) pairs in name order.
type Native struct{}

func (Native) Name() string { return CodecNative }

func (Native) Marshal(v Value) ([]byte, error) {
	buf, err := appendNative(make([]byte, 0, 32), v)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindPayloadCodec, "native encode", err)
	}
	return buf, nil
}

func (Native) Unmarshal(data []byte) (Value, error) {
	v, n, err := decodeNative(data, 0)
	if err != nil {
		return Value{}, dberrors.Wrap(dberrors.KindPayloadCodec, "native decode", err)
	}
	if n != len(data) {
		return Value{}, dberrors.New(dberrors.KindPayloadCodec, "native decode",
			fmt.Sprintf("%d trailing bytes", len(data)-n))
	}
	return v, nil
}

func appendLen(buf []byte, n int) ([]byte, error) {
	if uint64(n) > math.MaxUint32 {
		return buf, fmt.Errorf("length %d does not fit in 4 bytes", n)
	}
	return binary.LittleEndian.AppendUint32(buf, uint32(n)), nil
}

func appendNative(buf []byte, v Value) ([]byte, error) {
	var err error
	switch v.kind {
	case KindNull:
		return append(buf, byte(TypeNull)), nil
	case KindBool:
		b := byte(0)
		if v.b {
			b = 1
		}
		return append(buf, byte(TypeBool), b), nil
	case KindI64:
		buf = append(buf, byte(TypeInt64))
		return binary.LittleEndian.AppendUint64(buf, uint64(v.i)), nil
	case KindU64:
		buf = append(buf, byte(TypeUint64))
		return binary.LittleEndian.AppendUint64(buf, v.u), nil
	case KindF64:
		buf = append(buf, byte(TypeFloat64))
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.f)), nil
	case KindString:
		buf = append(buf, byte(TypeString))
		if buf, err = appendLen(buf, len(v.s)); err != nil {
			return buf, err
		}
		return append(buf, v.s...), nil
	case KindBinary:
		buf = append(buf, byte(TypeBinary))
		if buf, err = appendLen(buf, len(v.bin)); err != nil {
			return buf, err
		}
		return append(buf, v.bin...), nil
	case KindArray:
		buf = append(buf, byte(TypeList))
		if buf, err = appendLen(buf, len(v.arr)); err != nil {
			return buf, err
		}
		for _, item := range v.arr {
			if buf, err = appendNative(buf, item); err != nil {
				return buf, err
			}
		}
		return buf, nil
	case KindObject:
		buf = append(buf, byte(TypeMessage))
		if buf, err = appendLen(buf, len(v.obj)); err != nil {
			return buf, err
		}
		for _, name := range sortedKeys(v.obj) {
			if buf, err = appendLen(buf, len(name)); err != nil {
				return buf, err
			}
			buf = append(buf, name...)
			if buf, err = appendNative(buf, v.obj[name]); err != nil {
				return buf, err
			}
		}
		return buf, nil
	}
	return buf, fmt.Errorf("unknown value kind %d", v.kind)
}

func readLen(data []byte, what string) (int, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("insufficient data for %s length", what)
	}
	return int(binary.LittleEndian.Uint32(data)), nil
}

func readText(data []byte, what string) (string, int, error) {
	n, err := readLen(data, what)
	if err != nil {
		return "", 0, err
	}
	if len(data)-4 < n {
		return "", 0, fmt.Errorf("insufficient data for %s content", what)
	}
	raw := data[4 : 4+n]
	if !utf8.Valid(raw) {
		return "", 0, fmt.Errorf("%s is not valid UTF-8", what)
	}
	return string(raw), 4 + n, nil
}

// decodeNative returns the value and the number of bytes it occupied.
func decodeNative(data []byte, depth int) (Value, int, error) {
	if depth > maxNativeDepth {
		return Value{}, 0, fmt.Errorf("nesting deeper than %d", maxNativeDepth)
	}
	if len(data) < 1 {
		return Value{}, 0, fmt.Errorf("insufficient data")
	}
	typ := TypeID(data[0])
	rest := data[1:]

	switch typ {
	case TypeNull:
		return Null(), 1, nil

	case TypeBool:
		if len(rest) < 1 {
			return Value{}, 0, fmt.Errorf("insufficient data for bool")
		}
		switch rest[0] {
		case 0:
			return Bool(false), 2, nil
		case 1:
			return Bool(true), 2, nil
		}
		return Value{}, 0, fmt.Errorf("bool byte must be 0 or 1, got %d", rest[0])

	case TypeInt64, TypeUint64, TypeFloat64:
		if len(rest) < 8 {
			return Value{}, 0, fmt.Errorf("insufficient data for 8-byte number")
		}
		bits := binary.LittleEndian.Uint64(rest)
		switch typ {
		case TypeInt64:
			return I64(int64(bits)), 9, nil
		case TypeUint64:
			return U64(bits), 9, nil
		}
		return F64(math.Float64frombits(bits)), 9, nil

	case TypeString:
		s, n, err := readText(rest, "string")
		if err != nil {
			return Value{}, 0, err
		}
		return String(s), 1 + n, nil

	case TypeBinary:
		n, err := readLen(rest, "binary")
		if err != nil {
			return Value{}, 0, err
		}
		if len(rest)-4 < n {
			return Value{}, 0, fmt.Errorf("insufficient data for binary content")
		}
		return Binary(rest[4 : 4+n]), 5 + n, nil

	case TypeList:
		count, err := readLen(rest, "list")
		if err != nil {
			return Value{}, 0, err
		}
		offset := 5
		// every item takes at least one byte
		if count > len(data)-offset {
			return Value{}, 0, fmt.Errorf("list declares %d items, %d bytes left", count, len(data)-offset)
		}
		items := make([]Value, 0, count)
		for i := 0; i < count; i++ {
			item, n, err := decodeNative(data[offset:], depth+1)
			if err != nil {
				return Value{}, 0, err
			}
			items = append(items, item)
			offset += n
		}
		return Array(items...), offset, nil

	case TypeMessage:
		count, err := readLen(rest, "message field count")
		if err != nil {
			return Value{}, 0, err
		}
		offset := 5
		if count > len(data)-offset {
			return Value{}, 0, fmt.Errorf("message declares %d fields, %d bytes left", count, len(data)-offset)
		}
		fields := make(map[string]Value, count)
		for i := 0; i < count; i++ {
			name, n, err := readText(data[offset:], "field name")
			if err != nil {
				return Value{}, 0, err
			}
			offset += n
			field, n, err := decodeNative(data[offset:], depth+1)
			if err != nil {
				return Value{}, 0, err
			}
			fields[name] = field
			offset += n
		}
		return Value{kind: KindObject, obj: fields}, offset, nil
	}

	return Value{}, 0, fmt.Errorf("unknown type: %d", typ)
}
