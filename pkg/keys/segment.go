package keys

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind is the type tag of one key segment.
type Kind byte

const (
	KindString Kind = 0x01
	KindUint64 Kind = 0x02
	KindInt64  Kind = 0x03
	// 0x04 is reserved.
	KindBool Kind = 0x05
)

const (
	tagSize       = 1
	strLenSize    = 4
	intSize       = 8
	boolSize      = 1
	defaultKeyCap = 64
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindUint64:
		return "uint64"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	}
	return fmt.Sprintf("tag(0x%02x)", byte(k))
}

// AppendString appends a string segment. Strings longer than 4GiB cannot be
// represented and make AppendString panic; Pack reports them as errors.
func AppendString(buf []byte, s string) []byte {
	if uint64(len(s)) > math.MaxUint32 {
		panic("keys: string segment exceeds 4GiB")
	}
	buf = append(buf, byte(KindString))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func AppendUint64(buf []byte, v uint64) []byte {
	buf = append(buf, byte(KindUint64))
	return binary.BigEndian.AppendUint64(buf, v)
}

func AppendInt64(buf []byte, v int64) []byte {
	buf = append(buf, byte(KindInt64))
	return binary.BigEndian.AppendUint64(buf, uint64(v))
}

func AppendBool(buf []byte, v bool) []byte {
	b := byte(0)
	if v {
		b = 1
	}
	return append(buf, byte(KindBool), b)
}
