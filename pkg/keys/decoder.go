package keys

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"tuplekv/pkg/dberrors"
)

const opDecode = "decode"

// Decoder consumes segments from the front of a key. A failed call leaves
// the remaining bytes untouched.
type Decoder struct {
	rem []byte
}

func NewDecoder(k []byte) *Decoder {
	return &Decoder{rem: k}
}

// Len reports the number of unread bytes.
func (d *Decoder) Len() int {
	return len(d.rem)
}

// Remaining returns the unread bytes without consuming them.
func (d *Decoder) Remaining() Key {
	return Key(d.rem)
}

// Rest consumes and returns every unread byte.
func (d *Decoder) Rest() Key {
	rest := Key(d.rem)
	d.rem = d.rem[len(d.rem):]
	return rest
}

// PeekKind returns the tag of the next segment.
func (d *Decoder) PeekKind() (Kind, bool) {
	if len(d.rem) == 0 {
		return 0, false
	}
	return Kind(d.rem[0]), true
}

func (d *Decoder) header(want Kind, size int) error {
	if len(d.rem) == 0 {
		return dberrors.New(dberrors.KindUnexpectedEOF, opDecode,
			fmt.Sprintf("no bytes left for %s segment", want))
	}
	if got := Kind(d.rem[0]); got != want {
		return dberrors.New(dberrors.KindInvalidEncoding, opDecode,
			fmt.Sprintf("expected %s segment, found %s", want, got))
	}
	if len(d.rem) < tagSize+size {
		return dberrors.New(dberrors.KindUnexpectedEOF, opDecode,
			fmt.Sprintf("%s segment needs %d bytes, %d left", want, tagSize+size, len(d.rem)))
	}
	return nil
}

func (d *Decoder) DecodeString() (string, error) {
	if err := d.header(KindString, strLenSize); err != nil {
		return "", err
	}
	n := uint64(binary.BigEndian.Uint32(d.rem[tagSize:]))
	start := uint64(tagSize + strLenSize)
	if uint64(len(d.rem))-start < n {
		return "", dberrors.New(dberrors.KindUnexpectedEOF, opDecode,
			fmt.Sprintf("string declares %d bytes, %d left", n, uint64(len(d.rem))-start))
	}
	raw := d.rem[start : start+n]
	if !utf8.Valid(raw) {
		return "", dberrors.New(dberrors.KindInvalidEncoding, opDecode, "string segment is not valid UTF-8")
	}
	d.rem = d.rem[start+n:]
	return string(raw), nil
}

func (d *Decoder) DecodeUint64() (uint64, error) {
	if err := d.header(KindUint64, intSize); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(d.rem[tagSize:])
	d.rem = d.rem[tagSize+intSize:]
	return v, nil
}

func (d *Decoder) DecodeInt64() (int64, error) {
	if err := d.header(KindInt64, intSize); err != nil {
		return 0, err
	}
	v := int64(binary.BigEndian.Uint64(d.rem[tagSize:]))
	d.rem = d.rem[tagSize+intSize:]
	return v, nil
}

func (d *Decoder) DecodeBool() (bool, error) {
	if err := d.header(KindBool, boolSize); err != nil {
		return false, err
	}
	var v bool
	switch d.rem[tagSize] {
	case 0:
	case 1:
		v = true
	default:
		return false, dberrors.New(dberrors.KindInvalidEncoding, opDecode,
			fmt.Sprintf("bool byte must be 0 or 1, got %d", d.rem[tagSize]))
	}
	d.rem = d.rem[tagSize+boolSize:]
	return v, nil
}

// Decode consumes one segment of the given kind and returns it as
// string, uint64, int64 or bool.
func (d *Decoder) Decode(kind Kind) (any, error) {
	switch kind {
	case KindString:
		return d.DecodeString()
	case KindUint64:
		return d.DecodeUint64()
	case KindInt64:
		return d.DecodeInt64()
	case KindBool:
		return d.DecodeBool()
	}
	return nil, dberrors.New(dberrors.KindInvalidEncoding, opDecode, fmt.Sprintf("unknown segment %s", kind))
}

// Next consumes whatever segment comes next.
func (d *Decoder) Next() (any, error) {
	kind, ok := d.PeekKind()
	if !ok {
		return nil, dberrors.New(dberrors.KindUnexpectedEOF, opDecode, "no bytes left")
	}
	return d.Decode(kind)
}
