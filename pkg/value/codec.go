package value

import (
	"fmt"

	"tuplekv/pkg/dberrors"
)

// Codec turns a Value into the bytes a backend stores and back.
type Codec interface {
	Name() string
	Marshal(v Value) ([]byte, error)
	Unmarshal(data []byte) (Value, error)
}

const (
	CodecCBOR   = "cbor"
	CodecNative = "native"
)

// DefaultCodec is used by stores that are not given one.
var DefaultCodec Codec = CBOR{}

// CodecByName resolves a configured codec name. An empty name selects
// DefaultCodec.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "":
		return DefaultCodec, nil
	case CodecCBOR:
		return CBOR{}, nil
	case CodecNative:
		return Native{}, nil
	}
	return nil, dberrors.New(dberrors.KindInvalidArgument, "codec", fmt.Sprintf("unknown payload codec %q", name))
}
