package value

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"tuplekv/pkg/dberrors"
)

var (
	encMode = mustEncMode(cbor.CoreDetEncOptions())
	decMode = mustDecMode(cbor.DecOptions{})
)

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	dm, err := opts.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

// CBOR stores values as deterministic CBOR: a two element array of the
// kind and its payload.
type CBOR struct{}

func (CBOR) Name() string { return CodecCBOR }

func (CBOR) Marshal(v Value) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindPayloadCodec, "cbor encode", err)
	}
	return data, nil
}

func (CBOR) Unmarshal(data []byte) (Value, error) {
	var v Value
	if err := decMode.Unmarshal(data, &v); err != nil {
		return Value{}, dberrors.Wrap(dberrors.KindPayloadCodec, "cbor decode", err)
	}
	return v, nil
}

type cborValue struct {
	_       struct{} `cbor:",toarray"`
	Kind    Kind
	Payload cbor.RawMessage
}

func (v Value) MarshalCBOR() ([]byte, error) {
	var payload any
	switch v.kind {
	case KindNull:
	case KindBool:
		payload = v.b
	case KindI64:
		payload = v.i
	case KindU64:
		payload = v.u
	case KindF64:
		payload = v.f
	case KindString:
		payload = v.s
	case KindArray:
		if v.arr == nil {
			payload = []Value{}
		} else {
			payload = v.arr
		}
	case KindObject:
		payload = v.obj
	case KindBinary:
		payload = v.bin
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
	raw, err := encMode.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(cborValue{Kind: v.kind, Payload: raw})
}

func (v *Value) UnmarshalCBOR(data []byte) error {
	var w cborValue
	if err := decMode.Unmarshal(data, &w); err != nil {
		return err
	}
	var err error
	switch w.Kind {
	case KindNull:
		*v = Null()
	case KindBool:
		var b bool
		err = decMode.Unmarshal(w.Payload, &b)
		*v = Bool(b)
	case KindI64:
		var i int64
		err = decMode.Unmarshal(w.Payload, &i)
		*v = I64(i)
	case KindU64:
		var u uint64
		err = decMode.Unmarshal(w.Payload, &u)
		*v = U64(u)
	case KindF64:
		var f float64
		err = decMode.Unmarshal(w.Payload, &f)
		*v = F64(f)
	case KindString:
		var s string
		err = decMode.Unmarshal(w.Payload, &s)
		*v = String(s)
	case KindArray:
		var items []Value
		err = decMode.Unmarshal(w.Payload, &items)
		*v = Array(items...)
	case KindObject:
		var m map[string]Value
		err = decMode.Unmarshal(w.Payload, &m)
		if m == nil {
			m = map[string]Value{}
		}
		*v = Value{kind: KindObject, obj: m}
	case KindBinary:
		var b []byte
		err = decMode.Unmarshal(w.Payload, &b)
		*v = Value{kind: KindBinary, bin: b}
	default:
		return fmt.Errorf("unknown value kind %d", w.Kind)
	}
	return err
}
