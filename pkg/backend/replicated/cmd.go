package replicated

import (
	"fmt"

	"github.com/google/uuid"

	"tuplekv/pkg/keys"
)

type Op uint8

const (
	OpWrite Op = iota + 1
	OpDelete
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpWrite:
		return "write"
	case OpDelete:
		return "delete"
	case OpClear:
		return "clear"
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Cmd is one replicated backend mutation. ID pairs a committed entry with
// the proposal waiting for it.
type Cmd struct {
	Op    Op        `json:"op"`
	Key   keys.Key  `json:"key,omitempty"`
	Value []byte    `json:"value,omitempty"`
	ID    uuid.UUID `json:"id"`
}

func NewCmd(op Op, key keys.Key, value []byte) Cmd {
	return Cmd{
		Op:    op,
		Key:   key,
		Value: value,
		ID:    uuid.New(),
	}
}

// writeCmd maps a backend Write onto a command: nil value deletes.
func writeCmd(key keys.Key, value []byte) Cmd {
	if value == nil {
		return NewCmd(OpDelete, key, nil)
	}
	return NewCmd(OpWrite, key, value)
}
