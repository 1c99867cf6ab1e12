package http

import (
	"encoding/json"
	"log/slog"
)

type Status string

const (
	// StatusOK is used for health-check responses.
	StatusOK Status = "OK"

	// StatusSuccess indicates an operation completed successfully.
	StatusSuccess Status = "success"

	// StatusError indicates an operation failed.
	StatusError Status = "error"
)

// Response represents the standard API response format. Value holds the
// JSON form of a stored value, a list of pairs, or an operation summary.
type Response struct {
	Status Status          `json:"status,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
	Error  string          `json:"error,omitempty"`
	// Kind is the error kind of a failed storage operation.
	Kind string `json:"kind,omitempty"`
}

// Item is one element of a list response.
type Item struct {
	Key    string `json:"key"`
	KeyHex string `json:"key_hex"`
	Value  any    `json:"value"`
}

func NewOKResponse() Response {
	return Response{Status: StatusOK}
}

func NewSuccessResponse() Response {
	return Response{Status: StatusSuccess}
}

// NewValueResponse encodes value as the response value; a JSON null is
// kept so a stored Null is distinguishable from no value.
func NewValueResponse(value any) Response {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn("Error encoding response value", "error", err)
		return NewErrorResponse(err.Error())
	}
	return Response{Status: StatusSuccess, Value: raw}
}

func NewErrorResponse(err string) Response {
	return Response{Status: StatusError, Error: err}
}
