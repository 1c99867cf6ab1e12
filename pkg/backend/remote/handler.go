package remote

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tuplekv/pkg/backend"
)

// Routes registers the internal backend endpoints served on behalf of b.
func Routes(r chi.Router, b backend.Backend) {
	h := &handler{b: b}
	r.Post(RangePath, h.handleRange)
	r.Post(WritePath, h.handleWrite)
	r.Post(ClearPath, h.handleClear)
}

// NewHandler serves b to Clients.
func NewHandler(b backend.Backend) http.Handler {
	r := chi.NewRouter()
	Routes(r, b)
	return r
}

type handler struct {
	b backend.Backend
}

func writeReply(w http.ResponseWriter, status int, reply Reply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		slog.Warn("Error encoding backend reply", "error", err)
	}
}

func failed(err error) Reply {
	return Reply{Status: "error", Error: err.Error()}
}

func (h *handler) handleRange(w http.ResponseWriter, r *http.Request) {
	var req RangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReply(w, http.StatusBadRequest, failed(err))
		return
	}
	entries, err := h.b.RangeScan(req.Start, req.End)
	if err != nil {
		writeReply(w, http.StatusInternalServerError, failed(err))
		return
	}
	writeReply(w, http.StatusOK, Reply{Status: "success", Entries: entries})
}

func (h *handler) handleWrite(w http.ResponseWriter, r *http.Request) {
	var req WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReply(w, http.StatusBadRequest, failed(err))
		return
	}
	if err := h.b.Write(req.Key, req.Value); err != nil {
		writeReply(w, http.StatusInternalServerError, failed(err))
		return
	}
	writeReply(w, http.StatusOK, Reply{Status: "success"})
}

func (h *handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.b.Clear(); err != nil {
		writeReply(w, http.StatusInternalServerError, failed(err))
		return
	}
	writeReply(w, http.StatusOK, Reply{Status: "success"})
}
