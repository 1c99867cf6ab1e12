package http

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.etcd.io/etcd/raft/v3/raftpb"

	"tuplekv/internal/metrics"
	"tuplekv/pkg/backend"
	"tuplekv/pkg/backend/remote"
	"tuplekv/pkg/backend/replicated"
	"tuplekv/pkg/compression"
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
	"tuplekv/pkg/kv"
	"tuplekv/pkg/value"
)

const (
	contentTypeJSON        = "application/json"
	defaultHTTPPort        = "8080"
	defaultShutdownTimeout = time.Second * 5
	maxBodyBytes           = 64 << 20
)

type iRaftNode interface {
	IsLeader() bool
	LeaderAddr() string
	Handle(ctx context.Context, message raftpb.Message) error
}

// Server exposes a kv.Store over HTTP.
type Server struct {
	store      *kv.Store
	node       iRaftNode
	exported   backend.Backend
	metrics    *metrics.Metrics
	httpServer *http.Server
	URL        string
	addr       string

	readHeaderTimeout time.Duration
}

type Option func(*Server)

// WithRaft enables the raft endpoint and leader redirects for writes.
func WithRaft(node iRaftNode) Option {
	return func(s *Server) { s.node = node }
}

// WithBackendExport serves b on the internal backend endpoints so other
// processes can use it through remote.Client.
func WithBackendExport(b backend.Backend) Option {
	return func(s *Server) { s.exported = b }
}

// WithAdvertiseURL sets the URL this node is reachable at. It must match
// the address peers know the node by, or leader redirects can loop.
func WithAdvertiseURL(u string) Option {
	return func(s *Server) {
		if u != "" {
			s.URL = u
		}
	}
}

// WithMetrics counts every request and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.readHeaderTimeout = d
		}
	}
}

// NewServer creates a new server instance
func NewServer(store *kv.Store, port string, opts ...Option) *Server {
	if port == "" {
		port = defaultHTTPPort
	}
	s := &Server{
		store:             store,
		URL:               "http://localhost:" + port,
		addr:              ":" + port,
		readHeaderTimeout: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the server
func (s *Server) Start() error {
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}
	return nil
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/kv", s.handleGet)
		r.Put("/kv", s.handlePut)
		r.Delete("/kv", s.handleDelete)
		r.Get("/list", s.handleList)
		r.Get("/dump", s.handleDump)
		r.Post("/restore", s.handleRestore)
	})

	if s.exported != nil {
		remote.Routes(r, s.exported)
	}
	// Raft endpoint только если есть node
	if s.node != nil {
		r.Post(replicated.RaftPath, s.handleRaft)
	}

	return r
}

func (s *Server) startHTTPServer() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("HTTP server started", "addr", s.URL)
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Error encoding response", "error", err)
	}
}

// writeError maps storage error kinds to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := dberrors.KindOf(err)
	switch kind {
	case dberrors.KindInvalidSelector, dberrors.KindInvalidArgument,
		dberrors.KindInvalidEncoding, dberrors.KindUnexpectedEOF:
		status = http.StatusBadRequest
	case dberrors.KindBackend:
		status = http.StatusBadGateway
	}
	resp := NewErrorResponse(err.Error())
	if kind != dberrors.KindUnknown {
		resp.Kind = kind.String()
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) redirectLeader(w http.ResponseWriter, r *http.Request) (bool, error) {
	if s.node == nil || s.node.IsLeader() {
		return false, nil
	}

	leaderAddr := s.node.LeaderAddr()
	if leaderAddr == "" {
		// leader unknown yet; raft forwards the proposal once one is elected
		return false, nil
	}

	// Avoid redirect loop when leaderAddr equals this server's URL
	if leaderAddr == s.URL {
		return false, nil
	}

	leaderURL, err := url.JoinPath(leaderAddr, r.URL.Path)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse("Failed to get leader URL"))
		return false, fmt.Errorf("failed to join leader path: %w", err)
	}
	if r.URL.RawQuery != "" {
		leaderURL += "?" + r.URL.RawQuery
	}

	http.Redirect(w, r, leaderURL, http.StatusTemporaryRedirect)
	return true, nil
}

// keyParam reads a key from the display form in name, or from raw hex in
// name_hex. ok is false when neither is set.
func keyParam(q url.Values, name string) (k keys.Key, ok bool, err error) {
	if h := q.Get(name + "_hex"); h != "" {
		raw, err := hex.DecodeString(h)
		if err != nil {
			return nil, false, dberrors.Wrap(dberrors.KindInvalidArgument, name+"_hex", err)
		}
		return keys.Key(raw), true, nil
	}
	if s := q.Get(name); s != "" {
		return keys.ParseDisplay(s), true, nil
	}
	return nil, false, nil
}

func (s *Server) requireKey(w http.ResponseWriter, r *http.Request) (keys.Key, bool) {
	k, ok, err := keyParam(r.URL.Query(), "key")
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Missing key"))
		return nil, false
	}
	return k, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewOKResponse())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	k, ok := s.requireKey(w, r)
	if !ok {
		return
	}

	v, found, err := s.store.Get(k)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !found {
		s.writeJSON(w, http.StatusNotFound, NewErrorResponse("Key not found"))
		return
	}

	s.writeJSON(w, http.StatusOK, NewValueResponse(v.ToJSON()))
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	k, ok := s.requireKey(w, r)
	if !ok {
		return
	}
	if redirected, err := s.redirectLeader(w, r); redirected || err != nil {
		if err != nil {
			slog.Error("Failed to redirect to leader", "error", err)
		}
		return
	}

	var v value.Value
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Invalid value: "+err.Error()))
		return
	}

	if err := s.store.Set(k, v); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewSuccessResponse())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	k, ok := s.requireKey(w, r)
	if !ok {
		return
	}
	if redirected, err := s.redirectLeader(w, r); redirected || err != nil {
		if err != nil {
			slog.Error("Failed to redirect to leader", "error", err)
		}
		return
	}

	prev, found, err := s.store.Delete(k)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !found {
		s.writeJSON(w, http.StatusNotFound, NewErrorResponse("Key not found"))
		return
	}
	s.writeJSON(w, http.StatusOK, NewValueResponse(prev.ToJSON()))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list := s.store.List()
	for name, set := range map[string]func(keys.Key) *kv.ListBuilder{
		"prefix": list.Prefix,
		"start":  list.Start,
		"end":    list.End,
	} {
		k, ok, err := keyParam(q, name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if ok {
			set(k)
		}
	}

	entries, err := list.Entries()
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{
			Key:    e.Key.String(),
			KeyHex: hex.EncodeToString(e.Key),
			Value:  e.Value.ToJSON(),
		})
	}
	s.writeJSON(w, http.StatusOK, NewValueResponse(items))
}

func (s *Server) handleDump(w http.ResponseWriter, r *http.Request) {
	alg, err := compression.ParseAlgorithm(r.URL.Query().Get("compress"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse(err.Error()))
		return
	}

	ct := contentTypeJSON
	if alg != compression.None {
		ct = "application/" + string(alg)
	}
	w.Header().Set("Content-Type", ct)

	n, err := s.store.Dump(w, alg)
	if err != nil {
		if n == 0 {
			s.writeError(w, err)
			return
		}
		slog.Error("dump aborted", "written", n, "error", err)
		return
	}
	slog.Info("dump served", "bytes", n, "compress", alg)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if redirected, err := s.redirectLeader(w, r); redirected || err != nil {
		if err != nil {
			slog.Error("Failed to redirect to leader", "error", err)
		}
		return
	}

	replace, _ := strconv.ParseBool(r.URL.Query().Get("replace"))
	n, err := s.store.Restore(http.MaxBytesReader(w, r.Body, maxBodyBytes), replace)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, NewErrorResponse(err.Error()))
			return
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewValueResponse(map[string]int{"restored": n}))
}

func (s *Server) handleRaft(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	var msg raftpb.Message
	if err := dec.Decode(&msg); err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse(err.Error()))
		return
	}
	if err := s.node.Handle(r.Context(), msg); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse(err.Error()))
		return
	}

	s.writeJSON(w, http.StatusOK, NewSuccessResponse())
}
