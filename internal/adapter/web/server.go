// Package web serves a read-only view of the engine state: the live palette
// as JSON and a websocket stream of palette, renderer and parameter changes.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second

	// DefaultHistoryLimit is the number of entries /api/history returns.
	DefaultHistoryLimit = 20
)

// PaletteSource provides the live palette. *theme.Store satisfies it.
type PaletteSource interface {
	Current() domain.Palette
}

// VisualizerState provides the orchestrator's view of the visualizer.
type VisualizerState interface {
	Snapshot() domain.AnimationParams
	Active() domain.RendererKind
	Track() domain.TrackMetadata
}

// HistorySource lists recently shown tracks, newest first.
type HistorySource interface {
	Recent(n int) []domain.HistoryEntry
}

// Server is the readout server.
type Server struct {
	logger  *slog.Logger
	bus     ports.EventBus
	palette PaletteSource
	visual  VisualizerState
	history HistorySource

	upgrader websocket.Upgrader
	subIDs   []domain.SubscriptionID

	mu      sync.Mutex
	clients map[string]*client
	httpSrv *http.Server
	closed  bool
	wg      sync.WaitGroup
}

// NewServer creates a readout server and subscribes it to the bus.
// history may be nil.
func NewServer(
	logger *slog.Logger,
	bus ports.EventBus,
	palette PaletteSource,
	visual VisualizerState,
	history HistorySource,
) *Server {
	s := &Server{
		logger:  logger.With(slog.String("component", "readout")),
		bus:     bus,
		palette: palette,
		visual:  visual,
		history: history,
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			// Readouts are served on loopback to local dashboards.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.subIDs = []domain.SubscriptionID{
		bus.Subscribe(domain.EventPaletteChanged, s.onPaletteChanged),
		bus.Subscribe(domain.EventRendererChanged, s.onRendererChanged),
		bus.Subscribe(domain.EventParametersUpdated, s.onParametersUpdated),
	}
	return s
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/theme", s.handleTheme)
	mux.HandleFunc("GET /api/visualizer", s.handleVisualizer)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when addr has port 0.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("readout listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return "", fmt.Errorf("readout server: %w", http.ErrServerClosed)
	}
	s.httpSrv = srv
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("readout server stopped", slog.Any("error", err))
		}
	}()

	s.logger.Info("readout server listening", slog.String("addr", ln.Addr().String()))
	return ln.Addr().String(), nil
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Shutdown stops listening, disconnects every client and waits for their
// goroutines. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, id := range s.subIDs {
		s.bus.Unsubscribe(id)
	}
	for _, c := range s.clients {
		s.dropLocked(c)
	}
	srv := s.httpSrv
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}
	return err
}

func (s *Server) handleTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.palette.Current().HexMap())
}

func (s *Server) handleVisualizer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.visualizerResponse())
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	entries := []domain.HistoryEntry{}
	if s.history != nil {
		if recent := s.history.Recent(DefaultHistoryLimit); recent != nil {
			entries = recent
		}
	}
	writeJSON(w, entries)
}

func (s *Server) visualizerResponse() VisualizerResponse {
	return newVisualizerResponse(s.visual.Active(), s.visual.Snapshot(), s.visual.Track())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, "readout server closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		server: s,
	}

	// The hello frames go in before the client is visible to broadcasts,
	// so a new client always sees the full state first.
	cur := s.palette.Current()
	if data, err := encode(MessagePalette, PaletteMessage{Slots: cur.HexMap()}); err == nil {
		c.send <- data
	}
	if data, err := encode(MessageVisualizer, s.visualizerResponse()); err == nil {
		c.send <- data
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.clients[c.id] = c
	s.wg.Add(2)
	s.mu.Unlock()

	s.logger.Debug("readout client connected", slog.String("client_id", c.id))

	go c.writePump()
	go c.readPump()
}

func (s *Server) onPaletteChanged(event domain.Event) {
	e, ok := event.(domain.PaletteChangedEvent)
	if !ok {
		return
	}
	s.broadcast(MessagePalette, PaletteMessage{
		Slots:      e.Palette.HexMap(),
		ArtworkRef: e.ArtworkRef,
		IsDefault:  e.IsDefault,
	})
}

func (s *Server) onRendererChanged(event domain.Event) {
	e, ok := event.(domain.RendererChangedEvent)
	if !ok {
		return
	}
	s.broadcast(MessageRenderer, RendererMessage{
		Previous: string(e.Previous),
		Current:  string(e.Current),
		Name:     e.Current.DisplayName(),
	})
}

func (s *Server) onParametersUpdated(event domain.Event) {
	e, ok := event.(domain.ParametersUpdatedEvent)
	if !ok {
		return
	}
	s.broadcast(MessageParameters, newVisualizerResponse(e.Renderer, e.Params, e.Track))
}

// broadcast queues a message on every client without blocking. A client
// whose queue is full is dropped.
func (s *Server) broadcast(kind string, data any) {
	msg, err := encode(kind, data)
	if err != nil {
		s.logger.Error("failed to encode readout message", slog.String("type", kind), slog.Any("error", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		select {
		case c.send <- msg:
		default:
			s.logger.Warn("dropping slow readout client", slog.String("client_id", c.id))
			s.dropLocked(c)
		}
	}
}

// dropLocked forgets c and closes its queue, which ends its write pump.
// Callers hold s.mu.
func (s *Server) dropLocked(c *client) {
	if s.clients[c.id] != c {
		return
	}
	delete(s.clients, c.id)
	close(c.send)
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	s.dropLocked(c)
	s.mu.Unlock()
}
