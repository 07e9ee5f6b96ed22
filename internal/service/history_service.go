package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// HistoryService records each newly shown track with the renderer chosen
// for it.
type HistoryService struct {
	logger     *slog.Logger
	bus        ports.EventBus
	repository ports.HistoryRepository
	now        func() time.Time

	mu      sync.Mutex
	lastID  string
	subID   domain.SubscriptionID
	stopped bool
}

// NewHistoryService subscribes to parameter updates.
func NewHistoryService(logger *slog.Logger, bus ports.EventBus, repository ports.HistoryRepository) *HistoryService {
	s := &HistoryService{
		logger:     logger.With(slog.String("service", "history")),
		bus:        bus,
		repository: repository,
		now:        time.Now,
	}
	s.subID = bus.Subscribe(domain.EventParametersUpdated, func(e domain.Event) {
		if ev, ok := e.(domain.ParametersUpdatedEvent); ok {
			s.Record(ev)
		}
	})
	return s
}

// Record appends an entry when a new track starts playing.
func (s *HistoryService) Record(ev domain.ParametersUpdatedEvent) {
	if !ev.Params.IsPlaying || ev.Track.ID == "" {
		return
	}
	s.mu.Lock()
	if s.stopped || ev.Track.ID == s.lastID {
		s.mu.Unlock()
		return
	}
	s.lastID = ev.Track.ID
	s.mu.Unlock()

	entry := domain.HistoryEntry{
		TrackID:  ev.Track.ID,
		Name:     ev.Track.Name,
		Artists:  ev.Track.Artists,
		Renderer: ev.Renderer,
		Tempo:    ev.Params.Tempo,
		PlayedAt: s.now(),
	}
	if err := s.repository.Append(entry); err != nil {
		s.logger.Warn("failed to record history", slog.String("track_id", entry.TrackID), slog.Any("error", err))
	}
}

// Recent returns up to n entries, newest first. Errors yield an empty list.
func (s *HistoryService) Recent(n int) []domain.HistoryEntry {
	entries, err := s.repository.Recent(n)
	if err != nil {
		s.logger.Warn("failed to read history", slog.Any("error", err))
		return nil
	}
	return entries
}

// Shutdown detaches from the bus.
func (s *HistoryService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.bus.Unsubscribe(s.subID)
}
