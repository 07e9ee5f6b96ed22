package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/logger"
)

// Mock settings repository for testing
type mockSettingsRepository struct {
	mu          sync.RWMutex
	fps         int
	crossfade   time.Duration
	transitions *bool
	renderer    domain.RendererKind
	failSave    error
}

func (m *mockSettingsRepository) SaveFPS(fps int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	m.fps = fps
	return nil
}

func (m *mockSettingsRepository) LoadFPS() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fps, nil
}

func (m *mockSettingsRepository) SaveCrossfade(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.crossfade = d
	return nil
}

func (m *mockSettingsRepository) LoadCrossfade() (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.crossfade, nil
}

func (m *mockSettingsRepository) SaveTransitionsEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = &enabled
	return nil
}

func (m *mockSettingsRepository) LoadTransitionsEnabled() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.transitions == nil {
		return true, nil
	}
	return *m.transitions, nil
}

func (m *mockSettingsRepository) SaveLastRenderer(kind domain.RendererKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderer = kind
	return nil
}

func (m *mockSettingsRepository) LoadLastRenderer() (domain.RendererKind, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.renderer == "" {
		return domain.DefaultRenderer, nil
	}
	return m.renderer, nil
}

func (m *mockSettingsRepository) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fps, m.crossfade, m.transitions, m.renderer = 0, 0, nil, ""
	return nil
}

var testDefaults = Settings{FPS: 30, Crossfade: 2 * time.Second, TransitionsEnabled: true, LastRenderer: domain.RendererRetro}

func TestSettingsService_DefaultsWhenNothingSaved(t *testing.T) {
	s := NewSettingsService(logger.NewTestLogger(), &mockSettingsRepository{}, testDefaults)
	assert.Equal(t, testDefaults, s.Get())
}

func TestSettingsService_SavedValuesOverride(t *testing.T) {
	off := false
	repo := &mockSettingsRepository{fps: 60, crossfade: 500 * time.Millisecond, transitions: &off, renderer: domain.RendererRadar}
	s := NewSettingsService(logger.NewTestLogger(), repo, testDefaults)

	assert.Equal(t, Settings{FPS: 60, Crossfade: 500 * time.Millisecond, TransitionsEnabled: false, LastRenderer: domain.RendererRadar}, s.Get())
}

func TestSettingsService_IgnoresOutOfRangeSavedValues(t *testing.T) {
	repo := &mockSettingsRepository{fps: 500, crossfade: time.Hour}
	s := NewSettingsService(logger.NewTestLogger(), repo, testDefaults)
	assert.Equal(t, 30, s.Get().FPS)
	assert.Equal(t, 2*time.Second, s.Get().Crossfade)
}

func TestSettingsService_Validation(t *testing.T) {
	repo := &mockSettingsRepository{}
	s := NewSettingsService(logger.NewTestLogger(), repo, testDefaults)

	var verr *domain.ValidationError
	assert.ErrorAs(t, s.SetFPS(0), &verr)
	assert.Equal(t, "fps", verr.Field)
	assert.ErrorAs(t, s.SetCrossfade(-time.Second), &verr)
	assert.ErrorAs(t, s.RememberRenderer("disco"), &verr)

	require.NoError(t, s.SetFPS(45))
	require.NoError(t, s.SetCrossfade(time.Second))
	require.NoError(t, s.SetTransitionsEnabled(false))
	require.NoError(t, s.RememberRenderer(domain.RendererMatrix))

	assert.Equal(t, Settings{FPS: 45, Crossfade: time.Second, TransitionsEnabled: false, LastRenderer: domain.RendererMatrix}, s.Get())
	assert.Equal(t, 45, repo.fps)
	assert.Equal(t, domain.RendererMatrix, repo.renderer)
}

func TestSettingsService_SaveFailureLeavesCache(t *testing.T) {
	boom := errors.New("disk full")
	s := NewSettingsService(logger.NewTestLogger(), &mockSettingsRepository{failSave: boom}, testDefaults)
	assert.ErrorIs(t, s.SetFPS(60), boom)
	assert.Equal(t, 30, s.Get().FPS)
}

func TestSettingsService_Reset(t *testing.T) {
	repo := &mockSettingsRepository{}
	s := NewSettingsService(logger.NewTestLogger(), repo, testDefaults)
	require.NoError(t, s.SetFPS(90))
	require.NoError(t, s.ResetToDefaults())
	assert.Equal(t, testDefaults, s.Get())
	assert.Zero(t, repo.fps)
}
