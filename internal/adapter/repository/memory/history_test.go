package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

func newTestHistoryRepository() *HistoryRepository {
	return NewHistoryRepository(0)
}

func entry(i int) domain.HistoryEntry {
	return domain.HistoryEntry{
		TrackID:  fmt.Sprintf("t%d", i),
		Name:     fmt.Sprintf("Song %d", i),
		Artists:  "Artist",
		Renderer: domain.RendererRadar,
		Tempo:    120,
		PlayedAt: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
	}
}

func TestHistoryRepository_EmptyByDefault(t *testing.T) {
	repo := newTestHistoryRepository()

	got, err := repo.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryRepository_NewestFirst(t *testing.T) {
	repo := newTestHistoryRepository()
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Append(entry(i)))
	}

	got, err := repo.Recent(0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "t3", got[0].TrackID)
	assert.Equal(t, "t1", got[2].TrackID)
	assert.True(t, got[0].PlayedAt.Equal(entry(3).PlayedAt))

	two, err := repo.Recent(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestHistoryRepository_Bounded(t *testing.T) {
	repo := newTestHistoryRepository()
	for i := 0; i < MaxHistoryEntries+10; i++ {
		require.NoError(t, repo.Append(entry(i)))
	}

	got, err := repo.Recent(0)
	require.NoError(t, err)
	assert.Len(t, got, MaxHistoryEntries)
	assert.Equal(t, fmt.Sprintf("t%d", MaxHistoryEntries+9), got[0].TrackID)
}

func TestHistoryRepository_RejectsEmptyTrack(t *testing.T) {
	repo := newTestHistoryRepository()

	err := repo.Append(domain.HistoryEntry{Name: "no id"})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	got, err := repo.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryRepository_CustomBoundAndCopy(t *testing.T) {
	repo := NewHistoryRepository(2)
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Append(entry(i)))
	}

	got, err := repo.Recent(0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t3", got[0].TrackID)
	assert.Equal(t, "t2", got[1].TrackID)

	got[0].Name = "mutated"
	again, err := repo.Recent(1)
	require.NoError(t, err)
	assert.Equal(t, "Song 3", again[0].Name)
}

func TestHistoryRepository_Clear(t *testing.T) {
	repo := newTestHistoryRepository()
	require.NoError(t, repo.Append(entry(1)))
	require.NoError(t, repo.Clear())

	got, err := repo.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
