package service

import (
	"context"
	"image"
	"sync"

	"github.com/tejashwikalptaru/ambience/internal/adapter/playback/mock"
	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/palette"
)

// fakeLoader serves mock artwork by ref name. Refs listed in gates block
// until their channel is closed, ignoring cancellation unless ctxAware.
type fakeLoader struct {
	mu       sync.Mutex
	calls    map[string]int
	gates    map[string]chan struct{}
	missing  map[string]bool
	ctxAware bool
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		calls:   map[string]int{},
		gates:   map[string]chan struct{}{},
		missing: map[string]bool{},
	}
}

func (f *fakeLoader) gate(ref string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[ref] = ch
	return ch
}

func (f *fakeLoader) callsFor(ref string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[ref]
}

func (f *fakeLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	f.mu.Lock()
	f.calls[ref]++
	gate := f.gates[ref]
	missing := f.missing[ref]
	f.mu.Unlock()

	if gate != nil {
		if f.ctxAware {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, domain.NewArtworkError("load", ref, ctx.Err())
			}
		} else {
			<-gate
		}
	}
	if missing {
		return nil, domain.NewArtworkError("load", ref, domain.ErrArtworkUnavailable)
	}
	return mock.Render(ref), nil
}

func expectedPalette(ref string) domain.Palette {
	p, err := palette.FromImage(mock.Render(ref), palette.DefaultExtractOptions())
	if err != nil {
		panic(err)
	}
	return p
}

func playing(ref string) domain.PlaybackSample {
	return domain.PlaybackSample{
		IsPlaying:  true,
		ArtworkRef: ref,
		Track:      domain.TrackMetadata{ID: "id-" + ref, Name: "Track " + ref, Artists: "Artist"},
	}
}

// recorder collects bus events of one type.
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) handle(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) last() domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}
