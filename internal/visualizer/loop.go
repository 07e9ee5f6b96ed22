package visualizer

import (
	"sync"
	"time"
)

// Loop calls a tick function on a ticker goroutine until it is stopped or
// the tick returns false.
type Loop struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartLoop starts ticking every interval. tick must not call Stop on its
// own loop.
func StartLoop(interval time.Duration, tick func(now time.Time) bool) *Loop {
	if interval <= 0 {
		interval = time.Second / 30
	}
	l := &Loop{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(l.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-l.stop:
				return
			case now := <-ticker.C:
				// Stop may race with a ready tick; stop wins.
				select {
				case <-l.stop:
					return
				default:
				}
				if !tick(now) {
					return
				}
			}
		}
	}()
	return l
}

// Stop ends the loop and waits for the goroutine to exit. Safe to call
// more than once and after the loop ended by itself.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
