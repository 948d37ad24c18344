package workout

import (
	"fmt"
	"sync"
	"time"
)

// Timer calls a function with the elapsed time on a fixed interval until it
// is stopped.
type Timer struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartTimer starts ticking. onTick runs on the timer's goroutine.
func StartTimer(start time.Time, interval time.Duration, onTick func(elapsed time.Duration)) *Timer {
	t := &Timer{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case now := <-ticker.C:
				// Stop may have raced the tick.
				select {
				case <-t.stop:
					return
				default:
				}
				onTick(now.Sub(start))
			}
		}
	}()
	return t
}

// Stop halts the timer and waits for its goroutine. No tick is delivered
// after Stop returns. It is safe to call more than once.
func (t *Timer) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.stop) })
	<-t.done
}

// FormatElapsed renders d as MM:SS. Minutes keep counting past an hour.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
