// Package bus carries throttled streaming updates from the controller to a
// presentation surface.
package bus

import (
	"sync"
	"time"
)

// DefaultInterval spaces partial-answer pushes far enough apart for surfaces
// that edit a message in place (websocket frames, Telegram message edits).
const DefaultInterval = 1500 * time.Millisecond

// StreamNotifier accumulates answer deltas and flushes the full accumulated
// text to a callback at a throttled interval, so a surface can show progress
// without being flooded.
type StreamNotifier struct {
	mu       sync.Mutex
	text     string
	dirty    bool
	onUpdate func(fullText string)
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// NewStreamNotifier starts a notifier that calls onUpdate with the full
// accumulated text at most once per interval. Interval <= 0 uses
// DefaultInterval.
func NewStreamNotifier(interval time.Duration, onUpdate func(fullText string)) *StreamNotifier {
	if interval <= 0 {
		interval = DefaultInterval
	}
	sn := &StreamNotifier{
		onUpdate: onUpdate,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
	}
	go sn.loop()
	return sn
}

// Append adds a text delta to the accumulator.
func (sn *StreamNotifier) Append(delta string) {
	sn.mu.Lock()
	sn.text += delta
	sn.dirty = true
	sn.mu.Unlock()
}

// FullText returns the current accumulated text.
func (sn *StreamNotifier) FullText() string {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	return sn.text
}

// Flush stops the notifier and pushes any unsent content. Safe to call more
// than once.
func (sn *StreamNotifier) Flush() {
	sn.once.Do(func() {
		sn.ticker.Stop()
		close(sn.done)
		sn.push()
	})
}

func (sn *StreamNotifier) loop() {
	for {
		select {
		case <-sn.ticker.C:
			sn.push()
		case <-sn.done:
			return
		}
	}
}

func (sn *StreamNotifier) push() {
	sn.mu.Lock()
	if !sn.dirty || sn.text == "" {
		sn.mu.Unlock()
		return
	}
	text := sn.text
	sn.dirty = false
	sn.mu.Unlock()
	sn.onUpdate(text)
}
