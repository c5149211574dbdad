package translate

import (
	"context"
	"sync"
	"time"
)

type throttled struct {
	next  Translator
	delay time.Duration

	mu   sync.Mutex
	last time.Time
}

// Throttled keeps at least delay between the start of consecutive calls.
func Throttled(next Translator, delay time.Duration) Translator {
	if delay <= 0 {
		return next
	}
	return &throttled{next: next, delay: delay}
}

func (t *throttled) Name() string { return t.next.Name() }

func (t *throttled) Translate(ctx context.Context, text, targetLang string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		if wait := t.delay - time.Since(t.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", wrapError(t.next.Name(), text, ctx.Err())
			case <-timer.C:
			}
		}
	}
	t.last = time.Now()
	return t.next.Translate(ctx, text, targetLang)
}
