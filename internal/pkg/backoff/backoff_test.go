//go:build unit

package backoff_test

import (
	"context"
	"testing"
	"time"

	"slot-capacity-engine/internal/pkg/backoff"

	"github.com/stretchr/testify/assert"
)

func TestExponential(t *testing.T) {
	base := 50 * time.Millisecond

	for attempt, want := range []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond} {
		for range 20 {
			got := backoff.Exponential(attempt, base)
			assert.GreaterOrEqual(t, got, want)
			assert.Less(t, got, want+want/5+1)
		}
	}
}

func TestSleep_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := backoff.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
