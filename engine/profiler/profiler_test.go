package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var logs bytes.Buffer
	p := NewProfiler(
		WithClock(clock.now),
		WithInterval(time.Second),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	for range 29 {
		clock.t = clock.t.Add(time.Second / 60)
		assert.False(t, p.Tick(4))
	}
	assert.Zero(t, p.Last())

	last := time.Second/2 + time.Second/30
	clock.t = clock.t.Add(last)
	assert.True(t, p.Tick(4))

	elapsed := 29*(time.Second/60) + last
	r := p.Last()
	assert.InDelta(t, 30/elapsed.Seconds(), r.FPS, 1e-6)
	assert.Equal(t, 4, r.DrawCalls)
	assert.Positive(t, r.SysMB)
	assert.Contains(t, logs.String(), "msg=profiler")
	assert.Contains(t, logs.String(), "draw_calls=4")

	clock.t = clock.t.Add(time.Millisecond)
	assert.False(t, p.Tick(4))
}
