package async2

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithInitialCapacityReservesSlots(t *testing.T) {
	lp := NewLoop(WithInitialCapacity(64))
	for i := 0; i < 64; i++ {
		lp.AddTask(NewCoro(countingBody, 1_000_000).Raw())
	}
	assert.Equal(t, 64, lp.events.Len())
}

func TestWithLoggerReceivesLifecycleEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	lp := NewLoop(WithLogger(logger))

	s := NewCoro(countingBody, 1)
	lp.AddTask(s.Raw())

	assert.Contains(t, buf.String(), "task scheduled")
}

func TestNopLoggerIsSilentByDefault(t *testing.T) {
	lp := NewLoop()
	s := NewCoro(countingBody, 1)
	assert.NotPanics(t, func() { lp.AddTask(s.Raw()) })
}
