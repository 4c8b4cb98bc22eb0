package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock_StartsAtEpoch(t *testing.T) {
	clock := NewManualClock()
	assert.Equal(t, Epoch, clock.Now())
}

func TestManualClock_Advance(t *testing.T) {
	clock := NewManualClock()

	assert.Equal(t, Epoch.Add(time.Second), clock.Advance(time.Second))
	assert.Equal(t, Epoch.Add(time.Minute+time.Second), clock.Advance(time.Minute))

	// never goes backwards
	clock.Advance(-time.Hour)
	assert.Equal(t, Epoch.Add(time.Minute+time.Second), clock.Now())
}

func TestManualClock_Reset(t *testing.T) {
	clock := NewManualClock()
	clock.Advance(time.Hour)
	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestManualClock_ThreadSafe(t *testing.T) {
	clock := NewManualClock()
	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
		}()
	}
	wg.Wait()

	assert.Equal(t, Epoch.Add(numGoroutines*time.Second), clock.Now())
}

func TestSequentialIDs(t *testing.T) {
	ids := NewSequentialIDs("")
	assert.Equal(t, "game-1", ids.Generate())
	assert.Equal(t, "game-2", ids.Generate())

	custom := NewSequentialIDs("lobby")
	assert.Equal(t, "lobby-1", custom.Generate())
}

func TestSequentialIDs_ThreadSafe(t *testing.T) {
	ids := NewSequentialIDs("g")
	const numGoroutines = 100

	out := make(chan string, numGoroutines)
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			out <- ids.Generate()
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[string]bool)
	for id := range out {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, numGoroutines)
}

func TestPacketLog(t *testing.T) {
	var log PacketLog
	log.Send(1, fakePacket("phase"))
	log.Deliver("g-1", 2, fakePacket("grave"))
	log.Deliver("g-1", 1, fakePacket("grave"))

	assert.Equal(t, 3, log.Len())
	assert.Len(t, log.To(1, "grave"), 1)
	assert.Len(t, log.To(1, "phase"), 1)
	assert.Equal(t, "g-1", log.All()[1].GameID)

	log.Reset()
	assert.Zero(t, log.Len())
}

type fakePacket string

func (p fakePacket) PacketType() string { return string(p) }
