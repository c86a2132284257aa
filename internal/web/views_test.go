package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistryEvictsIdleEntries(t *testing.T) {
	reg := NewRegistry(nil)
	clock := time.Now()
	reg.now = func() time.Time { return clock }

	reg.For("abandoned")
	assert.Equal(t, 1, reg.Len())

	// Idle past the TTL; the next access sweeps it out.
	clock = clock.Add(reg.ttl + sweepEvery + time.Second)
	reg.For("fresh")

	assert.Equal(t, 1, reg.Len())
	_, kept := reg.views["abandoned"]
	assert.False(t, kept)
}

func TestRegistryKeepsActiveEntries(t *testing.T) {
	reg := NewRegistry(nil)
	clock := time.Now()
	reg.now = func() time.Time { return clock }

	first := reg.For("busy")
	for i := 0; i < 12; i++ {
		clock = clock.Add(reg.ttl / 2)
		reg.For("busy")
	}

	assert.Equal(t, 1, reg.Len())
	assert.Same(t, first, reg.For("busy"), "an active key keeps its view state")
}

func TestRegistryDrop(t *testing.T) {
	reg := NewRegistry(nil)
	reg.For("sid")
	reg.Drop("sid")
	assert.Zero(t, reg.Len())
}
