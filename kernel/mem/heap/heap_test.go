package heap

import (
	"testing"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mmio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arenaBase = 0x40000000

func TestSetStart(t *testing.T) {
	assert := assert.New(t)
	h := New(mem.Region{Start: arenaBase, End: arenaBase + 0x1000}, nil)

	assert.Nil(h.SetStart(arenaBase + 0x800))
	assert.Equal(uintptr(arenaBase+0x800), h.Start())
	assert.Equal(mem.Size(0x800), h.Free())

	assert.Equal(errStartInvalid, h.SetStart(arenaBase-1))
	assert.Equal(errStartInvalid, h.SetStart(arenaBase+0x1001))
	assert.Equal(uintptr(arenaBase+0x800), h.Start(), "rejected start must not change the heap")
}

func TestSbrk(t *testing.T) {
	assert := assert.New(t)
	h := New(mem.Region{Start: arenaBase, End: arenaBase + 0x100}, nil)
	require.Nil(t, h.SetStart(arenaBase+0x10))

	prev, err := h.Sbrk(0x20)
	assert.Nil(err)
	assert.Equal(uintptr(arenaBase+0x10), prev)

	prev, err = h.Sbrk(-0x10)
	assert.Nil(err)
	assert.Equal(uintptr(arenaBase+0x30), prev)
	assert.Equal(mem.Region{Start: arenaBase + 0x10, End: arenaBase + 0x20}, h.Used())

	_, err = h.Sbrk(-0x11)
	assert.Equal(errOutOfMemory, err)

	_, err = h.Sbrk(0xe1)
	assert.Equal(errOutOfMemory, err)

	prev, err = h.Sbrk(0xe0)
	assert.Nil(err)
	assert.Equal(uintptr(arenaBase+0x20), prev)
	assert.Equal(mem.Size(0), h.Free())
}

func TestCalloc(t *testing.T) {
	assert := assert.New(t)
	sim := mmio.NewSim(arenaBase, 0x1000)
	for i := uintptr(0); i < 0x1000; i += 4 {
		sim.Write32(arenaBase+i, 0xffffffff)
	}

	h := New(mem.Region{Start: arenaBase + 0x800, End: arenaBase + 0x1000}, sim)
	_, err := h.Sbrk(3)
	require.Nil(t, err)

	r, err := h.Calloc(0x100, 0x10)
	require.Nil(t, err)
	assert.Equal(mem.Region{Start: arenaBase + 0x810, End: arenaBase + 0x910}, r)

	for _, b := range sim.Bytes(r) {
		if b != 0 {
			t.Fatal("expected Calloc to clear the returned block")
		}
	}
	assert.Equal(uint32(0xffffffff), sim.Read32(arenaBase+0x910), "bytes past the block must be left alone")

	_, err = h.Calloc(0x700, 4)
	assert.Equal(errOutOfMemory, err)
}
