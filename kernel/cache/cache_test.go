package cache

import (
	"testing"

	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mem"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/mmio"
	"github.com/JesseMcL/hadbadge2019-fpgasoc/kernel/soc"
)

func TestFlush(t *testing.T) {
	specs := []struct {
		region  mem.Region
		expAddr uintptr
		expVal  uint32
	}{
		{
			mem.Region{Start: soc.RAMStart, End: 0x4001f000},
			soc.FlushRegion,
			0x1f000,
		},
		{
			// start is rounded down to a word boundary
			mem.Region{Start: 0x407ec003, End: 0x40800000},
			soc.FlushRegion + 0x7ec000,
			0x800000,
		},
		{
			mem.Region{Start: 0x40000006, End: 0x40000006},
			soc.FlushRegion + 4,
			6,
		},
	}

	for specIndex, spec := range specs {
		sim := mmio.NewSim(soc.RAMStart, mem.Kb)
		NewController(sim).Flush(spec.region)

		if len(sim.Log) != 1 {
			t.Errorf("[spec %d] expected exactly one register write; got %d", specIndex, len(sim.Log))
			continue
		}

		if got := sim.Log[0]; got.Addr != spec.expAddr || got.Val != spec.expVal {
			t.Errorf("[spec %d] expected write of 0x%x to 0x%x; got 0x%x to 0x%x", specIndex, spec.expVal, spec.expAddr, got.Val, got.Addr)
		}

		decoded, ok := Decode(sim.Log[0].Addr, sim.Log[0].Val)
		if !ok {
			t.Errorf("[spec %d] expected Decode to recognize the flush write", specIndex)
			continue
		}

		if decoded.Start != mem.AlignDown(spec.region.Start, 4) || decoded.End != spec.region.End {
			t.Errorf("[spec %d] expected decoded region [0x%x, 0x%x); got [0x%x, 0x%x)", specIndex, spec.region.Start, spec.region.End, decoded.Start, decoded.End)
		}
	}
}

func TestDecodeOutsideWindow(t *testing.T) {
	if _, ok := Decode(soc.MiscBase, 0); ok {
		t.Fatal("expected Decode to reject writes outside the flush window")
	}
}
