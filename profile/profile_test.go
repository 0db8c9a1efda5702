package profile

import (
	"slices"
	"testing"
)

func TestProfiler_StartNoop(t *testing.T) {
	t.Parallel()

	for _, p := range []Profiler{
		{},
		{Mode: "bogus", Path: t.TempDir(), Quiet: true},
	} {
		stop := p.Start()
		if _, ok := stop.(ignore); !ok {
			t.Errorf("Start(%+v) = %T, want a no-op", p, stop)
		}

		stop.Stop()
	}
}

func TestModes(t *testing.T) {
	t.Parallel()

	modes := Modes()

	if !Enabled {
		if len(modes) != 0 {
			t.Errorf("Modes() = %q without the %s tag", modes, Tag)
		}

		return
	}

	if !slices.IsSorted(modes) || !slices.Contains(modes, "cpu") {
		t.Errorf("Modes() = %q, want sorted and including cpu", modes)
	}
}
