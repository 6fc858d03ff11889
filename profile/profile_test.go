package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Start_Disabled(t *testing.T) {
	tests := []struct {
		name string
		p    Profiler
	}{
		{"empty mode", Profiler{}},
		{"unknown mode", Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.p.Start()
			if _, ok := s.(ignore); !ok {
				t.Errorf("expected no-op stopper, got %T", s)
			}

			s.Stop()
		})
	}
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !Enabled {
		if len(modes) != 0 {
			t.Errorf("expected no modes without pprof tag, got %v", modes)
		}

		return
	}

	if !slices.IsSorted(modes) {
		t.Errorf("modes not sorted: %v", modes)
	}
	if !slices.Contains(modes, "cpu") {
		t.Errorf("expected cpu mode, got %v", modes)
	}
}
