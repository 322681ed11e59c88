package flowchart

import "testing"

func TestIDAllocatorSequence(t *testing.T) {
	ids := NewIDAllocator()
	for i, want := range []string{"1", "2", "3"} {
		if got := ids.NextID(); got != want {
			t.Errorf("NextID #%d = %q, want %q", i+1, got, want)
		}
	}
	ids.Reset()
	if got := ids.NextID(); got != "1" {
		t.Errorf("NextID after Reset = %q, want 1", got)
	}
}

func TestIDAllocatorReseed(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  string
	}{
		{
			name:  "numeric IDs",
			nodes: []Node{{ID: "3"}, {ID: "7"}, {ID: "2"}},
			want:  "8",
		},
		{
			name:  "non-numeric IDs ignored",
			nodes: []Node{{ID: "node-a"}, {ID: "4"}},
			want:  "5",
		},
		{
			name:  "no nodes",
			nodes: nil,
			want:  "1",
		},
		{
			name:  "only non-numeric IDs",
			nodes: []Node{{ID: "alpha"}, {ID: "beta"}},
			want:  "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := NewIDAllocator()
			ids.Reseed(tt.nodes)
			if got := ids.NextID(); got != tt.want {
				t.Errorf("NextID after Reseed = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIDAllocatorSetCurrentClamps(t *testing.T) {
	ids := NewIDAllocator()
	ids.SetCurrent(-5)
	if got := ids.NextID(); got != "1" {
		t.Errorf("NextID after negative SetCurrent = %q, want 1", got)
	}
	ids.SetCurrent(41)
	if got := ids.NextID(); got != "41" {
		t.Errorf("NextID after SetCurrent(41) = %q, want 41", got)
	}
}
