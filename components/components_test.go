package components

import "testing"

func TestTrail_PushKeepsMostRecentFirst(t *testing.T) {
	var tr Trail
	for i := 0; i < MaxTrail+5; i++ {
		tr.Push(Position{Lon: float64(i), Lat: -float64(i)})
	}

	if tr.Len != MaxTrail {
		t.Errorf("expected trail capped at %d, got %d", MaxTrail, tr.Len)
	}
	if tr.Lon[0] != float64(MaxTrail+4) {
		t.Errorf("expected newest lon %d first, got %v", MaxTrail+4, tr.Lon[0])
	}
	if tr.Lat[MaxTrail-1] != -5 {
		t.Errorf("expected oldest kept lat -5, got %v", tr.Lat[MaxTrail-1])
	}

	tr.Reset()
	if tr.Len != 0 {
		t.Errorf("expected empty trail after reset, got %d", tr.Len)
	}
}
