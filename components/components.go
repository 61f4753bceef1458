// Package components defines the ECS components of wind particles.
package components

// MaxTrail is the number of past positions a particle remembers.
const MaxTrail = 32

// Position is a particle's location in degrees.
type Position struct {
	Lon, Lat float64
}

// Wind is the wind last sampled under the particle.
type Wind struct {
	U, V  float64
	Speed float64
	// SpeedT is Speed normalized to the color domain, in [0, 1].
	SpeedT float64
}

// Trail holds past positions, most recent first.
type Trail struct {
	Lon [MaxTrail]float64
	Lat [MaxTrail]float64
	Len uint8
}

// Push records p as the newest trail point, dropping the oldest when full.
func (t *Trail) Push(p Position) {
	copy(t.Lon[1:], t.Lon[:MaxTrail-1])
	copy(t.Lat[1:], t.Lat[:MaxTrail-1])
	t.Lon[0] = p.Lon
	t.Lat[0] = p.Lat
	if t.Len < MaxTrail {
		t.Len++
	}
}

// Reset clears the trail, used when a particle respawns.
func (t *Trail) Reset() {
	t.Len = 0
}

// Style is how a particle is drawn this frame.
type Style struct {
	Width      float32
	ColorIndex int
	// Visible is the number of trail points drawn.
	Visible int
	Hidden  bool
}

// Age counts steps since the last respawn.
type Age struct {
	Steps int32
}
