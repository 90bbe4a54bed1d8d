// Package scene loads light rigs from YAML files and animates them into the
// per-frame light table the froxelizer consumes.
package scene

import (
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"render-engine/internal/lights"
)

// LightSpec describes one light of a rig as written in the YAML file.
// Orbiting lights circle their position on the XZ plane at OrbitRadius,
// completing OrbitSpeed revolutions per second.
type LightSpec struct {
	Name        string     `yaml:"name"`
	Type        string     `yaml:"type"` // "point" or "spot"
	Position    [3]float32 `yaml:"position"`
	Radius      float32    `yaml:"radius"`
	Direction   [3]float32 `yaml:"direction,omitempty"`
	OrbitRadius float32    `yaml:"orbit_radius,omitempty"`
	OrbitSpeed  float32    `yaml:"orbit_speed,omitempty"`
}

// Rig is a loaded light rig. The SoA it builds is reused across frames, so a
// rig serves one consumer at a time.
type Rig struct {
	Lights []LightSpec
	soa    *lights.SoA
}

// Load reads and validates a YAML light rig.
func Load(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read rig: %w", err)
	}
	var file struct {
		Lights []LightSpec `yaml:"lights"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("scene: parse rig %s: %w", path, err)
	}
	if len(file.Lights) == 0 {
		return nil, fmt.Errorf("scene: rig %s declares no lights", path)
	}
	for i, l := range file.Lights {
		if l.Type != "point" && l.Type != "spot" {
			return nil, fmt.Errorf("scene: light %d (%s): type must be point or spot, got %q", i, l.Name, l.Type)
		}
		if l.Radius <= 0 {
			return nil, fmt.Errorf("scene: light %d (%s): radius must be > 0, got %v", i, l.Name, l.Radius)
		}
		if l.OrbitRadius < 0 || l.OrbitSpeed < 0 {
			return nil, fmt.Errorf("scene: light %d (%s): orbit values must be >= 0", i, l.Name)
		}
	}
	return &Rig{Lights: file.Lights, soa: lights.NewSoA()}, nil
}

// DefaultRig returns a small built-in rig for when no YAML file is around:
// two orbiting point lights and a fixed downward spot.
func DefaultRig() *Rig {
	return &Rig{
		Lights: []LightSpec{
			{Name: "orbit-a", Type: "point", Position: [3]float32{0, 2, 0}, Radius: 6, OrbitRadius: 10, OrbitSpeed: 0.1},
			{Name: "orbit-b", Type: "point", Position: [3]float32{0, 4, 0}, Radius: 4, OrbitRadius: 16, OrbitSpeed: 0.05},
			{Name: "overhead", Type: "spot", Position: [3]float32{0, 12, 0}, Radius: 15, Direction: [3]float32{0, -1, 0}},
		},
		soa: lights.NewSoA(),
	}
}

// Frame builds the light table for time t (seconds). The returned SoA is
// owned by the rig and overwritten by the next call.
func (r *Rig) Frame(t float32) *lights.SoA {
	r.soa.Reset()
	for i, l := range r.Lights {
		pos := l.positionAt(t)
		kind := lights.TypePoint
		if l.Type == "spot" {
			kind = lights.TypeSpot
		}
		dir := mgl32.Vec3{l.Direction[0], l.Direction[1], l.Direction[2]}
		r.soa.Append(mgl32.Vec4{pos[0], pos[1], pos[2], l.Radius}, dir, uint32(i+1), kind)
	}
	return r.soa
}

func (l *LightSpec) positionAt(t float32) [3]float32 {
	if l.OrbitRadius == 0 || l.OrbitSpeed == 0 {
		return l.Position
	}
	a := 2 * math32.Pi * l.OrbitSpeed * t
	return [3]float32{
		l.Position[0] + l.OrbitRadius*math32.Cos(a),
		l.Position[1],
		l.Position[2] + l.OrbitRadius*math32.Sin(a),
	}
}
