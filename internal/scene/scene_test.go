package scene

import (
	"os"
	"path/filepath"
	"testing"

	"render-engine/internal/lights"
)

const rigYAML = `lights:
  - name: fill
    type: point
    position: [0, 2, -10]
    radius: 6
  - name: sweep
    type: spot
    position: [0, 8, 0]
    radius: 12
    direction: [0, -1, 0]
    orbit_radius: 5
    orbit_speed: 0.25
`

func writeRig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lights.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRig(t *testing.T) {
	rig, err := Load(writeRig(t, rigYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rig.Lights) != 2 {
		t.Fatalf("len(Lights) = %d, want 2", len(rig.Lights))
	}
	if rig.Lights[0].Type != "point" || rig.Lights[1].Type != "spot" {
		t.Errorf("light types = %s/%s, want point/spot", rig.Lights[0].Type, rig.Lights[1].Type)
	}
	if rig.Lights[1].OrbitRadius != 5 {
		t.Errorf("orbit_radius = %v, want 5", rig.Lights[1].OrbitRadius)
	}
}

func TestLoadRejectsBadRigs(t *testing.T) {
	cases := map[string]string{
		"no lights":   `lights: []`,
		"bad type":    "lights:\n  - {name: x, type: area, position: [0,0,0], radius: 1}",
		"zero radius": "lights:\n  - {name: x, type: point, position: [0,0,0], radius: 0}",
		"bad orbit":   "lights:\n  - {name: x, type: point, position: [0,0,0], radius: 1, orbit_speed: -1}",
		"not yaml":    `{{{{`,
	}
	for name, body := range cases {
		if _, err := Load(writeRig(t, body)); err == nil {
			t.Errorf("%s: Load should fail", name)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("missing file: Load should fail")
	}
}

func TestFrameBuildsTableWithSentinel(t *testing.T) {
	rig, err := Load(writeRig(t, rigYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	soa := rig.Frame(0)
	if soa.Len() != 3 { // sentinel + 2 lights
		t.Fatalf("Len = %d, want 3", soa.Len())
	}
	if soa.Kind[1] != lights.TypePoint || soa.Kind[2] != lights.TypeSpot {
		t.Errorf("kinds = %v/%v, want point/spot", soa.Kind[1], soa.Kind[2])
	}
	if got := soa.PositionRadius[1]; got.Z() != -10 || got.W() != 6 {
		t.Errorf("light 1 position/radius = %v", got)
	}
}

func TestFrameAnimatesOrbits(t *testing.T) {
	rig, err := Load(writeRig(t, rigYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p0 := rig.Frame(0).PositionRadius[2]
	// A quarter revolution at 0.25 rev/s takes one second.
	p1 := rig.Frame(1).PositionRadius[2]

	if p0 == p1 {
		t.Fatalf("orbiting light did not move: %v", p0)
	}
	if p0.Y() != p1.Y() {
		t.Errorf("orbit left the XZ plane: %v vs %v", p0.Y(), p1.Y())
	}
	if p0.W() != p1.W() {
		t.Errorf("orbit changed the radius of influence: %v vs %v", p0.W(), p1.W())
	}

	// The fixed light never moves.
	f0 := rig.Frame(0).PositionRadius[1]
	f1 := rig.Frame(2).PositionRadius[1]
	if f0 != f1 {
		t.Errorf("fixed light moved: %v vs %v", f0, f1)
	}
}

func TestDefaultRigIsValid(t *testing.T) {
	rig := DefaultRig()
	soa := rig.Frame(0.5)
	if soa.Len() != len(rig.Lights)+1 {
		t.Fatalf("Len = %d, want %d", soa.Len(), len(rig.Lights)+1)
	}
	for i := 1; i < soa.Len(); i++ {
		if soa.PositionRadius[i].W() <= 0 {
			t.Errorf("light %d has non-positive radius", i)
		}
	}
}
