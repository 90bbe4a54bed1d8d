package engineconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// CullingConfigPath is the path to the culling config file, relative to the process working directory.
const CullingConfigPath = "config/culling.json"

// CullingPrefs holds froxelization tuning and viewer preferences. Persisted across runs.
// Values here are starting points; the froxelizer still validates and clamps them.
type CullingPrefs struct {
	CountZ       int     `json:"count_z"`
	ZLightNear   float32 `json:"z_light_near"`
	ZLightFar    float32 `json:"z_light_far"`
	MaxPerFroxel int     `json:"max_per_froxel"`
	Workers      int     `json:"workers,omitempty"`
	ShowFPS      bool    `json:"show_fps"`
	ShowMemAlloc bool    `json:"show_memalloc"`
	ShowStats    bool    `json:"show_stats"`
	GridVisible  bool    `json:"grid_visible"`
}

// Default returns default culling preferences (16 slices, lights out to 100 units, stats overlay on).
func Default() CullingPrefs {
	return CullingPrefs{
		CountZ:       16,
		ZLightNear:   5,
		ZLightFar:    100,
		MaxPerFroxel: 64,
		ShowFPS:      true,
		ShowMemAlloc: false,
		ShowStats:    true,
		GridVisible:  true,
	}
}

// Load reads culling preferences from config/culling.json. If the file is missing or invalid,
// returns Default() and does not create a file.
func Load() (CullingPrefs, error) {
	return LoadFrom(CullingConfigPath)
}

// LoadFrom reads culling preferences from an explicit path, with the same
// missing/invalid fallback as Load.
func LoadFrom(path string) (CullingPrefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	var p CullingPrefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p, nil
}

// Save writes culling preferences to config/culling.json, creating the config directory if needed.
func Save(p CullingPrefs) error {
	return SaveTo(CullingConfigPath, p)
}

// SaveTo writes culling preferences to an explicit path, creating its directory if needed.
func SaveTo(path string, p CullingPrefs) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
