package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"render-engine/internal/froxel"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh overlay text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug holds runtime debugging overlays (FPS, heap, froxelization stats). All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	frameCount   uint32
	stats        froxel.Stats
	lastFpsText  string
	lastMemText  string
	lastStats    []string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetShowStats sets whether froxelization stats are drawn (top-right, under FPS/Mem).
func (d *Debug) SetShowStats(show bool) {
	d.ShowStats = show
}

// SetStats records the latest froxelization counters for the stats overlay.
func (d *Debug) SetStats(s froxel.Stats) {
	d.stats = s
}

// Draw renders any enabled debug overlays. Call last in the draw loop, after the 3D scene.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw() {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowStats && len(d.lastStats) == 0 {
		update = true
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)

	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		y = drawLine(d.lastFpsText, screenW, y, rl.Green)
	}

	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		y = drawLine(d.lastMemText, screenW, y, rl.Green)
	}

	if d.ShowStats {
		if update {
			s := d.stats
			d.lastStats = append(d.lastStats[:0],
				fmt.Sprintf("Froxels: %dx%dx%d", s.CountX, s.CountY, s.CountZ),
				fmt.Sprintf("Lights: %d", s.LightCount),
				fmt.Sprintf("Records: %d (dropped %d)", s.RecordCount, s.DroppedRecords),
				fmt.Sprintf("Truncated froxels: %d", s.TruncatedFroxels),
			)
		}
		for _, line := range d.lastStats {
			y = drawLine(line, screenW, y, rl.SkyBlue)
		}
	}
}

// drawLine draws one right-aligned overlay line and returns the next line's y.
func drawLine(text string, screenW, y int32, c rl.Color) int32 {
	if text == "" {
		return y
	}
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, screenW-w-padding, y, fontSize, c)
	return y + lineHeight
}
