package main

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"render-engine/internal/arena"
	"render-engine/internal/debug"
	"render-engine/internal/driver"
	"render-engine/internal/engineconfig"
	"render-engine/internal/froxel"
	"render-engine/internal/graphics"
	"render-engine/internal/lights"
	"render-engine/internal/logger"
	"render-engine/internal/scene"
)

const (
	windowWidth  = 1280
	windowHeight = 640
	defaultRig   = "assets/lights.yaml"
	logEvery     = 120 // frames between stats log lines
)

func main() {
	log := logger.New()
	prefs, _ := engineconfig.Load()

	rigPath := defaultRig
	if len(os.Args) > 1 {
		rigPath = os.Args[1]
	}
	rig, err := scene.Load(rigPath)
	if err != nil {
		log.Logf("rig %s unavailable (%v), using built-in rig", rigPath, err)
		rig = scene.DefaultRig()
	}

	fz := froxel.New()
	if err := fz.SetOptions(prefs.CountZ, prefs.ZLightFar); err != nil {
		fatal(err)
	}
	if err := fz.SetMaxPerFroxel(prefs.MaxPerFroxel); err != nil {
		fatal(err)
	}
	fz.SetWorkers(prefs.Workers)
	defer fz.Terminate()

	frameArena := arena.New(4 << 20)
	dev := driver.Mem()

	dbg := debug.New()
	dbg.SetShowFPS(prefs.ShowFPS)
	dbg.SetShowMemAlloc(prefs.ShowMemAlloc)
	dbg.SetShowStats(prefs.ShowStats)

	cam := rl.Camera3D{
		Position:   rl.NewVector3(20, 15, 20),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	var (
		t          float32
		frame      int
		soa        *lights.SoA
		cursorDone bool
	)

	update := func() {
		if !cursorDone {
			rl.DisableCursor()
			cursorDone = true
		}
		rl.UpdateCamera(&cam, rl.CameraFree)

		t += rl.GetFrameTime()
		frame++
		soa = rig.Frame(t)

		vp := froxel.Viewport{Width: rl.GetScreenWidth(), Height: rl.GetScreenHeight()}
		aspect := float32(vp.Width) / float32(vp.Height)
		proj := mgl32.Perspective(mgl32.DegToRad(cam.Fovy), aspect, 0.1, prefs.ZLightFar)
		view := mgl32.LookAtV(vec3(cam.Position), vec3(cam.Target), vec3(cam.Up))

		if err := fz.Prepare(vp, proj, prefs.ZLightNear, prefs.ZLightFar); err != nil {
			fatal(err)
		}
		scope := frameArena.Scope()
		err := fz.FroxelizeLights(scope, view, soa)
		scope.Release()
		if err != nil {
			fatal(err)
		}
		if err := fz.Commit(dev, driver.PackedLayout{}); err != nil {
			fatal(err)
		}

		s := fz.Stats()
		dbg.SetStats(s)
		if frame%logEvery == 0 {
			log.Logf("froxels %dx%dx%d lights=%d records=%d truncated=%d dropped=%d",
				s.CountX, s.CountY, s.CountZ, s.LightCount, s.RecordCount,
				s.TruncatedFroxels, s.DroppedRecords)
		}
	}

	draw := func() {
		rl.BeginMode3D(cam)
		if prefs.GridVisible {
			rl.DrawGrid(50, 1)
		}
		drawLights(soa)
		rl.EndMode3D()
		dbg.Draw()
	}

	graphics.Run(windowWidth, windowHeight, "froxel viewer", update, draw)
}

// drawLights draws each light's influence sphere: yellow for point lights,
// orange for spots (index 0 is the table's reserved slot).
func drawLights(soa *lights.SoA) {
	if soa == nil {
		return
	}
	for i := 1; i < soa.Len(); i++ {
		pr := soa.PositionRadius[i]
		pos := rl.NewVector3(pr.X(), pr.Y(), pr.Z())
		c := rl.Yellow
		if soa.Kind[i] == lights.TypeSpot {
			c = rl.Orange
		}
		rl.DrawSphereWires(pos, pr.W(), 8, 8, c)
		rl.DrawSphere(pos, 0.2, c)
	}
}

func vec3(v rl.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
