package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Run starts the window and main loop. Each frame it calls update (camera and light animation), then clears the screen and calls draw (3D scene plus overlays).
// This keeps the graphics layer separate from the culling code being visualized.
// Window is resizable and windowed so the froxel grid can be inspected at different viewport tilings.
func Run(width, height int, title string, update, draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(width), int32(height), title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
}
