// Package viz draws stones in the terminal.
//
// The pieces are shared with the other drivers:
//
//   - [Project]: camera projection, back-face culling and painter ordering
//   - [StoneColor]: the per-kind palette
//   - [Canvas]: a braille canvas with a depth buffer and cell colors
//   - [Model]: the Bubble Tea program that runs the frame loop
//
// # Key Bindings
//
// Flight keys come from the config (W/S, A/D, R/F, Q/E, X/C, T/G and P by
// default). Terminals only report presses, so a key counts as held until
// it has not repeated for hold_frames frames.
//
//	Space     - Pause/Resume
//	Backspace - Reset the camera
//	Esc       - Quit
//
// Dragging with the left mouse button turns the camera.
package viz
