// Package viz renders canvases in the terminal.
//
// The package implements a preview TUI using the Bubble Tea framework:
//
//   - [Preview]: steps a scene and shows it live
//   - [Canvas]: Braille dot grid, fed from a raster canvas by [Downsample]
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Step one frame while paused
//	R     - Restart the scene
//	T     - Cycle color themes
//	Q     - Quit
package viz
