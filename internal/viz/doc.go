// Package viz turns simulator planes into pictures.
//
//   - [Colormap]: 256-entry lookup tables built with go-colorful
//   - [Visualizer]: field and smoothed intensity images
//   - [Recorder], [SavePNG]: animated GIF and still output
//   - [LiveModel]: a Bubble Tea terminal view of a running simulation
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene
//	V     - Cycle field, intensity, contour and surface views
//	C     - Cycle field colormaps
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
