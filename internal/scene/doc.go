// Package scene provides the scene objects that shape a wave simulation.
//
// Every type here implements [wave.SceneObject]. They fall in two groups
// with different plane disciplines:
//
// Base layers overwrite a whole plane on every Render and belong at the
// front of the scene list:
//
//   - [StaticDampening]: absorbers plus a graded border layer
//   - [StaticRefractiveIndex]: fixed refractive index map
//   - [StrainRefractiveIndex]: refractive index driven by the field itself
//
// Regions alpha-blend into whatever the earlier objects left in the wave
// speed plane:
//
//   - [PolygonRefractiveIndex], [BoxRefractiveIndex]
//
// Emitters write into the field during UpdateField:
//
//   - [PointSource], [LineSource]: sinusoidal sources, overwrite or blend
//   - [Charge]: a moving Gaussian bump added on top of the field
//   - [ImageScene]: a whole scene authored as an RGB image
package scene

import "github.com/san-kum/wavesim/internal/wave"

var (
	_ wave.SceneObject = (*StaticDampening)(nil)
	_ wave.SceneObject = (*StaticRefractiveIndex)(nil)
	_ wave.SceneObject = (*StrainRefractiveIndex)(nil)
	_ wave.SceneObject = (*PolygonRefractiveIndex)(nil)
	_ wave.SceneObject = (*BoxRefractiveIndex)(nil)
	_ wave.SceneObject = (*PointSource)(nil)
	_ wave.SceneObject = (*LineSource)(nil)
	_ wave.SceneObject = (*Charge)(nil)
	_ wave.SceneObject = (*ImageScene)(nil)

	_ wave.Visualizer = (*PointSource)(nil)
	_ wave.Visualizer = (*LineSource)(nil)
	_ wave.Visualizer = (*PolygonRefractiveIndex)(nil)
	_ wave.Visualizer = (*Charge)(nil)
)
