// Package wave integrates the 2D scalar wave equation on a uniform grid.
//
// A [Simulator] owns the field planes and an ordered list of
// [SceneObject] values. Each frame runs in two calls:
//
//  1. [Simulator.UpdateScene] resets wave speed and dampening to 1.0, lets
//     every scene object render into those planes (list order), then lets
//     every scene object write into the field (list order).
//  2. [Simulator.UpdateField] advances the field one step with a damped
//     leapfrog scheme and moves the clock forward by dt.
//
// # Example
//
//	src := scene.NewPointSource(32, 32, 0.1, 1)
//	s, _ := wave.New(64, 64, []wave.SceneObject{src})
//	for i := 0; i < 100; i++ {
//	    if err := s.UpdateScene(); err != nil {
//	        return err
//	    }
//	    if err := s.UpdateField(); err != nil {
//	        return err
//	    }
//	}
//
// # Stability
//
// The scheme is explicit. Wave speed c*dt must stay well below one cell per
// step; scene objects clamp refractive indices into [0.9, 10] for that
// reason.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. The compute backend may split a
// step across goroutines internally but always returns after the whole
// grid is updated.
package wave
