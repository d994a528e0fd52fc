// Package cubelock provides a 3x3x3 cube puzzle engine whose move stream
// unlocks a hidden page when a secret sequence is performed.
//
// # Features
//
//   - Cubelet store with exact integer positions and orientations
//   - Frame-driven rotation engine that never runs two turns at once
//   - Pointer-drag and keyboard resolution into layer turns
//   - Move watcher that matches a trailing window against a secret
//
// # Quick Start
//
// Drive a cube headlessly:
//
//	store := cubelock.NewStore()
//	engine := cubelock.NewEngine(store)
//	watcher := cubelock.NewWatcher(cubelock.DefaultSecretSequence, func() {
//	    fmt.Println("unlocked")
//	})
//	engine.OnMove(func(m cubelock.Move) {
//	    watcher.Observe(m)
//	})
//
//	engine.RequestRotation(cubelock.RotateRight)
//	for engine.Busy() {
//	    engine.Advance() // once per rendered frame
//	}
//
// # Rendering
//
// The engine knows nothing about drawing. A render adapter implements
// TransformSink to receive per-frame cubelet poses and Picker to turn
// screen points into cubelet hits for the Resolver:
//
//	engine.SetSink(scene)
//	resolver := cubelock.NewResolver(engine, scene)
//	resolver.PointerDown(cubelock.ScreenPoint{X: 320, Y: 200})
//	resolver.PointerMove(cubelock.ScreenPoint{X: 350, Y: 200})
//
// # Move Labels
//
// Every completed turn is reported with one of six labels, derived from
// the turn's axis and direction:
//
//   - Rotate Right / Rotate Left: X axis, +1 / -1
//   - Rotate Up / Rotate Down: Y axis, +1 / -1
//   - Rotate Front / Rotate Back: Z axis, +1 / -1
package cubelock
