// Package dynamo provides the simulation primitives shared by the population models.
//
// The package defines the fundamental types for fixed-step numerical
// integration of ordinary differential equations (ODEs):
//
//   - [State]: vector of population activities at one instant
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Simulator]: builds the time grid and records the full trajectory
//
// # Example
//
//	net, _ := wilsoncowan.NewNetwork(w, drive, tau)
//	s := dynamo.New(net, integrators.NewEuler())
//	result, _ := s.Run(make(dynamo.State, net.StateDim()), dynamo.Config{Dt: 0.1, Duration: 200})
//
// # Thread Safety
//
// A Simulator is NOT safe for concurrent use: metrics are reset and fed on
// every Run, and systems may keep scratch buffers. Build one per goroutine.
package dynamo
