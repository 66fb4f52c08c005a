// Package wilsoncowan simulates Wilson-Cowan rate populations with a
// rectified-linear activation:
//
//	tau_i dr_i/dt = -r_i + [ sum_j W_ij r_j + I_i ]_+
//
// [Solve] integrates an N-population network with explicit fixed-step Euler
// from r(0) = 0. [SolveTwoPopulation] is the classic excitatory/inhibitory
// pair and runs through the same kernel, so both produce identical series for
// equivalent parameters.
//
// Every call is self-contained: parameters are threaded explicitly and the
// returned [Trajectory] is owned by the caller. Divergent parameter sets are
// not errors; activity is allowed to grow without bound or become non-finite.
package wilsoncowan
