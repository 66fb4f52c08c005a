package wilsoncowan

import (
	"fmt"

	"github.com/san-kum/wcsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Network is an N-population rate model. It implements dynamo.System.
//
// The weight matrix is read, never written. Network keeps a scratch vector
// for the net input, so a single value must not be shared across goroutines.
type Network struct {
	weights mat.Matrix
	drive   []float64
	tau     []float64

	input *mat.VecDense
}

// NewNetwork validates shapes and time constants. N is taken from w.
func NewNetwork(w mat.Matrix, drive, tau []float64) (*Network, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: weight matrix is nil", dynamo.ErrDimensionMismatch)
	}
	r, c := w.Dims()
	if r == 0 || r != c {
		return nil, fmt.Errorf("%w: weight matrix is %dx%d, want square", dynamo.ErrDimensionMismatch, r, c)
	}
	if len(drive) != r {
		return nil, dynamo.DimensionMismatch("drive", r, len(drive))
	}
	if len(tau) != r {
		return nil, dynamo.DimensionMismatch("tau", r, len(tau))
	}
	for i, v := range tau {
		if !(v > 0) {
			return nil, dynamo.InvalidParameter(fmt.Sprintf("tau[%d]", i), v)
		}
	}

	return &Network{
		weights: w,
		drive:   append([]float64(nil), drive...),
		tau:     append([]float64(nil), tau...),
		input:   mat.NewVecDense(r, nil),
	}, nil
}

func (n *Network) StateDim() int { return len(n.tau) }

// Derive returns (-r + activation(W·r + I)) / tau.
func (n *Network) Derive(r dynamo.State, _ float64) dynamo.State {
	n.input.MulVec(n.weights, mat.NewVecDense(len(r), r))
	in := n.input.RawVector().Data
	floats.Add(in, n.drive)
	Activate(in, in)

	dr := make(dynamo.State, len(r))
	floats.SubTo(dr, in, r)
	floats.Div(dr, n.tau)
	return dr
}

// FixedPoint reports whether r satisfies r = activation(W·r + I) within tol.
func (n *Network) FixedPoint(r dynamo.State, tol float64) bool {
	dr := n.Derive(r, 0)
	floats.Mul(dr, n.tau)
	return floats.Norm(dr, 2) <= tol
}
