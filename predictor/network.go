package predictor

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Network is the two-hidden-layer MLP regressor of spec §4.4: 60-dim input,
// ReLU hidden layers of width 4*input then 2*input, 31-dim linear output
// (switch weights, move weights, scalar outcome concatenated). Trained
// example-at-a-time with Adam, the way dual.Train drives the teacher's
// gorgonia graph over a batch.
type Network struct {
	conf Config

	g      *G.ExprGraph
	input  *G.Node
	target *G.Node
	pred   *G.Node
	loss   *G.Node

	w1, b1 *G.Node
	w2, b2 *G.Node
	w3, b3 *G.Node

	solver  G.Solver
	vm      G.VM
	trained bool
}

// New constructs and wires the network's computation graph. Mirrors
// dual.New(conf) + a.Init() collapsed into one call since this predictor has
// no separate inference-only graph variant.
func New(conf Config) (*Network, error) {
	if !conf.IsValid() {
		return nil, errors.New("predictor: invalid config")
	}
	n := &Network{conf: conf, g: G.NewGraph()}
	if err := n.build(); err != nil {
		return nil, errors.Wrap(err, "predictor: build graph")
	}
	n.solver = G.NewAdamSolver(
		G.WithLearnRate(float64(conf.LearningRate)),
		G.WithBeta1(float64(conf.Beta1)),
		G.WithBeta2(float64(conf.Beta2)),
		G.WithEps(float64(conf.Epsilon)),
		G.WithL2Reg(float64(conf.L2)),
	)
	n.vm = G.NewTapeMachine(n.g, G.BindDualValues(n.w1, n.b1, n.w2, n.b2, n.w3, n.b3))
	return n, nil
}

func (n *Network) build() error {
	conf := n.conf
	weight := func(name string, shape ...int) *G.Node {
		return G.NewMatrix(n.g, tensor.Float32, G.WithShape(shape...), G.WithName(name), G.WithInit(G.GlorotN(1.0)))
	}
	bias := func(name string, shape ...int) *G.Node {
		return G.NewMatrix(n.g, tensor.Float32, G.WithShape(shape...), G.WithName(name), G.WithInit(G.Zeroes()))
	}

	n.input = G.NewMatrix(n.g, tensor.Float32, G.WithShape(1, conf.InputSize), G.WithName("input"))
	n.target = G.NewMatrix(n.g, tensor.Float32, G.WithShape(1, conf.OutputSize), G.WithName("target"))

	n.w1 = weight("w1", conf.InputSize, conf.HiddenOneWidth)
	n.b1 = bias("b1", 1, conf.HiddenOneWidth)
	n.w2 = weight("w2", conf.HiddenOneWidth, conf.HiddenTwoWidth)
	n.b2 = bias("b2", 1, conf.HiddenTwoWidth)
	n.w3 = weight("w3", conf.HiddenTwoWidth, conf.OutputSize)
	n.b3 = bias("b3", 1, conf.OutputSize)

	var err error
	var h1, h2, h1z, h2z *G.Node
	if h1z, err = G.Mul(n.input, n.w1); err != nil {
		return err
	}
	if h1z, err = G.BroadcastAdd(h1z, n.b1, nil, []byte{0}); err != nil {
		return err
	}
	if h1, err = G.Rectify(h1z); err != nil {
		return err
	}
	if h2z, err = G.Mul(h1, n.w2); err != nil {
		return err
	}
	if h2z, err = G.BroadcastAdd(h2z, n.b2, nil, []byte{0}); err != nil {
		return err
	}
	if h2, err = G.Rectify(h2z); err != nil {
		return err
	}
	if n.pred, err = G.Mul(h2, n.w3); err != nil {
		return err
	}
	if n.pred, err = G.BroadcastAdd(n.pred, n.b3, nil, []byte{0}); err != nil {
		return err
	}

	diff, err := G.Sub(n.pred, n.target)
	if err != nil {
		return err
	}
	sq, err := G.Square(diff)
	if err != nil {
		return err
	}
	n.loss, err = G.Mean(sq)
	return err
}

// IsTrained reports whether Fit has been called at least once.
func (n *Network) IsTrained() bool { return n.trained }

// Fit trains on a single (input, target) example for up to Config.MaxIter
// solver steps, stopping early once the loss improves by less than
// Config.Tolerance between steps. Retrains incrementally: Adam's moment
// estimates and the weights themselves persist across calls (§ open
// question: warm-start chosen over from-scratch retraining).
func (n *Network) Fit(input, target []float32) error {
	if len(input) != n.conf.InputSize {
		return errors.Errorf("predictor: input length %d != %d", len(input), n.conf.InputSize)
	}
	if len(target) != n.conf.OutputSize {
		return errors.Errorf("predictor: target length %d != %d", len(target), n.conf.OutputSize)
	}
	if err := G.Let(n.input, tensor.New(tensor.WithShape(1, n.conf.InputSize), tensor.WithBacking(append([]float32(nil), input...)))); err != nil {
		return errors.Wrap(err, "predictor: bind input")
	}
	if err := G.Let(n.target, tensor.New(tensor.WithShape(1, n.conf.OutputSize), tensor.WithBacking(append([]float32(nil), target...)))); err != nil {
		return errors.Wrap(err, "predictor: bind target")
	}

	prevLoss := float32(0)
	for i := 0; i < n.conf.MaxIter; i++ {
		if err := n.vm.RunAll(); err != nil {
			return errors.Wrap(err, "predictor: forward/backward pass")
		}
		curLoss := n.loss.Value().Data().(float32)
		if err := n.solver.Step(G.NodesToValueGrads(G.Nodes{n.w1, n.b1, n.w2, n.b2, n.w3, n.b3})); err != nil {
			return errors.Wrap(err, "predictor: solver step")
		}
		n.vm.Reset()
		if i > 0 && prevLoss-curLoss < n.conf.Tolerance && prevLoss-curLoss > -n.conf.Tolerance {
			break
		}
		prevLoss = curLoss
	}
	n.trained = true
	return nil
}

// Predict runs a forward pass only, returning the OutputSize-wide result.
// Callers must check IsTrained first; an untrained network's output is the
// graph's initial random weights, not a meaningful fallback (the uniform
// fallback is the caller's responsibility, per spec §4.4).
func (n *Network) Predict(input []float32) ([]float32, error) {
	if len(input) != n.conf.InputSize {
		return nil, errors.Errorf("predictor: input length %d != %d", len(input), n.conf.InputSize)
	}
	if err := G.Let(n.input, tensor.New(tensor.WithShape(1, n.conf.InputSize), tensor.WithBacking(append([]float32(nil), input...)))); err != nil {
		return nil, errors.Wrap(err, "predictor: bind input")
	}
	zero := make([]float32, n.conf.OutputSize)
	if err := G.Let(n.target, tensor.New(tensor.WithShape(1, n.conf.OutputSize), tensor.WithBacking(zero))); err != nil {
		return nil, errors.Wrap(err, "predictor: bind target")
	}
	if err := n.vm.RunAll(); err != nil {
		return nil, errors.Wrap(err, "predictor: forward pass")
	}
	defer n.vm.Reset()

	out := make([]float32, n.conf.OutputSize)
	raw := n.pred.Value().Data().([]float32)
	copy(out, raw)
	return out, nil
}
