package mcts

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
)

// rootDirichletAlpha mirrors the teacher's exploration-noise parameter
// (mcts/tree.go's dirichletParam), reused here as the concentration for an
// optional exploration perturbation over the root's candidate actions.
const rootDirichletAlpha = 0.3

// sampleRootNoise draws one Dirichlet(alpha, ..., alpha) sample over n
// outcomes, used to jitter root selection when Config.RootNoise is set.
func sampleRootNoise(n int, seed uint64) []float64 {
	if n <= 0 {
		return nil
	}
	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = rootDirichletAlpha
	}
	dist := distmv.NewDirichlet(alpha, rand.NewSource(seed))
	return dist.Rand(nil)
}

// rootNoiseFor returns (sampling once and caching) the exploration noise
// vector for the root's current children, indexed in the same order as
// root.children.
func (t *Tree) rootNoiseFor(root *node) []float64 {
	if len(t.rootNoise) != len(root.children) {
		t.rootNoise = sampleRootNoise(len(root.children), uint64(t.conf.rng().Int63()))
	}
	return t.rootNoise
}
