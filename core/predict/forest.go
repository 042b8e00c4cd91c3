package predict

import (
	"math/rand"
	"sort"
)

// Fields are exported for gob round-tripping of the persisted artifact;
// the structure itself is not part of the public contract.
type (
	// TreeNode is a single CART node. Probs is set on leaves only.
	TreeNode struct {
		Feature   int
		Threshold float64
		Left      *TreeNode
		Right     *TreeNode
		Probs     []float64
	}

	// Forest is a bagged ensemble of CART trees over class distributions.
	Forest struct {
		Trees      []*TreeNode
		NumClasses int
	}
)

type trainParams struct {
	numTrees   int
	maxDepth   int
	minSamples int
	mtry       int // features considered per split
}

func defaultTrainParams() trainParams {
	return trainParams{
		numTrees:   200,
		maxDepth:   12,
		minSamples: 2,
		mtry:       3,
	}
}

// trainForest fits numTrees CART trees on bootstrap samples of the data,
// deterministic per seed. Each bootstrap is class-balanced: samples are
// weighted inversely to their grade's frequency within that bootstrap so
// the most common synthetic grade does not dominate the fit.
func trainForest(features [][]float64, labels []int, numClasses int, p trainParams, seed int64) *Forest {
	n := len(features)
	rng := rand.New(rand.NewSource(seed))

	f := &Forest{
		Trees:      make([]*TreeNode, 0, p.numTrees),
		NumClasses: numClasses,
	}
	for t := 0; t < p.numTrees; t++ {
		sample := make([]int, n)
		counts := make([]float64, numClasses)
		for i := range sample {
			sample[i] = rng.Intn(n)
			counts[labels[sample[i]]]++
		}

		weights := make([]float64, numClasses)
		for c, cnt := range counts {
			if cnt > 0 {
				weights[c] = float64(n) / (float64(numClasses) * cnt)
			}
		}

		g := &grower{
			features:   features,
			labels:     labels,
			numClasses: numClasses,
			weights:    weights,
			params:     p,
			rng:        rng,
		}
		f.Trees = append(f.Trees, g.grow(sample, 0))
	}
	return f
}

// predictProba averages the leaf class distributions of all trees.
func (f *Forest) predictProba(x []float64) []float64 {
	probs := make([]float64, f.NumClasses)
	for _, tree := range f.Trees {
		node := tree
		for node.Probs == nil {
			if x[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		for c, p := range node.Probs {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.Trees))
	}
	return probs
}

type grower struct {
	features   [][]float64
	labels     []int
	numClasses int
	weights    []float64 // per-class sample weights for this bootstrap
	params     trainParams
	rng        *rand.Rand
}

func (g *grower) grow(sample []int, depth int) *TreeNode {
	classW := g.classWeights(sample)
	if depth >= g.params.maxDepth || len(sample) < g.params.minSamples || isPure(classW) {
		return g.leaf(classW)
	}

	feature, threshold, ok := g.bestSplit(sample)
	if !ok {
		return g.leaf(classW)
	}

	var left, right []int
	for _, idx := range sample {
		if g.features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return g.leaf(classW)
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      g.grow(left, depth+1),
		Right:     g.grow(right, depth+1),
	}
}

func (g *grower) classWeights(sample []int) []float64 {
	classW := make([]float64, g.numClasses)
	for _, idx := range sample {
		c := g.labels[idx]
		classW[c] += g.weights[c]
	}
	return classW
}

func (g *grower) leaf(classW []float64) *TreeNode {
	probs := make([]float64, g.numClasses)
	var total float64
	for _, w := range classW {
		total += w
	}
	if total == 0 {
		for c := range probs {
			probs[c] = 1.0 / float64(g.numClasses)
		}
	} else {
		for c, w := range classW {
			probs[c] = w / total
		}
	}
	return &TreeNode{Probs: probs}
}

// bestSplit scans a random subset of features for the weighted-Gini
// optimal split over the sample.
func (g *grower) bestSplit(sample []int) (feature int, threshold float64, ok bool) {
	bestGini := gini(g.classWeights(sample)) // must improve on the unsplit node

	type valLabel struct {
		val   float64
		class int
	}
	vals := make([]valLabel, len(sample))

	for _, feat := range g.rng.Perm(len(g.features[0]))[:g.params.mtry] {
		for i, idx := range sample {
			vals[i] = valLabel{val: g.features[idx][feat], class: g.labels[idx]}
		}
		sort.Slice(vals, func(i, j int) bool { return vals[i].val < vals[j].val })

		leftW := make([]float64, g.numClasses)
		rightW := g.classWeights(sample)
		var leftTotal float64
		rightTotal := sum(rightW)

		for i := 0; i < len(vals)-1; i++ {
			w := g.weights[vals[i].class]
			leftW[vals[i].class] += w
			rightW[vals[i].class] -= w
			leftTotal += w
			rightTotal -= w

			if vals[i].val == vals[i+1].val {
				continue
			}

			split := (leftTotal*gini(leftW) + rightTotal*gini(rightW)) / (leftTotal + rightTotal)
			if split < bestGini {
				bestGini = split
				feature = feat
				threshold = (vals[i].val + vals[i+1].val) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func gini(classW []float64) float64 {
	total := sum(classW)
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, w := range classW {
		p := w / total
		impurity -= p * p
	}
	return impurity
}

func isPure(classW []float64) bool {
	var nonZero int
	for _, w := range classW {
		if w > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}
