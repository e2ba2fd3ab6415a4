package artifact

import (
	"fmt"
	"math"
)

// Node is one node of a regression tree. Rows with x[Feature] <= Threshold go
// Left, the rest go Right. Leaves carry the predicted Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// tree is a regression tree rooted at nodes[0].
type tree struct {
	nodes []Node
}

// newTree validates node links. Children must point forward, which rules out
// cycles and bounds traversal by len(nodes).
func newTree(nodes []Node, nFeatures int) (*tree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: tree has no nodes", ErrMalformed)
	}
	for i, n := range nodes {
		if n.Leaf {
			if math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
				return nil, fmt.Errorf("%w: node %d has a non-finite value", ErrMalformed, i)
			}
			continue
		}
		switch {
		case n.Feature < 0 || n.Feature >= nFeatures:
			return nil, fmt.Errorf("%w: node %d splits on feature %d of %d", ErrMalformed, i, n.Feature, nFeatures)
		case n.Left <= i || n.Left >= len(nodes):
			return nil, fmt.Errorf("%w: node %d has bad left child %d", ErrMalformed, i, n.Left)
		case n.Right <= i || n.Right >= len(nodes):
			return nil, fmt.Errorf("%w: node %d has bad right child %d", ErrMalformed, i, n.Right)
		case math.IsNaN(n.Threshold):
			return nil, fmt.Errorf("%w: node %d has a NaN threshold", ErrMalformed, i)
		}
	}
	return &tree{nodes: append([]Node(nil), nodes...)}, nil
}

func (t *tree) score(row []float64) float64 {
	i := 0
	for !t.nodes[i].Leaf {
		n := t.nodes[i]
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.nodes[i].Value
}
