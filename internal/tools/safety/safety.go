package safety

import (
	"errors"
)

const (
	// DefaultMaxDepth bounds how deep a JSON tree walk may descend.
	DefaultMaxDepth = 512
	// DefaultMaxNodes bounds how many values a single JSON tree walk may visit.
	DefaultMaxNodes int32 = 1 << 22
)

var (
	ErrMaxDepth = errors.New("maximum recursion depth exceeded")
	ErrMaxNodes = errors.New("maximum recursion nodes exceeded")
)

// RecursionGuard bounds a recursive walk over a document tree.
// A guard is not safe for concurrent walks: use one per walk.
type RecursionGuard struct {
	maxDepth  int
	maxNodes  int32
	nodeCount int32
}

func NewRecursionGuard(maxDepth int, maxNodes int32) *RecursionGuard {
	return &RecursionGuard{
		maxDepth: maxDepth,
		maxNodes: maxNodes,
	}
}

// Default returns a guard using DefaultMaxDepth and DefaultMaxNodes.
func Default() *RecursionGuard {
	return NewRecursionGuard(DefaultMaxDepth, DefaultMaxNodes)
}

// Reset clears the visited node counter so the guard can be reused for a new walk.
func (rg *RecursionGuard) Reset() {
	rg.nodeCount = 0
}

// Check verifies recursion constraints at each visited node.
func (rg *RecursionGuard) Check(depth int) error {
	if depth > rg.maxDepth {
		return ErrMaxDepth
	}

	rg.nodeCount++
	if rg.nodeCount > rg.maxNodes {
		return ErrMaxNodes
	}

	return nil
}

// Visited returns the number of nodes checked since the last reset.
func (rg *RecursionGuard) Visited() int32 {
	return rg.nodeCount
}
