package marking

import "math/rand/v2"

// Candidates is an ordered set of question indices with O(1) removal by
// value and uniform random pick by position.
type Candidates struct {
	items []int
	index map[int]int
	size  int
}

// NewCandidates returns the set {0..size-1}.
func NewCandidates(size int) *Candidates {
	ret := &Candidates{size: size}
	ret.Reset()
	return ret
}

// Reset restores the full set.
func (c *Candidates) Reset() {
	c.items = c.items[:0]
	c.index = make(map[int]int, c.size)
	for i := 0; i < c.size; i++ {
		c.index[i] = len(c.items)
		c.items = append(c.items, i)
	}
}

// Len returns the number of remaining candidates.
func (c *Candidates) Len() int { return len(c.items) }

// Remove drops v by swapping it with the last element.
func (c *Candidates) Remove(v int) bool {
	pos, ok := c.index[v]
	if !ok {
		return false
	}
	last := len(c.items) - 1
	moved := c.items[last]
	c.items[pos] = moved
	c.index[moved] = pos
	c.items = c.items[:last]
	delete(c.index, v)
	return true
}

// Pick returns a uniformly chosen remaining candidate, or -1 when empty.
func (c *Candidates) Pick(rnd *rand.Rand) int {
	if len(c.items) == 0 {
		return -1
	}
	return c.items[rnd.IntN(len(c.items))]
}
