package reactive

// PriorityHeap orders dirty computations by height so every node is recomputed
// after all of its dependencies.
type PriorityHeap struct {
	min int
	max int

	levels [][]*Computed // [height]entries

	size int
}

func NewHeap() *PriorityHeap {
	return &PriorityHeap{
		levels: make([][]*Computed, 16),
	}
}

func (h *PriorityHeap) Insert(c *Computed) {
	if c.inHeap {
		return
	}
	c.inHeap = true
	h.size++

	height := c.height
	for height >= len(h.levels) {
		h.levels = append(h.levels, nil)
	}
	h.levels[height] = append(h.levels[height], c)

	if height > h.max {
		h.max = height
	}
	if height < h.min {
		h.min = height
	}
}

func (h *PriorityHeap) InsertAll(nodes []*Computed) {
	for _, c := range nodes {
		h.Insert(c)
	}
}

// Remove unmarks c, its stale entry is skipped by the next Drain.
func (h *PriorityHeap) Remove(c *Computed) {
	if !c.inHeap {
		return
	}
	c.inHeap = false
	h.size--
}

func (h *PriorityHeap) Len() int {
	return h.size
}

// Drain processes each entry in topological order with the `process` function leaving the heap empty.
func (h *PriorityHeap) Drain(process func(*Computed)) {
	for h.min = 0; h.min <= h.max; h.min++ {
		height := h.min

		// process may insert at this height, re-read the length each turn
		for i := 0; i < len(h.levels[height]); i++ {
			c := h.levels[height][i]
			h.levels[height][i] = nil

			if !c.inHeap {
				continue
			}
			c.inHeap = false
			h.size--

			process(c)
		}

		h.levels[height] = h.levels[height][:0]
	}

	h.min = 0
	h.max = 0
}
