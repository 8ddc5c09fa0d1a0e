package norg

import (
	"fmt"
	"runtime"
	"sync"
)

// bridge is the inferred cause of the coordinate gap between two merged hits.
type bridge int

const (
	// contiguous hits abut in both coordinate spaces
	contiguous bridge = iota

	// deletion is a nuclear deletion between the fragments: the organelle
	// gap outruns the nuclear gap
	deletion

	// insertion is extra nuclear sequence between the fragments, consistent
	// with an unrelated insertion splitting the organelle hit
	insertion
)

func (b bridge) String() string {
	switch b {
	case contiguous:
		return "contiguous"
	case deletion:
		return "deletion"
	case insertion:
		return "insertion"
	}
	return "unknown"
}

// contiguityTolerance is the slack, in bases, under which a gap still
// counts as contiguous.
const contiguityTolerance = 10

// chain is a consolidated insertion call: an ordered run of hits merged
// into one locus, with a bridge classification per adjacent pair. It's a
// view over its members and owns nothing they don't.
type chain struct {
	// chromosome of every member
	chromosome string

	// members in nuclear order
	members []hit

	// bridges between adjacent members (one fewer than members)
	bridges []bridge

	// nucStart, nucEnd is the bounding nuclear interval of the members
	nucStart int
	nucEnd   int

	// orgStart, orgEnd is the bounding organelle interval of the members
	orgStart int
	orgEnd   int

	// strand shared by every member
	strand Strand
}

// evalue returns the best (lowest) evalue among the chain's members.
func (c *chain) evalue() float64 {
	best := c.members[0].evalue
	for _, m := range c.members[1:] {
		if m.evalue < best {
			best = m.evalue
		}
	}
	return best
}

// chainLimits bounds which adjacent hits may be merged into one chain.
type chainLimits struct {
	// maxDeletion bounds the implied nuclear deletion between hits
	maxDeletion int

	// maxInsertion bounds the nuclear gap for an insertion bridge
	maxInsertion int

	// maxConcat bounds the chaining distance in either coordinate space
	maxConcat int

	// maxOverlap bounds the permissible organelle overlap between hits
	maxOverlap int

	// circular means organelle gaps are computed on a modular number line
	circular bool

	// organelleLen is the organelle genome's length, for wraparound math
	organelleLen int
}

// validate checks the limits before any hit is touched.
func (l chainLimits) validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"chain.max-deletion", l.maxDeletion},
		{"chain.max-insertion", l.maxInsertion},
		{"chain.max-concat", l.maxConcat},
		{"chain.max-overlap", l.maxOverlap},
	}
	for _, c := range checks {
		if c.value < 0 {
			return &ConfigurationError{Setting: c.name, Reason: fmt.Sprintf("must not be negative, got %d", c.value)}
		}
	}
	if l.circular && l.organelleLen <= 0 {
		return &ConfigurationError{Setting: "circular", Reason: "circular organelle genome with unknown length"}
	}
	return nil
}

// orgGap returns the organelle-coordinate gap between prev and next, in the
// strand-consistent direction: on the minus strand the organelle coordinate
// runs backwards as the nuclear coordinate advances. For circular organelle
// genomes the gap is mapped onto a modular number line so hits spanning the
// origin still read as adjacent.
func (l chainLimits) orgGap(prev, next hit) int {
	var gap int
	if prev.strand == Minus {
		gap = prev.orgStart - next.orgEnd
	} else {
		gap = next.orgStart - prev.orgEnd
	}

	if l.circular {
		gap = ((gap % l.organelleLen) + l.organelleLen) % l.organelleLen
		if gap > l.organelleLen/2 {
			gap -= l.organelleLen
		}
	}
	return gap
}

// classify decides whether next may extend a chain ending in prev and, if
// so, what bridges the gap between them.
func (l chainLimits) classify(prev, next hit) (bridge, bool) {
	if prev.strand != next.strand {
		return 0, false
	}

	nucGap := next.nucStart - prev.nucEnd
	orgGap := l.orgGap(prev, next)

	// too far apart in both spaces to be one event
	if nucGap > l.maxConcat && orgGap > l.maxConcat {
		return 0, false
	}

	// organelle ranges overlap by more than the allowed slack
	if orgGap < -l.maxOverlap {
		return 0, false
	}

	switch {
	case nucGap <= contiguityTolerance && orgGap <= contiguityTolerance:
		return contiguous, true
	case nucGap-orgGap > contiguityTolerance && nucGap <= l.maxInsertion:
		return insertion, true
	case orgGap > nucGap && orgGap-nucGap <= l.maxDeletion:
		return deletion, true
	}
	return 0, false
}

// chainer is the per-chromosome merge state machine. It's either empty or
// holds one open chain; each candidate hit either extends the open chain
// or closes it and opens a new one.
type chainer struct {
	limits chainLimits
	open   *chain
	closed []chain
}

// add feeds the next hit, in nuclear order, to the state machine.
func (c *chainer) add(h hit) {
	if c.open == nil {
		c.open = newChain(h)
		return
	}

	last := c.open.members[len(c.open.members)-1]
	b, ok := c.limits.classify(last, h)
	if !ok {
		c.closed = append(c.closed, *c.open)
		c.open = newChain(h)
		return
	}

	c.open.members = append(c.open.members, h)
	c.open.bridges = append(c.open.bridges, b)
	c.open.grow(h)
}

// finish closes the open chain, if any, and returns every chain in order.
func (c *chainer) finish() []chain {
	if c.open != nil {
		c.closed = append(c.closed, *c.open)
		c.open = nil
	}
	return c.closed
}

func newChain(h hit) *chain {
	return &chain{
		chromosome: h.chromosome,
		members:    []hit{h},
		nucStart:   h.nucStart,
		nucEnd:     h.nucEnd,
		orgStart:   h.orgStart,
		orgEnd:     h.orgEnd,
		strand:     h.strand,
	}
}

// grow widens the chain's bounding intervals to cover h.
func (c *chain) grow(h hit) {
	if h.nucStart < c.nucStart {
		c.nucStart = h.nucStart
	}
	if h.nucEnd > c.nucEnd {
		c.nucEnd = h.nucEnd
	}
	if h.orgStart < c.orgStart {
		c.orgStart = h.orgStart
	}
	if h.orgEnd > c.orgEnd {
		c.orgEnd = h.orgEnd
	}
}

// chainChromosome sweeps one chromosome's ordered hits left to right,
// greedily merging collinear neighbors. No backtracking: a rejection
// closes the current chain for good.
func chainChromosome(hits []hit, limits chainLimits) []chain {
	c := chainer{limits: limits}
	for _, h := range hits {
		c.add(h)
	}
	return c.finish()
}

// chainAll chains every chromosome in the store. Chromosome groups are
// disjoint and read-only here, so they're fanned out across workers.
func chainAll(store *hitStore, limits chainLimits) (map[string][]chain, error) {
	if err := limits.validate(); err != nil {
		return nil, err
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		sem    = make(chan struct{}, workers)
		result = make(map[string][]chain)
	)
	for _, name := range store.chromosomes() {
		hits := store.byChromosome(name)

		wg.Add(1)
		sem <- struct{}{}
		go func(name string, hits []hit) {
			defer wg.Done()
			defer func() { <-sem }()

			chains := chainChromosome(hits, limits)

			mu.Lock()
			result[name] = chains
			mu.Unlock()
		}(name, hits)
	}
	wg.Wait()

	return result, nil
}

// singletons emits one chain per hit, for runs with chaining disabled.
func singletons(store *hitStore) map[string][]chain {
	result := make(map[string][]chain)
	for _, name := range store.chromosomes() {
		for _, h := range store.byChromosome(name) {
			result[name] = append(result[name], *newChain(h))
		}
	}
	return result
}
