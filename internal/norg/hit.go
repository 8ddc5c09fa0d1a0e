// Package norg consolidates blastn hits between an organelle and a nuclear
// genome into organelle-insertion loci
package norg

import (
	"fmt"
	"sort"
)

// Strand is the orientation of an organelle segment relative to the nucleus.
type Strand byte

const (
	// Plus is a hit along the nuclear strand
	Plus Strand = '+'

	// Minus is a hit along the reverse complement strand
	Minus Strand = '-'
)

// hit is one aligned segment pair between the organelle and nuclear genomes.
type hit struct {
	// chromosome is the nuclear chromosome the organelle segment matched
	chromosome string

	// nucStart of the match on the nuclear chromosome (0-indexed, half-open)
	nucStart int

	// nucEnd of the match on the nuclear chromosome
	nucEnd int

	// orgStart of the match on the organelle genome (0-indexed, half-open)
	orgStart int

	// orgEnd of the match on the organelle genome. may pass the organelle's
	// length when a hit spans the origin of a circular genome
	orgEnd int

	// strand of the organelle segment relative to the nucleus
	strand Strand

	// evalue of the hit. only used for ordering, never for merge decisions
	evalue float64
}

// nucLength returns the length of the hit on the nuclear chromosome.
func (h *hit) nucLength() int {
	return h.nucEnd - h.nucStart
}

// validate checks the hit's coordinate and strand invariants.
func (h *hit) validate() error {
	if h.chromosome == "" {
		return &InputError{Record: h.describe(), Reason: "missing chromosome"}
	}
	if h.nucStart >= h.nucEnd {
		return &InputError{Record: h.describe(), Reason: "nuclear start is not before its end"}
	}
	if h.orgStart >= h.orgEnd {
		return &InputError{Record: h.describe(), Reason: "organelle start is not before its end"}
	}
	if h.nucStart < 0 || h.orgStart < 0 {
		return &InputError{Record: h.describe(), Reason: "negative start coordinate"}
	}
	if h.strand != Plus && h.strand != Minus {
		return &InputError{Record: h.describe(), Reason: "unknown strand"}
	}
	return nil
}

func (h *hit) describe() string {
	return fmt.Sprintf("%s:%d-%d", h.chromosome, h.nucStart, h.nucEnd)
}

// hitStore holds every hit of a run, grouped by nuclear chromosome and
// ordered by nuclear start. It's rebuilt fresh per run, never persisted.
type hitStore struct {
	// byChrom maps a chromosome name to its hits, sorted by nucStart
	byChrom map[string][]hit

	// count of all hits across chromosomes
	count int
}

// newHitStore validates the hits, groups them by chromosome, and sorts
// each group ascending by nuclear start (ties broken by organelle start).
func newHitStore(hits []hit) (*hitStore, error) {
	for i := range hits {
		if err := hits[i].validate(); err != nil {
			return nil, err
		}
	}
	return groupHits(hits), nil
}

// groupHits builds a store from hits that have already been validated.
func groupHits(hits []hit) *hitStore {
	byChrom := make(map[string][]hit)
	for _, h := range hits {
		byChrom[h.chromosome] = append(byChrom[h.chromosome], h)
	}

	for _, chromHits := range byChrom {
		sort.Slice(chromHits, func(i, j int) bool {
			if chromHits[i].nucStart != chromHits[j].nucStart {
				return chromHits[i].nucStart < chromHits[j].nucStart
			}
			return chromHits[i].orgStart < chromHits[j].orgStart
		})
	}

	return &hitStore{byChrom: byChrom, count: len(hits)}
}

// len returns the total hit count. Callers use it to skip downstream
// stages: filtering and chaining are no-ops on 0 or 1 hit.
func (s *hitStore) len() int {
	return s.count
}

// chromosomes returns the chromosome names with at least one hit, sorted.
func (s *hitStore) chromosomes() []string {
	names := make([]string, 0, len(s.byChrom))
	for name := range s.byChrom {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// byChromosome returns the ordered hits on one chromosome.
func (s *hitStore) byChromosome(name string) []hit {
	return s.byChrom[name]
}
