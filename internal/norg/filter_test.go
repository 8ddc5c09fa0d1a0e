package norg

import (
	"errors"
	"testing"
)

// a hit whose flank is almost entirely within a supplied duplication
// interval is flagged as a duplicate, one outside any duplication is not
func TestFilterAnnotated(t *testing.T) {
	hits := []hit{
		{chromosome: "chr1", nucStart: 1000, nucEnd: 1100, orgStart: 0, orgEnd: 100, strand: Plus, evalue: 1e-30},
		{chromosome: "chr1", nucStart: 50000, nucEnd: 50100, orgStart: 200, orgEnd: 300, strand: Plus, evalue: 1e-30},
	}
	store, err := newHitStore(hits)
	if err != nil {
		t.Fatal(err)
	}

	// flank interval of the first hit is [900, 1200): 290 of its 300 bases
	// fall in the duplication, past the 0.9 threshold
	segdups := []segDup{{chromosome: "chr1", start: 900, end: 1190}}

	part, err := filter(store, 100, 0.9, "auto", segdups, map[string]int{"chr1": 100000})
	if err != nil {
		t.Fatalf("failed to filter: %v", err)
	}

	if part.duplicate.len() != 1 {
		t.Errorf("%d duplicate hits, want 1", part.duplicate.len())
	}
	if part.unique.len() != 1 {
		t.Errorf("%d unique hits, want 1", part.unique.len())
	}
	if dups := part.duplicate.byChromosome("chr1"); len(dups) != 1 || dups[0].nucStart != 1000 {
		t.Errorf("wrong hit flagged as duplicate: %v", dups)
	}
}

// without an annotation set, hits whose flanks mutually overlap keep only
// their best-scoring member
func TestFilterPairwise(t *testing.T) {
	hits := []hit{
		{chromosome: "chr1", nucStart: 1000, nucEnd: 1100, orgStart: 0, orgEnd: 100, strand: Plus, evalue: 1e-40},
		{chromosome: "chr1", nucStart: 1010, nucEnd: 1110, orgStart: 0, orgEnd: 100, strand: Plus, evalue: 1e-10},
		{chromosome: "chr1", nucStart: 90000, nucEnd: 90100, orgStart: 200, orgEnd: 300, strand: Plus, evalue: 1e-5},
	}
	store, err := newHitStore(hits)
	if err != nil {
		t.Fatal(err)
	}

	part, err := filter(store, 500, 0.5, "auto", nil, map[string]int{"chr1": 200000})
	if err != nil {
		t.Fatalf("failed to filter: %v", err)
	}

	if part.duplicate.len() != 1 {
		t.Fatalf("%d duplicate hits, want 1", part.duplicate.len())
	}

	// the worse-scoring member of the overlapping pair is the duplicate
	dup := part.duplicate.byChromosome("chr1")[0]
	if dup.nucStart != 1010 {
		t.Errorf("duplicate hit starts at %d, want 1010", dup.nucStart)
	}
}

// the partitions are disjoint and their union is the input hit set
func TestFilterPartition(t *testing.T) {
	hits := []hit{
		{chromosome: "chr1", nucStart: 100, nucEnd: 200, orgStart: 0, orgEnd: 100, strand: Plus, evalue: 1e-10},
		{chromosome: "chr1", nucStart: 5000, nucEnd: 5100, orgStart: 100, orgEnd: 200, strand: Plus, evalue: 1e-10},
		{chromosome: "chr2", nucStart: 100, nucEnd: 200, orgStart: 0, orgEnd: 100, strand: Minus, evalue: 1e-10},
	}
	store, err := newHitStore(hits)
	if err != nil {
		t.Fatal(err)
	}

	segdups := []segDup{{chromosome: "chr1", start: 0, end: 1000}}

	part, err := filter(store, 100, 0.9, "auto", segdups, nil)
	if err != nil {
		t.Fatalf("failed to filter: %v", err)
	}

	if got := part.unique.len() + part.duplicate.len(); got != store.len() {
		t.Errorf("%d hits across both partitions, want %d", got, store.len())
	}

	// no hit appears in both partitions
	for _, name := range part.unique.chromosomes() {
		for _, u := range part.unique.byChromosome(name) {
			for _, d := range part.duplicate.byChromosome(name) {
				if u == d {
					t.Errorf("hit %s in both partitions", u.describe())
				}
			}
		}
	}
}

// hit sets of size 0 and 1 pass through unchanged, duplication requires
// at least two candidate loci
func TestFilterPassthrough(t *testing.T) {
	segdups := []segDup{{chromosome: "chr1", start: 0, end: 100000}}

	for _, count := range []int{0, 1} {
		var hits []hit
		for i := 0; i < count; i++ {
			hits = append(hits, hit{chromosome: "chr1", nucStart: 100, nucEnd: 200, orgStart: 0, orgEnd: 100, strand: Plus})
		}
		store, err := newHitStore(hits)
		if err != nil {
			t.Fatal(err)
		}

		part, err := filter(store, 100, 0.9, "auto", segdups, nil)
		if err != nil {
			t.Fatalf("failed to filter %d hits: %v", count, err)
		}

		if part.unique.len() != count {
			t.Errorf("%d unique hits from a %d hit set, want %d", part.unique.len(), count, count)
		}
		if part.duplicate.len() != 0 {
			t.Errorf("%d duplicate hits from a %d hit set, want 0", part.duplicate.len(), count)
		}
	}
}

// bad thresholds fail with a ConfigurationError before any hit is read
func TestFilterThresholds(t *testing.T) {
	store, err := newHitStore([]hit{
		{chromosome: "chr1", nucStart: 100, nucEnd: 200, orgStart: 0, orgEnd: 100, strand: Plus},
		{chromosome: "chr1", nucStart: 300, nucEnd: 400, orgStart: 100, orgEnd: 200, strand: Plus},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		flank    int
		coverage float64
		mode     string
	}{
		{"coverage above one", 100, 1.5, "auto"},
		{"negative coverage", 100, -0.1, "auto"},
		{"zero flank", 0, 0.9, "auto"},
		{"negative flank", -10, 0.9, "auto"},
		{"unknown mode", 100, 0.9, "everything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := filter(store, tt.flank, tt.coverage, tt.mode, nil, nil)
			if err == nil {
				t.Fatal("filter() = nil error, want a ConfigurationError")
			}

			var confErr *ConfigurationError
			if !errors.As(err, &confErr) {
				t.Errorf("filter() = %v, want a ConfigurationError", err)
			}
		})
	}
}

func TestOverlapFraction(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       float64
	}{
		{"no overlap", 0, 100, 200, 300, 0},
		{"abutting", 0, 100, 100, 200, 0},
		{"half covered", 0, 100, 50, 200, 0.5},
		{"fully covered", 50, 100, 0, 200, 1},
		{"contained", 0, 100, 25, 75, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapFraction(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("overlapFraction() = %v, want %v", got, tt.want)
			}
		})
	}
}
