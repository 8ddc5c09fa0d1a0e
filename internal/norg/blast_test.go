package norg

import (
	"strings"
	"testing"
)

// parse tabular blastn output into hits, converting 1-based inclusive
// coordinate pairs to 0-based half-open intervals
func TestParseHits(t *testing.T) {
	output := `# BLASTN 2.12.0+
# Query: mito
# Subject: chr1
# Fields: subject id, q. start, q. end, s. start, s. end, evalue, subject strand
# 2 hits found
chr1	1	100	1001	1100	1e-40	plus
chr1	201	300	5100	5001	2e-25	minus
`

	hits, err := parseHits(strings.NewReader(output), false, 0)
	if err != nil {
		t.Fatalf("failed to parse blastn output: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("%d hits parsed, want 2", len(hits))
	}

	plusHit := hits[0]
	if plusHit.chromosome != "chr1" {
		t.Errorf("hit chromosome = %s, want chr1", plusHit.chromosome)
	}
	if plusHit.orgStart != 0 || plusHit.orgEnd != 100 {
		t.Errorf("hit organelle interval [%d, %d), want [0, 100)", plusHit.orgStart, plusHit.orgEnd)
	}
	if plusHit.nucStart != 1000 || plusHit.nucEnd != 1100 {
		t.Errorf("hit nuclear interval [%d, %d), want [1000, 1100)", plusHit.nucStart, plusHit.nucEnd)
	}
	if plusHit.strand != Plus {
		t.Errorf("hit strand = %c, want +", plusHit.strand)
	}
	if plusHit.evalue != 1e-40 {
		t.Errorf("hit evalue = %g, want 1e-40", plusHit.evalue)
	}

	// blastn reports the subject range backwards on the minus strand
	minusHit := hits[1]
	if minusHit.strand != Minus {
		t.Errorf("hit strand = %c, want -", minusHit.strand)
	}
	if minusHit.nucStart != 5000 || minusHit.nucEnd != 5100 {
		t.Errorf("hit nuclear interval [%d, %d), want [5000, 5100)", minusHit.nucStart, minusHit.nucEnd)
	}
}

// hits against the doubled circular query collapse back onto the organelle's
// own coordinates, dropping the copies the doubling produces
func TestParseHitsCircular(t *testing.T) {
	// organelle length 300, query doubled to 600: the same locus reported
	// once per copy, and one hit spanning the origin
	output := `# 3 hits found
chr1	51	150	1001	1100	1e-40	plus
chr1	351	450	1001	1100	1e-40	plus
chr1	251	350	8001	8100	1e-30	plus
`

	hits, err := parseHits(strings.NewReader(output), true, 300)
	if err != nil {
		t.Fatalf("failed to parse blastn output: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("%d hits parsed, want 2 after dropping the doubled copy", len(hits))
	}

	if hits[0].orgStart != 50 || hits[0].orgEnd != 150 {
		t.Errorf("hit organelle interval [%d, %d), want [50, 150)", hits[0].orgStart, hits[0].orgEnd)
	}

	// the origin-spanning hit keeps its end past the organelle's length
	if hits[1].orgStart != 250 || hits[1].orgEnd != 350 {
		t.Errorf("origin-spanning hit organelle interval [%d, %d), want [250, 350)", hits[1].orgStart, hits[1].orgEnd)
	}
}

func TestParseHitsEmpty(t *testing.T) {
	output := `# BLASTN 2.12.0+
# 0 hits found
`

	hits, err := parseHits(strings.NewReader(output), false, 0)
	if err != nil {
		t.Fatalf("failed to parse blastn output: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("%d hits parsed from empty output, want 0", len(hits))
	}
}
