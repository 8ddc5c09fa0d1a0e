package norg

import "fmt"

// segDup is one segmental-duplication annotation interval from a BED file.
// Read-only reference data for the duration of a run.
type segDup struct {
	chromosome string
	start      int
	end        int
}

// partition is the output of duplicate filtering: two disjoint stores
// whose union is the input hit set. Hits are regrouped, never rewritten.
type partition struct {
	unique    *hitStore
	duplicate *hitStore
}

// filter separates true organelle-insertion hits from hits that are artifacts
// of a nuclear segmental duplication: the nuclear locus the organelle sequence
// matched is itself duplicated elsewhere in the nucleus.
//
// When a duplication annotation set is supplied, a hit is flagged when the
// fraction of its flanking interval covered by a duplication meets the
// coverage threshold. Without annotations it falls back to comparing the
// hits' flanking intervals against each other: clusters of mutually
// overlapping flanks keep only their best-scoring member.
func filter(store *hitStore, flank int, coverage float64, mode string, segdups []segDup, chromLens map[string]int) (partition, error) {
	if err := validateFilter(flank, coverage, mode); err != nil {
		return partition{}, err
	}

	// duplication needs at least two candidate loci
	if store.len() <= 1 {
		return partition{unique: store, duplicate: groupHits(nil)}, nil
	}

	annotated := mode == "annotation" || (mode == "auto" && len(segdups) > 0)
	if annotated && len(segdups) == 0 {
		return partition{}, &ConfigurationError{Setting: "filter.mode", Reason: "annotation mode requires a segmental duplication file"}
	}

	var unique, duplicate []hit
	for _, name := range store.chromosomes() {
		hits := store.byChromosome(name)

		var dup []bool
		if annotated {
			dup = flagAnnotated(hits, flank, coverage, segdups, chromLens[name])
		} else {
			dup = flagPairwise(hits, flank, coverage, chromLens[name])
		}

		for i, h := range hits {
			if dup[i] {
				duplicate = append(duplicate, h)
			} else {
				unique = append(unique, h)
			}
		}
	}

	return partition{unique: groupHits(unique), duplicate: groupHits(duplicate)}, nil
}

// validateFilter checks the filter's settings before any hit is touched.
func validateFilter(flank int, coverage float64, mode string) error {
	if flank <= 0 {
		return &ConfigurationError{Setting: "filter.flank", Reason: fmt.Sprintf("must be positive, got %d", flank)}
	}
	if coverage < 0 || coverage > 1 {
		return &ConfigurationError{Setting: "filter.coverage", Reason: fmt.Sprintf("must be between 0 and 1, got %g", coverage)}
	}
	switch mode {
	case "auto", "annotation", "pairwise":
	default:
		return &ConfigurationError{Setting: "filter.mode", Reason: fmt.Sprintf("must be auto, annotation, or pairwise, got %q", mode)}
	}
	return nil
}

// flagAnnotated marks hits whose flanking interval is covered by a supplied
// duplication annotation beyond the coverage threshold.
func flagAnnotated(hits []hit, flank int, coverage float64, segdups []segDup, chromLen int) []bool {
	dup := make([]bool, len(hits))
	for i, h := range hits {
		start, end := flankInterval(h, flank, chromLen)

		best := 0.0
		for _, sd := range segdups {
			if sd.chromosome != h.chromosome {
				continue
			}
			frac := overlapFraction(start, end, sd.start, sd.end)
			if frac > best {
				best = frac
			}
		}

		dup[i] = best >= coverage
	}
	return dup
}

// flagPairwise marks hits whose flanking interval mutually overlaps another
// hit's flank beyond the coverage threshold. All but the best-scoring
// (lowest evalue) member of each overlap cluster are flagged.
func flagPairwise(hits []hit, flank int, coverage float64, chromLen int) []bool {
	// transitively cluster hits with mutually covered flanks
	cluster := make([]int, len(hits))
	for i := range cluster {
		cluster[i] = i
	}

	for i := 0; i < len(hits); i++ {
		iStart, iEnd := flankInterval(hits[i], flank, chromLen)
		for j := i + 1; j < len(hits); j++ {
			jStart, jEnd := flankInterval(hits[j], flank, chromLen)

			// both flanks must be covered for the loci to be duplicates of
			// one another
			if overlapFraction(iStart, iEnd, jStart, jEnd) < coverage ||
				overlapFraction(jStart, jEnd, iStart, iEnd) < coverage {
				continue
			}

			from, to := cluster[j], cluster[i]
			for k := range cluster {
				if cluster[k] == from {
					cluster[k] = to
				}
			}
		}
	}

	// keep the best-scoring member of each cluster
	best := make(map[int]int)
	for i := range hits {
		b, seen := best[cluster[i]]
		if !seen || hits[i].evalue < hits[b].evalue {
			best[cluster[i]] = i
		}
	}

	dup := make([]bool, len(hits))
	for i := range hits {
		dup[i] = best[cluster[i]] != i
	}
	return dup
}

// flankInterval returns the hit's nuclear interval padded by flank bases on
// each side, clamped to the chromosome's bounds. A zero chromLen means the
// chromosome's length is unknown and only the left edge is clamped.
func flankInterval(h hit, flank int, chromLen int) (start, end int) {
	start = h.nucStart - flank
	if start < 0 {
		start = 0
	}
	end = h.nucEnd + flank
	if chromLen > 0 && end > chromLen {
		end = chromLen
	}
	return start, end
}

// overlapFraction returns the fraction of [aStart, aEnd) covered by
// [bStart, bEnd).
func overlapFraction(aStart, aEnd, bStart, bEnd int) float64 {
	if aEnd <= aStart {
		return 0
	}

	lo, hi := aStart, aEnd
	if bStart > lo {
		lo = bStart
	}
	if bEnd < hi {
		hi = bEnd
	}
	if hi <= lo {
		return 0
	}

	return float64(hi-lo) / float64(aEnd-aStart)
}
