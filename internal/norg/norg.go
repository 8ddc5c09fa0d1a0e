package norg

import (
	"fmt"
	"log"
	"time"

	"github.com/sciseim/norg-suite/config"
)

// result is the consolidated hit set, ready for the output writers.
type result struct {
	// hitCount is the number of raw hits that went into consolidation
	hitCount int

	// unique insertion loci, in chromosome order
	unique []Locus

	// duplicate loci whose flanks fell in segmental duplications
	duplicate []Locus
}

// Find runs the whole pipeline: align the organelle genome against the
// nuclear genome, partition the hits into unique and duplicate sets, chain
// each set into insertion loci, and write the coordinate, sequence, and
// summary files. Nothing is written unless every stage succeeds.
func Find(conf *config.Config) error {
	start := time.Now()

	// reject bad settings before any data is touched
	if err := validateConfig(conf); err != nil {
		return err
	}

	organelles, err := readFASTA(conf.Organelle)
	if err != nil {
		return err
	}
	if len(organelles) > 1 {
		log.Printf("%d records in %s, using %s\n", len(organelles), conf.Organelle, organelles[0].id)
	}
	organelle := organelles[0]

	nuclear, err := readFASTA(conf.Nuclear)
	if err != nil {
		return err
	}

	var segdups []segDup
	if conf.SegDup != "" {
		if segdups, err = readSegDups(conf.SegDup); err != nil {
			return err
		}
		log.Printf("%d segmental duplications in %s\n", len(segdups), conf.SegDup)
	}

	hits, err := align(organelle, conf.Circular, conf.Nuclear, conf.Blast.Path, conf.Blast.Evalue, conf.Blast.Identity)
	if err != nil {
		return err
	}

	res, err := consolidate(hits, segdups, lenMap(nuclear), len(organelle.seq), conf)
	if err != nil {
		return err
	}

	log.Printf("%d hits consolidated into %d insertion loci (%d in duplications)\n",
		res.hitCount, len(res.unique), len(res.duplicate))

	// every stage succeeded, write the output files
	if err := writeTSV(conf.Out+".unique.tsv", res.unique); err != nil {
		return err
	}
	if err := writeTSV(conf.Out+".duplicate.tsv", res.duplicate); err != nil {
		return err
	}
	if err := writeFASTA(conf.Out+".fasta", res.unique, seqMap(nuclear)); err != nil {
		return err
	}

	return writeJSON(conf.Out+".json", Output{
		Nuclear:   conf.Nuclear,
		Organelle: conf.Organelle,
		Execution: time.Since(start).Seconds(),
		HitCount:  res.hitCount,
		Unique:    res.unique,
		Duplicate: res.duplicate,
	})
}

// consolidate turns raw hits into unique and duplicate insertion loci. It's
// the pure core of the pipeline: no file or process I/O.
func consolidate(hits []hit, segdups []segDup, chromLens map[string]int, orgLen int, conf *config.Config) (result, error) {
	store, err := newHitStore(hits)
	if err != nil {
		return result{}, err
	}

	part := partition{unique: store, duplicate: groupHits(nil)}
	if !conf.Filter.Disabled {
		if part, err = filter(store, conf.Filter.Flank, conf.Filter.Coverage, conf.Filter.Mode, segdups, chromLens); err != nil {
			return result{}, err
		}
	}

	limits := chainLimits{
		maxDeletion:  conf.Chain.MaxDeletion,
		maxInsertion: conf.Chain.MaxInsertion,
		maxConcat:    conf.Chain.MaxConcat,
		maxOverlap:   conf.Chain.MaxOverlap,
		circular:     conf.Circular,
		organelleLen: orgLen,
	}

	// the unique and duplicate sets are chained independently
	var uniqueChains, duplicateChains map[string][]chain
	if conf.Chain.Disabled {
		uniqueChains = singletons(part.unique)
		duplicateChains = singletons(part.duplicate)
	} else {
		if uniqueChains, err = chainAll(part.unique, limits); err != nil {
			return result{}, err
		}
		if duplicateChains, err = chainAll(part.duplicate, limits); err != nil {
			return result{}, err
		}
	}

	return result{
		hitCount:  store.len(),
		unique:    flatten(uniqueChains, part.unique.chromosomes()),
		duplicate: flatten(duplicateChains, part.duplicate.chromosomes()),
	}, nil
}

// validateConfig rejects invalid settings up front so a failed run can
// never leave partial output behind.
func validateConfig(conf *config.Config) error {
	if conf.Nuclear == "" {
		return &ConfigurationError{Setting: "nuclear", Reason: "a nuclear genome FASTA file is required"}
	}
	if conf.Organelle == "" {
		return &ConfigurationError{Setting: "organelle", Reason: "an organelle genome FASTA file is required"}
	}
	if conf.Out == "" {
		return &ConfigurationError{Setting: "out", Reason: "an output prefix is required"}
	}

	if !conf.Filter.Disabled {
		if err := validateFilter(conf.Filter.Flank, conf.Filter.Coverage, conf.Filter.Mode); err != nil {
			return err
		}
		if conf.Filter.Mode == "annotation" && conf.SegDup == "" {
			return &ConfigurationError{Setting: "filter.mode", Reason: "annotation mode requires a segmental duplication file"}
		}
	}

	if !conf.Chain.Disabled {
		limits := chainLimits{
			maxDeletion:  conf.Chain.MaxDeletion,
			maxInsertion: conf.Chain.MaxInsertion,
			maxConcat:    conf.Chain.MaxConcat,
			maxOverlap:   conf.Chain.MaxOverlap,
		}
		if err := limits.validate(); err != nil {
			return err
		}
	}

	if conf.Blast.Identity < 0 || conf.Blast.Identity > 100 {
		return &ConfigurationError{Setting: "blast.identity", Reason: fmt.Sprintf("must be between 0 and 100, got %d", conf.Blast.Identity)}
	}

	return nil
}
