package norg

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Locus is one consolidated insertion call in the output.
type Locus struct {
	// Chromosome the organelle fragment inserted into
	Chromosome string `json:"chromosome"`

	// NucStart, NucEnd is the bounding nuclear interval (0-indexed, half-open)
	NucStart int `json:"nucStart"`
	NucEnd   int `json:"nucEnd"`

	// OrgStart, OrgEnd is the bounding organelle interval
	OrgStart int `json:"orgStart"`
	OrgEnd   int `json:"orgEnd"`

	// Strand of the insertion relative to the nucleus
	Strand string `json:"strand"`

	// Hits is the number of raw hits merged into this locus
	Hits int `json:"hits"`

	// Bridges between adjacent merged hits, in order
	Bridges []string `json:"bridges,omitempty"`

	// Evalue is the best evalue among the merged hits
	Evalue float64 `json:"evalue"`
}

// Output is a struct containing the results of a run.
type Output struct {
	// Nuclear genome the organelle was searched against
	Nuclear string `json:"nuclear"`

	// Organelle genome that was searched
	Organelle string `json:"organelle"`

	// Time, ex: "2018-01-01 20:41:00"
	Time string `json:"time"`

	// Execution is the number of seconds it took to execute the command
	Execution float64 `json:"execution"`

	// HitCount is the number of raw hits that went into consolidation
	HitCount int `json:"hitCount"`

	// Unique insertion loci, the real calls
	Unique []Locus `json:"unique"`

	// Duplicate loci that fell in nuclear segmental duplications
	Duplicate []Locus `json:"duplicate"`
}

// newLocus flattens a chain into its output form.
func newLocus(c chain) Locus {
	var bridges []string
	for _, b := range c.bridges {
		bridges = append(bridges, b.String())
	}

	return Locus{
		Chromosome: c.chromosome,
		NucStart:   c.nucStart,
		NucEnd:     c.nucEnd,
		OrgStart:   c.orgStart,
		OrgEnd:     c.orgEnd,
		Strand:     string(c.strand),
		Hits:       len(c.members),
		Bridges:    bridges,
		Evalue:     c.evalue(),
	}
}

// flatten converts per-chromosome chains to loci in chromosome order.
func flatten(chains map[string][]chain, chromosomes []string) []Locus {
	loci := []Locus{}
	for _, name := range chromosomes {
		for _, c := range chains[name] {
			loci = append(loci, newLocus(c))
		}
	}
	return loci
}

// writeTSV writes one coordinate row per locus.
func writeTSV(filename string, loci []Locus) error {
	var sb strings.Builder
	sb.WriteString("chromosome\tnucStart\tnucEnd\torgStart\torgEnd\tstrand\thits\tbridges\tevalue\n")

	for _, l := range loci {
		bridges := "."
		if len(l.Bridges) > 0 {
			bridges = strings.Join(l.Bridges, ",")
		}
		sb.WriteString(fmt.Sprintf(
			"%s\t%d\t%d\t%d\t%d\t%s\t%d\t%s\t%g\n",
			l.Chromosome, l.NucStart, l.NucEnd, l.OrgStart, l.OrgEnd,
			l.Strand, l.Hits, bridges, l.Evalue,
		))
	}

	return os.WriteFile(filename, []byte(sb.String()), 0666)
}

// writeFASTA writes the nuclear sequence of each locus.
func writeFASTA(filename string, loci []Locus, nuclear map[string]string) error {
	var sb strings.Builder
	for _, l := range loci {
		seq, ok := nuclear[l.Chromosome]
		if !ok {
			return &InputError{
				Record: l.Chromosome,
				Reason: "hit chromosome missing from the nuclear FASTA",
			}
		}

		end := l.NucEnd
		if end > len(seq) {
			end = len(seq)
		}
		if l.NucStart >= end {
			return &InputError{
				Record: fmt.Sprintf("%s:%d-%d", l.Chromosome, l.NucStart, l.NucEnd),
				Reason: "locus outside the nuclear chromosome",
			}
		}

		sb.WriteString(fmt.Sprintf(
			">%s:%d-%d organelle=%d-%d(%s)\n%s\n",
			l.Chromosome, l.NucStart, l.NucEnd, l.OrgStart, l.OrgEnd, l.Strand,
			seq[l.NucStart:end],
		))
	}

	return os.WriteFile(filename, []byte(sb.String()), 0666)
}

// writeJSON writes the run summary.
func writeJSON(filename string, out Output) error {
	// store save time, using same format as log.Println https://golang.org/pkg/log/#Println
	t := time.Now()
	out.Time = fmt.Sprintf(
		"%d/%02d/%02d %02d:%02d:%02d",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
	)

	output, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize the output data: %w", err)
	}

	return os.WriteFile(filename, output, 0666)
}
