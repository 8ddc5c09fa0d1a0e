package norg

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// blastExec is a small utility object for executing blastn with the
// organelle genome as the query and the nuclear genome as the subject.
type blastExec struct {
	// the organelle record being queried
	organelle fastaRecord

	// whether the organelle genome is circular
	circular bool

	// path to the nuclear genome FASTA file, used as the blastn subject
	nuclear string

	// the input blastn file
	in *os.File

	// the output blastn file
	out *os.File

	// path to the blastn executable
	blastn string

	// the expect value threshold for reported hits
	evalue float64

	// the percent identity threshold for reported hits
	identity int
}

// align runs blastn on the organelle genome against the nuclear genome and
// returns the raw hits.
func align(organelle fastaRecord, circular bool, nuclear, blastn string, evalue float64, identity int) (hits []hit, err error) {
	in, err := os.CreateTemp("", "norg-blast-in-*.fa")
	if err != nil {
		return nil, fmt.Errorf("failed to create blastn input file: %w", err)
	}
	defer os.Remove(in.Name())

	out, err := os.CreateTemp("", "norg-blast-out-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create blastn output file: %w", err)
	}
	defer os.Remove(out.Name())

	b := &blastExec{
		organelle: organelle,
		circular:  circular,
		nuclear:   nuclear,
		in:        in,
		out:       out,
		blastn:    blastn,
		evalue:    evalue,
		identity:  identity,
	}

	if err := b.create(); err != nil {
		return nil, fmt.Errorf("failed at creating blastn input file at %s: %w", b.in.Name(), err)
	}

	if err := b.run(); err != nil {
		return nil, fmt.Errorf("failed executing blastn: %w", err)
	}

	if hits, err = b.parse(); err != nil {
		return nil, fmt.Errorf("failed to parse blastn output: %w", err)
	}

	log.Printf("%d hits against %s\n", len(hits), nuclear)

	return hits, nil
}

// create writes the query file for blastn. A circular organelle sequence is
// added to itself so hits across the origin aren't split at the zero-index.
func (b *blastExec) create() error {
	seq := b.organelle.seq
	if b.circular {
		seq += seq
	}

	file := fmt.Sprintf(">%s\n%s\n", b.organelle.id, seq)
	return os.WriteFile(b.in.Name(), []byte(file), 0666)
}

// run calls the external blastn binary on the query against the nuclear
// genome subject file.
// https://www.ncbi.nlm.nih.gov/books/NBK279682/
func (b *blastExec) run() error {
	blastCmd := exec.Command(
		b.blastn,
		"-task", "blastn",
		"-query", b.in.Name(),
		"-subject", b.nuclear,
		"-out", b.out.Name(),
		"-outfmt", "7 sseqid qstart qend sstart send evalue sstrand",
		"-evalue", strconv.FormatFloat(b.evalue, 'g', -1, 64),
		"-perc_identity", strconv.Itoa(b.identity),
	)

	// execute blastn and wait on it to finish
	if output, err := blastCmd.CombinedOutput(); err != nil {
		return fmt.Errorf("warnings executing: %s:\n\t%s", b.blastn, string(output))
	}
	return nil
}

// parse reads the blastn output file into hits.
func (b *blastExec) parse() ([]hit, error) {
	file, err := os.ReadFile(b.out.Name())
	if err != nil {
		return nil, err
	}
	return parseHits(strings.NewReader(string(file)), b.circular, len(b.organelle.seq))
}

// parseHits reads tabular blastn output (outfmt 7) into hits. Coordinates
// are converted from blastn's 1-based inclusive pairs to 0-based half-open
// intervals. For a doubled circular query, hits landing entirely in the
// second copy are shifted back an organelle length and the duplicates the
// doubling produces are dropped.
func parseHits(r io.Reader, circular bool, orgLen int) ([]hit, error) {
	dat, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var hits []hit
	seen := make(map[string]bool)
	for _, line := range strings.Split(string(dat), "\n") {
		// comment lines start with a #
		if strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) < 7 {
			continue
		}

		chromosome := cols[0]
		orgStart, _ := strconv.Atoi(cols[1])
		orgEnd, _ := strconv.Atoi(cols[2])
		nucStart, _ := strconv.Atoi(cols[3])
		nucEnd, _ := strconv.Atoi(cols[4])
		evalue, _ := strconv.ParseFloat(cols[5], 64)

		strand := Plus
		if cols[6] == "minus" {
			strand = Minus
		}

		// blastn reports the subject range backwards on the minus strand
		if nucStart > nucEnd {
			nucStart, nucEnd = nucEnd, nucStart
		}

		// 1-based inclusive to 0-based half-open
		h := hit{
			chromosome: chromosome,
			nucStart:   nucStart - 1,
			nucEnd:     nucEnd,
			orgStart:   orgStart - 1,
			orgEnd:     orgEnd,
			strand:     strand,
			evalue:     evalue,
		}

		if circular && orgLen > 0 {
			// the query was doubled: map second-copy hits back onto the
			// first copy. hits spanning the seam keep orgEnd past the
			// organelle's length
			if h.orgStart >= orgLen {
				h.orgStart -= orgLen
				h.orgEnd -= orgLen
			}

			key := fmt.Sprintf("%s:%d-%d/%d-%d", h.chromosome, h.nucStart, h.nucEnd, h.orgStart, h.orgEnd)
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		hits = append(hits, h)
	}

	return hits, nil
}
