package norg

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// fastaRecord is one sequence from a FASTA file.
type fastaRecord struct {
	// id is the header up to the first whitespace
	id string

	// seq with gaps and whitespace removed
	seq string
}

// unwantedChars strips everything that isn't a base from a sequence line
var unwantedChars = regexp.MustCompile(`[^a-zA-Z]`)

// readFASTA reads a FASTA file into records, in file order.
func readFASTA(path string) ([]fastaRecord, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA file %s: %w", path, err)
	}

	lines := strings.Split(string(dat), "\n")

	// find the headers
	var headerIndices []int
	var ids []string
	for i, line := range lines {
		if strings.HasPrefix(line, ">") {
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, &InputError{Record: path, Reason: "FASTA header without a name"}
			}
			headerIndices = append(headerIndices, i)
			ids = append(ids, fields[0])
		}
	}

	if len(headerIndices) == 0 {
		return nil, &InputError{Record: path, Reason: "no FASTA headers in file"}
	}

	// accumulate the sequences from between the headers
	var records []fastaRecord
	for i, headerIndex := range headerIndices {
		nextLine := len(lines)
		if i < len(headerIndices)-1 {
			nextLine = headerIndices[i+1]
		}
		seq := unwantedChars.ReplaceAllString(strings.Join(lines[headerIndex+1:nextLine], ""), "")
		if seq == "" {
			return nil, &InputError{Record: ids[i], Reason: "FASTA record without a sequence"}
		}
		records = append(records, fastaRecord{id: ids[i], seq: seq})
	}

	return records, nil
}

// seqMap maps record ids to their sequences.
func seqMap(records []fastaRecord) map[string]string {
	seqs := make(map[string]string, len(records))
	for _, r := range records {
		seqs[r.id] = r.seq
	}
	return seqs
}

// lenMap maps record ids to their sequence lengths.
func lenMap(records []fastaRecord) map[string]int {
	lens := make(map[string]int, len(records))
	for _, r := range records {
		lens[r.id] = len(r.seq)
	}
	return lens
}
