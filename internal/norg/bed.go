package norg

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// readSegDups reads segmental duplication annotations from a BED file:
// chromosome, start, end per line, extra columns ignored. Intervals are
// half-open and 0-indexed, per the BED convention.
func readSegDups(path string) ([]segDup, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open segmental duplication file %s: %w", path, err)
	}
	defer file.Close()

	var segdups []segDup
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) < 3 {
			return nil, &InputError{
				Record: fmt.Sprintf("%s line %d", path, lineNum),
				Reason: "BED rows need at least chromosome, start, and end columns",
			}
		}

		start, err := strconv.Atoi(cols[1])
		if err != nil {
			return nil, &InputError{
				Record: fmt.Sprintf("%s line %d", path, lineNum),
				Reason: fmt.Sprintf("bad start coordinate %q", cols[1]),
			}
		}
		end, err := strconv.Atoi(cols[2])
		if err != nil {
			return nil, &InputError{
				Record: fmt.Sprintf("%s line %d", path, lineNum),
				Reason: fmt.Sprintf("bad end coordinate %q", cols[2]),
			}
		}
		if start < 0 || start >= end {
			return nil, &InputError{
				Record: fmt.Sprintf("%s line %d", path, lineNum),
				Reason: fmt.Sprintf("start %d is not before end %d", start, end),
			}
		}

		segdups = append(segdups, segDup{chromosome: cols[0], start: start, end: end})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return segdups, nil
}
