package panel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads a tab-separated population panel file into populations keyed
// by population code.
func Load(path string) (map[string]*Population, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open panel file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses panel rows from r. Expected columns are
// sample, population code, superpopulation code and gender; a line whose
// first field is literally "sample" is the header and skipped, lines with
// fewer than four fields are ignored. Gender is read but not modeled.
func Read(r io.Reader) (map[string]*Population, error) {
	populations := make(map[string]*Population)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 4 {
			continue
		}

		sample, code, superpop := fields[0], fields[1], fields[2]
		if sample == "sample" {
			continue
		}

		pop, ok := populations[code]
		if !ok {
			pop = &Population{
				Code:     code,
				Name:     PopulationName(code),
				Ancestry: superpop,
				Region:   Region(superpop),
			}
			populations[code] = pop
		}

		// Append-only, no de-duplication.
		pop.Members = append(pop.Members, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read panel file: %w", err)
	}

	return populations, nil
}
