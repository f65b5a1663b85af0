package menu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ajxudir/pipselect/pkg/outdated"
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// Fallback presents a numbered text listing for terminals that cannot
// host the full-screen menu.
//
// It performs the following operations:
//   - Step 1: Prints every candidate with a 1-based index
//   - Step 2: Reads one line of whitespace- or comma-separated indices
//   - Step 3: Ignores non-numeric and out-of-range tokens, deduplicates
//     the rest, and maps them back to candidates in display order
//
// A blank line means "cancelled"; a line with no valid indices confirms
// an empty selection.
//
// Parameters:
//   - candidates: upgrade candidates to present, in display order
//
// Returns:
//   - []outdated.Candidate: the chosen subset, possibly empty
//   - bool: true when the user cancelled with a blank line
//   - error: reserved; currently always nil
func Fallback(candidates []outdated.Candidate) ([]outdated.Candidate, bool, error) {
	fmt.Println("\nUpgradeable packages:")
	for i, c := range candidates {
		fmt.Printf("  %3d. %-30s %-12s -> %-12s\n", i+1, c.Name, c.Current, c.Latest)
	}

	fmt.Print("\nEnter numbers to upgrade (e.g. 1 3 4), or blank to cancel: ")
	line, err := readLine(stdin)
	if err != nil && line == "" {
		// EOF before any input behaves like a blank line.
		fmt.Println()
		return nil, true, nil
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return nil, true, nil
	}

	return ParseSelection(answer, candidates), false, nil
}

// ParseSelection maps a raw index response onto the candidate list.
//
// Parameters:
//   - answer: whitespace- or comma-separated 1-based indices
//   - candidates: the presented candidates, in display order
//
// Returns:
//   - []outdated.Candidate: the valid, deduplicated picks in display order
func ParseSelection(answer string, candidates []outdated.Candidate) []outdated.Candidate {
	picks := make(map[int]struct{})
	for _, token := range strings.Fields(strings.ReplaceAll(answer, ",", " ")) {
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 || n > len(candidates) {
			continue
		}
		picks[n] = struct{}{}
	}

	indices := make([]int, 0, len(picks))
	for n := range picks {
		indices = append(indices, n)
	}
	sort.Ints(indices)

	chosen := make([]outdated.Candidate, 0, len(indices))
	for _, n := range indices {
		chosen = append(chosen, candidates[n-1])
	}
	return chosen
}

// readLine reads a single line, tolerating a missing trailing newline.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line != "" {
		return line, nil
	}
	return line, err
}
