package output

import "fmt"

// User-facing messages shared by the list, outdated, and upgrade commands.
// Keeping the exact phrasing in one place lets the commands and their tests
// agree on what the terminal shows.
const (
	// MsgCancelled is printed when the user backs out of the selection
	// menu or declines the final confirmation.
	MsgCancelled = "Cancelled."

	// MsgNothingToUpgrade is printed when the outdated query intersected
	// with the eligible set leaves no candidates.
	MsgNothingToUpgrade = "No upgradeable pip-installed packages found (excluding conda-installed)."

	// MsgNothingSelected is printed when the user confirms an empty
	// selection; the installer is never invoked in that case.
	MsgNothingSelected = "No packages selected. Nothing to do."
)

// CondaBanner formats the one-line notice shown when a conda environment
// is detected at startup.
//
// Parameters:
//   - prefix: Root directory of the detected conda environment
//
// Returns:
//   - string: Banner line naming the prefix and the exclusion policy
func CondaBanner(prefix string) string {
	return fmt.Sprintf("Conda environment detected (%s): conda-installed packages are excluded.", prefix)
}

// ClassificationCounts formats the summary line printed after provenance
// classification.
//
// Parameters:
//   - eligible: Number of distributions eligible for pip upgrades
//   - excluded: Number of distributions excluded as conda-managed
//
// Returns:
//   - string: Counts line, omitting the excluded clause when it is zero
func ClassificationCounts(eligible, excluded int) string {
	if excluded == 0 {
		return fmt.Sprintf("%d pip-installed package(s) eligible for upgrade.", eligible)
	}
	return fmt.Sprintf("%d pip-installed package(s) eligible for upgrade, %d conda-installed excluded.", eligible, excluded)
}

// ValidateStructuredOutputFlags checks flag compatibility with structured output formats.
//
// Structured formats (JSON) must not be mixed with verbose logging because
// debug lines would corrupt the machine-readable stream.
//
// Parameters:
//   - format: The requested output format
//   - verbose: Whether verbose logging was requested
//
// Returns:
//   - error: When verbose is combined with a structured format; nil otherwise
func ValidateStructuredOutputFlags(format Format, verbose bool) error {
	if IsStructuredFormat(format) && verbose {
		return fmt.Errorf("--verbose is not supported with --output %s: debug output would corrupt the structured stream", format)
	}
	return nil
}
