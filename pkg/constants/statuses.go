// Package constants provides centralized string constants used throughout the application.
// This eliminates magic strings and provides a single source of truth for status values.
package constants

// Installer constants represent values recorded in dist-info INSTALLER files.
const (
	// InstallerPip is written by pip itself.
	InstallerPip = "pip"

	// InstallerPip3 appears on some distributions installed via the pip3 entry point.
	InstallerPip3 = "pip3"

	// InstallerConda marks distributions managed by conda.
	InstallerConda = "conda"

	// InstallerUV is written by the uv installer, which manages packages pip can still upgrade.
	InstallerUV = "uv"
)

// Provenance status constants represent the classification of an installed distribution.
const (
	// StatusEligible indicates the distribution may be upgraded through pip.
	StatusEligible = "Eligible"

	// StatusExcluded indicates the distribution is conda-managed and must not be touched by pip.
	StatusExcluded = "Excluded"
)

// Placeholder values for display when data is not available.
const (
	// PlaceholderNA is used when a value is not available.
	PlaceholderNA = "#N/A"
)

// Icon constants for status display.
// These provide visual indicators for package states in CLI output.
const (
	// IconSuccess indicates a successful or positive state (green circle).
	IconSuccess = "🟢"

	// IconBlocked indicates a blocked or excluded state (stop sign).
	IconBlocked = "⛔"

	// IconWarn is the warning prefix for messages.
	IconWarn = "⚠️"

	// IconLightbulb indicates a hint or suggestion.
	IconLightbulb = "💡"
)
