package output

// ScanResult represents the output data for the scan command.
//
// Fields:
//   - Summary: Aggregate statistics about the inspected environment
//   - SiteDirs: Per-directory breakdown of the interpreter's site-packages
//   - Warnings: Warning messages generated during the scan (omitted if empty)
type ScanResult struct {
	Summary  ScanSummary   `json:"summary"`
	SiteDirs []ScanSiteDir `json:"site_dirs"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ScanSummary holds summary statistics for scan results.
//
// Fields:
//   - Python: Resolved interpreter executable path
//   - Prefix: sys.prefix reported by the interpreter
//   - BasePrefix: sys.base_prefix reported by the interpreter
//   - VirtualEnv: Whether the interpreter runs inside a virtual environment
//   - CondaPrefix: Active conda prefix, empty when no conda environment applies
//   - TotalDistributions: Total number of installed distributions discovered
type ScanSummary struct {
	Python             string `json:"python"`
	Prefix             string `json:"prefix"`
	BasePrefix         string `json:"base_prefix"`
	VirtualEnv         bool   `json:"virtual_env"`
	CondaPrefix        string `json:"conda_prefix,omitempty"`
	TotalDistributions int    `json:"total_distributions"`
}

// ScanSiteDir represents a single site-packages directory entry.
//
// Fields:
//   - Path: Absolute path of the site-packages directory
//   - Distributions: Number of installed distributions found in the directory
type ScanSiteDir struct {
	Path          string `json:"path"`
	Distributions int    `json:"distributions"`
}

// ListResult represents the output data for the list command.
//
// Fields:
//   - Summary: Aggregate statistics about the classification
//   - Packages: List of classified distribution entries
//   - Warnings: Warning messages generated during the listing (omitted if empty)
type ListResult struct {
	Summary  ListSummary   `json:"summary"`
	Packages []ListPackage `json:"packages"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ListSummary holds summary statistics for list results.
//
// Fields:
//   - TotalPackages: Total number of installed distributions considered
//   - Eligible: Number of distributions eligible for pip upgrades
//   - Excluded: Number of distributions excluded as conda-managed
//   - CondaPrefix: Active conda prefix, empty when no conda environment applies
type ListSummary struct {
	TotalPackages int    `json:"total_packages"`
	Eligible      int    `json:"eligible"`
	Excluded      int    `json:"excluded"`
	CondaPrefix   string `json:"conda_prefix,omitempty"`
}

// ListPackage represents a classified distribution entry in the list output.
//
// Fields:
//   - Name: Distribution name as recorded in its metadata
//   - Version: Installed version
//   - Installer: Tool recorded in the INSTALLER marker (omitted if unknown)
//   - Status: Classification status ("Eligible" or "Excluded")
//   - Reason: Why the distribution was excluded (omitted for eligible entries)
type ListPackage struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Installer string `json:"installer,omitempty"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// OutdatedResult represents the output data for the outdated command.
//
// Fields:
//   - Summary: Aggregate statistics about the outdated check
//   - Packages: Upgradeable candidates with current and latest versions
//   - Warnings: Warning messages generated during the check (omitted if empty)
type OutdatedResult struct {
	Summary  OutdatedSummary   `json:"summary"`
	Packages []OutdatedPackage `json:"packages"`
	Warnings []string          `json:"warnings,omitempty"`
}

// OutdatedSummary holds summary statistics for outdated results.
//
// Fields:
//   - CheckedPackages: Number of pip-eligible distributions considered
//   - OutdatedPackages: Number of candidates with a newer release available
//   - ExcludedPackages: Number of distributions excluded as conda-managed
//   - CondaPrefix: Active conda prefix, empty when no conda environment applies
type OutdatedSummary struct {
	CheckedPackages  int    `json:"checked_packages"`
	OutdatedPackages int    `json:"outdated_packages"`
	ExcludedPackages int    `json:"excluded_packages"`
	CondaPrefix      string `json:"conda_prefix,omitempty"`
}

// OutdatedPackage represents a candidate entry in the outdated output.
//
// Fields:
//   - Name: Distribution name as reported by pip
//   - Installed: Currently installed version
//   - Latest: Latest version available on the index
type OutdatedPackage struct {
	Name      string `json:"name"`
	Installed string `json:"installed"`
	Latest    string `json:"latest"`
}
