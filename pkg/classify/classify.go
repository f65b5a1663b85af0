// Package classify implements the provenance classification policy that
// decides which installed distributions pip may upgrade. Each distribution
// is attributed to pip or to conda using two signals: the per-distribution
// INSTALLER marker and, when a conda environment is active, membership in
// its conda-meta manifest set. Everything not positively attributed to
// conda is eligible — distributions with unknown or third-party provenance
// (uv, pipx) are upgradeable through pip, so the inclusive default is the
// correct one. It is a documented heuristic, not a guarantee.
package classify

import (
	"github.com/ajxudir/pipselect/pkg/conda"
	"github.com/ajxudir/pipselect/pkg/constants"
	"github.com/ajxudir/pipselect/pkg/pypi"
	"github.com/ajxudir/pipselect/pkg/registry"
	"github.com/ajxudir/pipselect/pkg/verbose"
)

// Exclusion reasons recorded on excluded units.
const (
	// ReasonInstallerMarker means the INSTALLER file named conda directly.
	ReasonInstallerMarker = "INSTALLER marker"

	// ReasonCondaManifest means the name appeared in conda-meta of an
	// active conda environment.
	ReasonCondaManifest = "conda-meta manifest"
)

// Options carries the environment inputs for a classification run.
//
// All ambient state is resolved by the caller and injected here, so the
// classifier itself never reads environment variables or interpreter
// state.
//
// Fields:
//   - CondaEnvValue: Value of the conda prefix environment variable
//   - PythonPrefix: sys.prefix of the resolved interpreter
//   - SiteDirs: site-packages directories to enumerate
type Options struct {
	// CondaEnvValue is the conda prefix variable value; empty when unset.
	CondaEnvValue string

	// PythonPrefix is the interpreter installation prefix.
	PythonPrefix string

	// SiteDirs lists the site-packages directories in path order.
	SiteDirs []string
}

// Unit is one classified distribution.
//
// Fields:
//   - Distribution: The underlying registry record
//   - Status: StatusEligible or StatusExcluded
//   - Reason: Exclusion reason, empty for eligible units
type Unit struct {
	registry.Distribution

	// Status is the classification outcome for this distribution.
	Status string

	// Reason names the signal that excluded the distribution.
	Reason string
}

// Result is the outcome of a classification run.
//
// Fields:
//   - Eligible: Set of normalized names pip may upgrade
//   - Units: Every readable distribution with its classification
//   - CountEligible: Number of eligible distributions
//   - CountExcluded: Number of conda-excluded distributions
//   - CondaPrefix: Detected conda environment root, empty when none
//   - SkippedUnits: Distributions dropped due to unreadable metadata
type Result struct {
	// Eligible holds the normalized names considered pip-managed.
	Eligible map[string]struct{}

	// Units lists every classified distribution in discovery order.
	Units []Unit

	// CountEligible is the number of pip-upgradeable distributions.
	CountEligible int

	// CountExcluded is the number of conda-managed distributions.
	CountExcluded int

	// CondaPrefix is the conda environment root, empty when absent.
	CondaPrefix string

	// SkippedUnits counts distributions with unreadable metadata.
	SkippedUnits int
}

// Classify partitions installed distributions into pip-eligible and
// conda-excluded sets.
//
// It performs the following operations:
//   - Step 1: Detects an active conda environment from the injected inputs
//   - Step 2: Reads the conda-meta name set when an environment is present
//   - Step 3: Enumerates distributions from the site-packages registry
//   - Step 4: Applies the exclusion policy per unit, marker first
//
// The policy per unit, in priority order: an INSTALLER marker equal to
// "conda" always excludes; otherwise membership in the conda-meta set
// excludes only while a conda environment is present; everything else is
// eligible. Classification never fails — per-unit registry errors are
// absorbed as skips and the worst case is an empty eligible set.
//
// Parameters:
//   - opts: Injected environment inputs
//
// Returns:
//   - *Result: Classification outcome; never nil
func Classify(opts Options) *Result {
	result := &Result{Eligible: make(map[string]struct{})}

	condaPrefix, condaFound := conda.Detect(opts.CondaEnvValue, opts.PythonPrefix)
	if condaFound {
		result.CondaPrefix = condaPrefix
	}

	var condaNames map[string]struct{}
	if condaFound {
		condaNames = conda.MetaNames(condaPrefix)
	}

	dists, skipped := registry.Discover(opts.SiteDirs)
	result.SkippedUnits = skipped

	for _, dist := range dists {
		normalized := pypi.Normalize(dist.Name)
		unit := Unit{Distribution: dist, Status: constants.StatusEligible}

		switch {
		case dist.Installer == constants.InstallerConda:
			unit.Status = constants.StatusExcluded
			unit.Reason = ReasonInstallerMarker

		case condaFound && contains(condaNames, normalized):
			unit.Status = constants.StatusExcluded
			unit.Reason = ReasonCondaManifest
		}

		if unit.Status == constants.StatusExcluded {
			result.CountExcluded++
			verbose.PackageExcluded(dist.Name, unit.Reason)
		} else {
			result.CountEligible++
			result.Eligible[normalized] = struct{}{}
		}

		result.Units = append(result.Units, unit)
	}

	return result
}

// contains reports set membership, tolerating a nil set.
func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
