// Package constants provides centralized string constants used throughout the application.
package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestInstallerConstants tests the behavior of installer constants.
//
// It verifies:
//   - Installer constants match the values pip and conda write to INSTALLER files
//   - Prevents accidental changes to installer constant values
func TestInstallerConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"InstallerPip", InstallerPip, "pip"},
		{"InstallerPip3", InstallerPip3, "pip3"},
		{"InstallerConda", InstallerConda, "conda"},
		{"InstallerUV", InstallerUV, "uv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constant, "constant %s has unexpected value", tt.name)
		})
	}
}

// TestStatusConstants tests the behavior of provenance status constants.
//
// It verifies:
//   - Status constants have the expected string values
//   - Prevents accidental changes to status constant values
func TestStatusConstants(t *testing.T) {
	assert.Equal(t, "Eligible", StatusEligible)
	assert.Equal(t, "Excluded", StatusExcluded)
}

// TestPlaceholderConstants tests the behavior of placeholder constants.
//
// It verifies:
//   - PlaceholderNA is correctly defined
func TestPlaceholderConstants(t *testing.T) {
	assert.Equal(t, "#N/A", PlaceholderNA)
}

// TestIconConstants tests the behavior of icon constants.
//
// It verifies:
//   - All icon constants are non-empty strings
//   - Icons are properly defined for use in CLI output
func TestIconConstants(t *testing.T) {
	icons := []struct {
		name     string
		constant string
	}{
		{"IconSuccess", IconSuccess},
		{"IconBlocked", IconBlocked},
		{"IconWarn", IconWarn},
		{"IconLightbulb", IconLightbulb},
	}

	for _, icon := range icons {
		t.Run(icon.name, func(t *testing.T) {
			assert.NotEmpty(t, icon.constant, "icon %s should not be empty", icon.name)
		})
	}
}

// TestIconsAreDistinct tests the behavior of icon uniqueness.
//
// It verifies:
//   - All icons have distinct values
//   - No two icons share the same visual representation
func TestIconsAreDistinct(t *testing.T) {
	icons := map[string]string{
		"IconSuccess":   IconSuccess,
		"IconBlocked":   IconBlocked,
		"IconWarn":      IconWarn,
		"IconLightbulb": IconLightbulb,
	}

	seen := make(map[string]string)
	for name, icon := range icons {
		if existingName, exists := seen[icon]; exists {
			t.Errorf("Icon %s has same value as %s: %s", name, existingName, icon)
		}
		seen[icon] = name
	}
}
