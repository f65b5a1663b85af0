package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajxudir/pipselect/pkg/verbose"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field      string
	Message    string
	Expected   string // Expected type or schema hint
	ValidKeys  string // Valid keys for this context
	DocSection string // Documentation section reference
}

// Error returns the error message string.
//
// This implements the error interface for ValidationError.
//
// Returns:
//   - string: formatted error message with field name if available
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// VerboseError returns a detailed error message with schema hints.
//
// This provides additional context including expected types, valid keys,
// and documentation references to help users fix the error.
//
// Returns:
//   - string: detailed error message with schema information and documentation links
func (e ValidationError) VerboseError() string {
	var sb strings.Builder
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
	} else {
		sb.WriteString(e.Message)
	}
	if e.Expected != "" {
		sb.WriteString(fmt.Sprintf("\n    Expected: %s", e.Expected))
	}
	if e.ValidKeys != "" {
		sb.WriteString(fmt.Sprintf("\n    Valid keys: %s", e.ValidKeys))
	}
	if e.DocSection != "" {
		sb.WriteString(fmt.Sprintf("\n    📖 See: docs/configuration.md#%s", e.DocSection))
	}
	return sb.String()
}

// ValidationResult holds the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
}

// HasErrors returns true if there are any validation errors.
//
// Returns:
//   - bool: true if validation found errors, false otherwise
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorMessages returns all error messages as a formatted string.
//
// This formats all validation errors into a single multi-line string
// suitable for displaying to users.
//
// Returns:
//   - string: formatted error messages, or empty string if no errors
func (r *ValidationResult) ErrorMessages() string {
	if len(r.Errors) == 0 {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, "  - "+e.Error())
	}
	return "Configuration validation failed:\n" + strings.Join(msgs, "\n")
}

// VerboseErrorMessages returns detailed error messages with schema hints.
//
// This is like ErrorMessages but includes additional context such as
// expected types, valid keys, and documentation references.
//
// Returns:
//   - string: detailed formatted error messages, or empty string if no errors
func (r *ValidationResult) VerboseErrorMessages() string {
	if len(r.Errors) == 0 {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, "  - "+e.VerboseError())
	}
	return "Configuration validation failed:\n" + strings.Join(msgs, "\n")
}

// Schema information for validation errors
var configSchema = map[string]schemaInfo{
	"Config": {
		fields: "python, pip_args, env, conda, progress, ui, checks",
		doc:    "configuration",
	},
	"CondaCfg": {
		fields: "env_var",
		doc:    "conda",
	},
	"ProgressCfg": {
		fields: "per_package_ms, min_seconds",
		doc:    "progress",
	},
	"UICfg": {
		fields: "no_tui",
		doc:    "ui",
	},
	"ChecksCfg": {
		fields: "post_upgrade",
		doc:    "checks",
	},
}

type schemaInfo struct {
	fields string
	doc    string
}

// envVarNamePattern matches portable environment variable names.
var envVarNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateConfigFile validates a YAML configuration file for syntax errors and unknown fields.
//
// This performs strict validation using KnownFields(true) to detect typos and
// unknown configuration options. It also validates required fields and constraints.
//
// Parameters:
//   - data: YAML configuration data as bytes
//
// Returns:
//   - *ValidationResult: validation result with any errors and warnings found
func ValidateConfigFile(data []byte) *ValidationResult {
	result := &ValidationResult{}

	verbose.Printf("Config validation: starting YAML parsing with strict field checking")

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty file means "all defaults", not a broken config.
			verbose.Printf("Config validation: empty file, nothing to check")
			return result
		}
		verbose.Printf("Config validation FAILED: YAML decode error: %v", err)
		appendDecodeError(result, err)
		return result
	}

	verbose.Printf("Config validation: YAML parsed successfully, validating structure")
	validateConfigStruct(&cfg, result)

	if len(result.Errors) == 0 {
		verbose.Printf("Config validation PASSED: no errors found")
	} else {
		verbose.Printf("Config validation FAILED: %d errors found", len(result.Errors))
	}

	return result
}

// appendDecodeError converts a YAML decode error into a ValidationError.
//
// Unknown-field errors are enriched with the field name, the line number,
// the valid keys of the enclosing type, and a suggestion when the field
// looks like a known typo.
//
// Parameters:
//   - result: validation result to append to
//   - err: the YAML decode error
func appendDecodeError(result *ValidationResult, err error) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "field") && strings.Contains(errMsg, "not found"):
		fieldName, typeName := extractFieldAndType(errMsg)
		lineNum := extractLineNumber(errMsg)

		verr := ValidationError{
			Message: fmt.Sprintf("unknown field '%s'", fieldName),
		}
		if lineNum > 0 {
			verr.Message = fmt.Sprintf("unknown field '%s' (line %d)", fieldName, lineNum)
		}

		if schema, ok := configSchema[typeName]; ok {
			verr.ValidKeys = schema.fields
			verr.DocSection = schema.doc
		} else if typeName != "" {
			verr.Expected = fmt.Sprintf("valid field for %s", typeName)
		}

		if suggestion := suggestSimilarField(fieldName, typeName); suggestion != "" {
			verr.Message += fmt.Sprintf(" (did you mean '%s'?)", suggestion)
		}

		result.Errors = append(result.Errors, verr)

	case strings.Contains(errMsg, "cannot unmarshal"):
		// Type mismatch errors - check before "yaml:" since these also contain "yaml:"
		result.Errors = append(result.Errors, ValidationError{
			Message:  errMsg,
			Expected: extractExpectedType(errMsg),
		})

	case strings.Contains(errMsg, "yaml:"):
		result.Errors = append(result.Errors, ValidationError{
			Message:    fmt.Sprintf("YAML syntax error: %s", errMsg),
			DocSection: "configuration",
		})

	default:
		result.Errors = append(result.Errors, ValidationError{Message: errMsg})
	}
}

// Validate validates a loaded Config struct.
//
// This validates the configuration structure for valid values and
// logical consistency.
//
// Returns:
//   - *ValidationResult: validation result with any errors and warnings found
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}
	validateConfigStruct(c, result)
	return result
}

// validateConfigStruct validates the Config structure.
//
// This checks the conda variable name, progress tuning values, and env
// entries for validity.
//
// Parameters:
//   - cfg: the configuration to validate
//   - result: validation result to append errors and warnings to
func validateConfigStruct(cfg *Config, result *ValidationResult) {
	if cfg.Conda != nil && cfg.Conda.EnvVar != "" {
		verbose.Printf("Config validation: checking conda.env_var=%q", cfg.Conda.EnvVar)
		if !envVarNamePattern.MatchString(cfg.Conda.EnvVar) {
			result.Errors = append(result.Errors, ValidationError{
				Field:      "conda.env_var",
				Message:    fmt.Sprintf("invalid environment variable name '%s'", cfg.Conda.EnvVar),
				Expected:   "letters, digits, and underscores, not starting with a digit",
				DocSection: "conda",
			})
		}
	}

	if cfg.Progress != nil {
		verbose.Printf("Config validation: checking progress tuning")
		if cfg.Progress.PerPackageMS < 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:      "progress.per_package_ms",
				Message:    "estimate must not be negative",
				Expected:   "non-negative integer (milliseconds)",
				DocSection: "progress",
			})
		}
		if cfg.Progress.MinSeconds < 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:      "progress.min_seconds",
				Message:    "estimate floor must not be negative",
				Expected:   "non-negative integer (seconds)",
				DocSection: "progress",
			})
		}
	}

	if len(cfg.Env) > 0 {
		verbose.Printf("Config validation: checking %d env entries", len(cfg.Env))
	}
	for key := range cfg.Env {
		if !envVarNamePattern.MatchString(key) {
			result.Errors = append(result.Errors, ValidationError{
				Field:      "env",
				Message:    fmt.Sprintf("invalid environment variable name '%s'", key),
				Expected:   "letters, digits, and underscores, not starting with a digit",
				DocSection: "configuration",
			})
		}
	}

	for i, arg := range cfg.PipArgs {
		if strings.TrimSpace(arg) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:      fmt.Sprintf("pip_args[%d]", i),
				Message:    "pip argument cannot be empty",
				DocSection: "configuration",
			})
		}
	}
}

// extractFieldAndType extracts the field and type names from a YAML
// unknown-field error.
//
// Parameters:
//   - errMsg: YAML error message
//
// Returns:
//   - field: the unknown field name
//   - typeName: the enclosing config type name
func extractFieldAndType(errMsg string) (field, typeName string) {
	// Error format: "yaml: unmarshal errors:\n  line X: field foo not found in type config.Type"
	parts := strings.Split(errMsg, "field ")
	if len(parts) >= 2 {
		fieldPart := parts[1]
		spaceIdx := strings.Index(fieldPart, " ")
		if spaceIdx > 0 {
			field = fieldPart[:spaceIdx]
		} else {
			field = fieldPart
		}
	}

	if idx := strings.Index(errMsg, "in type config."); idx >= 0 {
		typePart := errMsg[idx+len("in type config."):]
		if endIdx := strings.IndexAny(typePart, " \n"); endIdx > 0 {
			typeName = typePart[:endIdx]
		} else {
			typeName = typePart
		}
	}

	return field, typeName
}

// extractLineNumber extracts the line number from a YAML error message.
//
// This uses regex to find "line X:" patterns in YAML error messages.
//
// Parameters:
//   - errMsg: YAML error message
//
// Returns:
//   - int: the line number, or 0 if not found
func extractLineNumber(errMsg string) int {
	re := regexp.MustCompile(`line (\d+):`)
	matches := re.FindStringSubmatch(errMsg)
	if len(matches) >= 2 {
		var lineNum int
		_, _ = fmt.Sscanf(matches[1], "%d", &lineNum)
		return lineNum
	}
	return 0
}

// extractExpectedType extracts the expected type from unmarshal errors.
//
// This parses "cannot unmarshal X into Y" error messages to extract
// the expected type Y.
//
// Parameters:
//   - errMsg: YAML unmarshal error message
//
// Returns:
//   - string: the expected type name, or empty string if not found
func extractExpectedType(errMsg string) string {
	if idx := strings.Index(errMsg, "into "); idx >= 0 {
		typePart := errMsg[idx+5:]
		if endIdx := strings.IndexAny(typePart, " \n"); endIdx > 0 {
			return typePart[:endIdx]
		}
		return typePart
	}
	return ""
}

// commonTypos maps common typos to correct field names
var commonTypos = map[string]map[string]string{
	"Config": {
		"interpreter": "python",
		"python_path": "python",
		"pythonPath":  "python",
		"pip_arg":     "pip_args",
		"pipArgs":     "pip_args",
		"environment": "env",
		"check":       "checks",
	},
	"CondaCfg": {
		"envvar":  "env_var",
		"envVar":  "env_var",
		"env-var": "env_var",
		"prefix":  "env_var",
	},
	"ProgressCfg": {
		"per_package":    "per_package_ms",
		"perPackageMs":   "per_package_ms",
		"per-package-ms": "per_package_ms",
		"minSeconds":     "min_seconds",
		"min-seconds":    "min_seconds",
		"minimum":        "min_seconds",
	},
	"UICfg": {
		"noTui":     "no_tui",
		"no-tui":    "no_tui",
		"no_curses": "no_tui",
	},
	"ChecksCfg": {
		"postUpgrade":  "post_upgrade",
		"post-upgrade": "post_upgrade",
		"pip_check":    "post_upgrade",
	},
}

// suggestSimilarField returns a suggested field name if the input looks like a typo.
//
// This checks common typos and naming convention differences (kebab-case vs snake_case)
// to suggest corrections for unknown fields.
//
// Parameters:
//   - field: the unknown field name
//   - typeName: the type name where the field was found
//
// Returns:
//   - string: suggested correct field name, or empty string if no suggestion
func suggestSimilarField(field, typeName string) string {
	if typos, ok := commonTypos[typeName]; ok {
		if suggestion, found := typos[field]; found {
			return suggestion
		}
	}

	if strings.Contains(field, "-") {
		snakeCase := strings.ReplaceAll(field, "-", "_")
		if schema, ok := configSchema[typeName]; ok {
			if strings.Contains(schema.fields, snakeCase) {
				return snakeCase
			}
		}
	}

	return ""
}
