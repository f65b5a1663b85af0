package outdated

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// UTF-8 BOM bytes (EF BB BF)
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// stripBOM removes UTF-8 BOM from the beginning of output if present.
//
// The UTF-8 BOM (Byte Order Mark) is a sequence of bytes (EF BB BF) that some
// tools add to the beginning of text output. This function detects and removes it.
//
// Parameters:
//   - output: Raw bytes that may start with a UTF-8 BOM
//
// Returns:
//   - []byte: The output with BOM removed if present, or unchanged output otherwise
func stripBOM(output []byte) []byte {
	if bytes.HasPrefix(output, utf8BOM) {
		return output[len(utf8BOM):]
	}
	return output
}

// ParseCandidates parses `pip list --outdated --format=json` output.
//
// It performs the following operations:
//   - Strips a UTF-8 BOM and surrounding whitespace
//   - Decodes the payload and requires a top-level array
//   - Extracts name, version, and latest_version per record
//   - Drops records missing or blanking any of the three fields
//
// The parser is deliberately lenient: empty input, undecodable JSON, and
// payloads that are not arrays all yield an empty candidate list rather
// than an error. One malformed record never discards its neighbors.
//
// Parameters:
//   - output: Raw stdout bytes from the pip query
//
// Returns:
//   - []Candidate: Complete records in payload order
func ParseCandidates(output []byte) []Candidate {
	var candidates []Candidate

	trimmed := bytes.TrimSpace(stripBOM(output))
	if len(trimmed) == 0 {
		return candidates
	}

	var payload any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return candidates
	}

	items, ok := payload.([]any)
	if !ok {
		return candidates
	}

	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := recordField(record, "name")
		current := recordField(record, "version")
		latest := recordField(record, "latest_version")
		if name == "" || current == "" || latest == "" {
			continue
		}

		candidates = append(candidates, Candidate{Name: name, Current: current, Latest: latest})
	}

	return candidates
}

// recordField reads one field from a decoded record as a trimmed string.
// Non-string values are rendered via fmt.Sprint so numeric versions still
// parse; missing or null fields yield an empty string.
func recordField(record map[string]any, key string) string {
	value, ok := record[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
