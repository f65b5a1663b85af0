package warnings

import "strings"

// Collector captures warnings for deferred output.
//
// Implements io.Writer so it can be installed as the warning sink while an
// operation runs. Warnings are collected and can be printed later using
// Messages().
//
// Example:
//
//	collector := warnings.NewCollector()
//	restore := warnings.SetWarningWriter(collector)
//	defer restore()
//	// ... operations that may produce warnings ...
//	for _, msg := range collector.Messages() {
//		fmt.Println(msg)
//	}
type Collector struct {
	messages []string
}

// Write implements io.Writer for capturing warning messages.
//
// Splits input on newlines and stores non-empty trimmed lines.
//
// Parameters:
//   - p: Byte slice containing warning message data
//
// Returns:
//   - int: Number of bytes written (always len(p))
//   - error: Always nil, never returns an error
func (c *Collector) Write(p []byte) (int, error) {
	lines := strings.Split(string(p), "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			c.messages = append(c.messages, trimmed)
		}
	}
	return len(p), nil
}

// Messages returns a copy of all collected warning messages.
//
// Creates a defensive copy to prevent external modification of the internal slice.
//
// Returns:
//   - []string: Copy of all collected warning messages
func (c *Collector) Messages() []string {
	copied := make([]string, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// Reset clears all collected messages.
//
// Use this when you want to reuse the same collector for a new batch of warnings.
func (c *Collector) Reset() {
	c.messages = nil
}

// NewCollector creates a new Collector.
//
// Returns:
//   - *Collector: A new empty warning collector ready for use
func NewCollector() *Collector {
	return &Collector{}
}
