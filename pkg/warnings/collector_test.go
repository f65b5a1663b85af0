package warnings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCollectorWrite tests the Write method of Collector.
//
// It verifies:
//   - Non-empty lines are captured and trimmed
//   - Empty lines and whitespace-only lines are discarded
//   - Write always reports the full input length
func TestCollectorWrite(t *testing.T) {
	collector := NewCollector()

	n, err := collector.Write([]byte("  first warning  \n\nsecond warning\n   \n"))
	assert.NoError(t, err)
	assert.Equal(t, 38, n)

	messages := collector.Messages()
	assert.Equal(t, []string{"first warning", "second warning"}, messages)
}

// TestCollectorAsWarningSink tests installing a Collector via SetWarningWriter.
//
// It verifies:
//   - Warnf output flows into the collector
//   - The previous writer is restored afterwards
func TestCollectorAsWarningSink(t *testing.T) {
	collector := NewCollector()
	restore := SetWarningWriter(collector)
	Warnf("could not read INSTALLER for %s\n", "numpy")
	restore()

	messages := collector.Messages()
	assert.Len(t, messages, 1)
	assert.Contains(t, messages[0], "could not read INSTALLER for numpy")
}

// TestCollectorMessagesCopy tests that Messages returns a defensive copy.
func TestCollectorMessagesCopy(t *testing.T) {
	collector := NewCollector()
	_, _ = collector.Write([]byte("warning\n"))

	first := collector.Messages()
	first[0] = "mutated"

	assert.Equal(t, []string{"warning"}, collector.Messages())
}

// TestCollectorReset tests the Reset method of Collector.
func TestCollectorReset(t *testing.T) {
	collector := NewCollector()
	_, _ = collector.Write([]byte("warning one\nwarning two\n"))
	assert.Len(t, collector.Messages(), 2)

	collector.Reset()
	assert.Empty(t, collector.Messages())
}
