// Package progress animates a progress bar while the outdated-package
// query runs in the background. The bar is driven by a wall-clock
// estimate and is purely cosmetic: completion is only ever signalled by
// the worker goroutine closing its done channel. Terminals that cannot
// animate get a single plain status line instead.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/ajxudir/pipselect/pkg/verbose"
)

const (
	// barWidth is the rendered width of the bar.
	barWidth = 30

	// frameInterval redraws the bar 20 times per second.
	frameInterval = 50 * time.Millisecond

	// completionHold keeps the full bar visible briefly before clearing.
	completionHold = 100 * time.Millisecond

	// defaultPerItem is the fallback estimate per package.
	defaultPerItem = 100 * time.Millisecond

	// defaultMinDuration is the fallback estimate floor.
	defaultMinDuration = 3 * time.Second
)

// isTerminalFunc is swapped in tests.
var isTerminalFunc = term.IsTerminal

// Options configures the progress animation.
type Options struct {
	// ItemCount is the number of packages being checked; it drives the
	// time estimate and the status line.
	ItemCount int

	// PerItem is the estimated check time per package.
	PerItem time.Duration

	// MinDuration floors the total estimate.
	MinDuration time.Duration

	// Plain disables the animation and prints a single status line.
	Plain bool
}

// tickMsg redraws the bar.
type tickMsg time.Time

// doneMsg reports that the background work finished.
type doneMsg struct{}

// clearMsg ends the completion hold.
type clearMsg struct{}

// Run executes work on a background goroutine while animating a
// progress bar on the primary goroutine.
//
// It performs the following operations:
//   - Step 1: Falls back to a plain synchronous status line when the
//     animation is disabled or stdout is not a terminal
//   - Step 2: Starts work on a goroutine that closes a done channel
//     after storing its result
//   - Step 3: Renders the bar until the done channel is observed, snaps
//     it to 100%, holds briefly, and clears the line
//   - Step 4: Joins the worker before returning, so the result is never
//     read while it may still be written
//
// The work function runs to completion in all cases; the query is not
// cancellable once started.
//
// Parameters:
//   - opts: animation tuning and the package count
//   - work: the blocking call to run in the background
//
// Returns:
//   - error: the error returned by work
func Run(opts Options, work func() error) error {
	if opts.Plain || !stdoutIsTerminal() {
		fmt.Printf("Checking %d packages...\n", opts.ItemCount)
		return work()
	}

	var workErr error
	done := make(chan struct{})
	go func() {
		workErr = work()
		close(done)
	}()

	m := newModel(opts.ItemCount, estimate(opts), done)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		// The animation is decorative; a broken terminal must not lose
		// the query result.
		verbose.Printf("Progress animation failed: %v", err)
	}

	<-done
	return workErr
}

// estimate computes the cosmetic total duration for the bar.
//
// Parameters:
//   - opts: animation tuning and the package count
//
// Returns:
//   - time.Duration: per-item estimate times item count, floored at the
//     minimum duration
func estimate(opts Options) time.Duration {
	perItem := opts.PerItem
	if perItem <= 0 {
		perItem = defaultPerItem
	}
	minDuration := opts.MinDuration
	if minDuration <= 0 {
		minDuration = defaultMinDuration
	}

	total := time.Duration(opts.ItemCount) * perItem
	if total < minDuration {
		total = minDuration
	}
	return total
}

// stdoutIsTerminal reports whether stdout can host the animation.
func stdoutIsTerminal() bool {
	return isTerminalFunc(int(os.Stdout.Fd()))
}

// model renders the estimate-driven bar until done is observed.
type model struct {
	bar      progress.Model
	count    int
	total    time.Duration
	start    time.Time
	done     <-chan struct{}
	finished bool
	cleared  bool
}

// newModel creates a progress model for the given package count.
//
// Parameters:
//   - count: number of packages being checked
//   - total: cosmetic total duration for the bar
//   - done: channel closed when the background work completes
//
// Returns:
//   - model: the initialized model
func newModel(count int, total time.Duration, done <-chan struct{}) model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = barWidth

	return model{
		bar:   bar,
		count: count,
		total: total,
		start: time.Now(),
		done:  done,
	}
}

// Init starts the redraw ticker and the done watcher.
func (m model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForDone(m.done))
}

// Update handles animation frames and the completion signal.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if m.finished {
			return m, nil
		}
		return m, tick()

	case doneMsg:
		m.finished = true
		return m, tea.Tick(completionHold, func(time.Time) tea.Msg {
			return clearMsg{}
		})

	case clearMsg:
		m.cleared = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the status line with the estimate-driven bar.
func (m model) View() string {
	if m.cleared {
		return ""
	}

	percent := 1.0
	if !m.finished {
		percent = float64(time.Since(m.start)) / float64(m.total)
		if percent > 1.0 {
			percent = 1.0
		}
	}

	return fmt.Sprintf("Checking %d packages %s", m.count, m.bar.ViewAs(percent))
}

// tick schedules the next animation frame.
func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForDone blocks until the worker closes the done channel.
func waitForDone(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}
