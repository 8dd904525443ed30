// Package classify maps classification keys to output files and walks the
// work queue of mesh paths.
package classify

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrWriteFailure is wrapped by Classify when the destination append fails.
// The queue does not advance, so the same mesh can be classified again.
var ErrWriteFailure = errors.New("classification write failed")

// Appender appends one path to a destination. Implementations must write the
// entry in full or not at all.
type Appender interface {
	Append(dest, path string) error
}

// Outcome describes what a Classify call did.
type Outcome int

const (
	// Ignored: key not bound, queue exhausted, or quit already requested.
	Ignored Outcome = iota
	// Recorded: path appended and queue advanced.
	Recorded
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Recorded:
		return "recorded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Bindings maps a classification key to its destination. Keys are compared
// case-insensitively.
type Bindings map[string]string

// NormalizeKey returns the canonical form of a key name.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Lookup returns the destination bound to key.
func (b Bindings) Lookup(key string) (string, bool) {
	dest, ok := b[NormalizeKey(key)]
	return dest, ok
}

// Normalize returns a copy with canonical keys.
func (b Bindings) Normalize() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[NormalizeKey(k)] = v
	}
	return out
}

// Dispatcher owns the work queue, the current index and the bindings.
// It is not safe for concurrent use; the frame loop is its only caller.
type Dispatcher struct {
	queue    []string
	index    int
	bindings Bindings
	appender Appender
	quit     bool
	tally    map[string]int
}

// NewDispatcher creates a dispatcher positioned at start.
// start is clamped to [0, len(queue)].
func NewDispatcher(queue []string, bindings Bindings, appender Appender, start int) *Dispatcher {
	q := make([]string, len(queue))
	copy(q, queue)

	start = max(0, min(start, len(q)))

	return &Dispatcher{
		queue:    q,
		index:    start,
		bindings: bindings.Normalize(),
		appender: appender,
		tally:    make(map[string]int),
	}
}

// CurrentPath returns the path awaiting classification. The boolean is false
// once the queue is exhausted.
func (d *Dispatcher) CurrentPath() (string, bool) {
	if d.index >= len(d.queue) {
		return "", false
	}
	return d.queue[d.index], true
}

// Index returns the current queue position.
func (d *Dispatcher) Index() int {
	return d.index
}

// Len returns the queue length.
func (d *Dispatcher) Len() int {
	return len(d.queue)
}

// Exhausted reports whether every path has been classified or skipped.
func (d *Dispatcher) Exhausted() bool {
	return d.index >= len(d.queue)
}

// Keys returns the bound keys in sorted order.
func (d *Dispatcher) Keys() []string {
	keys := make([]string, 0, len(d.bindings))
	for k := range d.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Destination returns the file bound to key.
func (d *Dispatcher) Destination(key string) (string, bool) {
	return d.bindings.Lookup(key)
}

// Classify records the current path under key's destination and advances.
func (d *Dispatcher) Classify(key string) (Outcome, error) {
	dest, ok := d.bindings.Lookup(key)
	if !ok || d.quit {
		return Ignored, nil
	}
	path, ok := d.CurrentPath()
	if !ok {
		return Ignored, nil
	}

	if err := d.appender.Append(dest, path); err != nil {
		return Ignored, fmt.Errorf("%w: %s -> %s: %w", ErrWriteFailure, path, dest, err)
	}

	d.tally[dest]++
	d.index++
	return Recorded, nil
}

// Skip advances past the current path without recording it.
// Returns false when there was nothing to skip.
func (d *Dispatcher) Skip() bool {
	if d.quit || d.Exhausted() {
		return false
	}
	d.index++
	return true
}

// Quit stops further queue mutation.
func (d *Dispatcher) Quit() {
	d.quit = true
}

// QuitRequested reports whether Quit was called.
func (d *Dispatcher) QuitRequested() bool {
	return d.quit
}

// Tally returns the number of paths recorded per destination this session.
func (d *Dispatcher) Tally() map[string]int {
	out := make(map[string]int, len(d.tally))
	for k, v := range d.tally {
		out[k] = v
	}
	return out
}
