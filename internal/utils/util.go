// Package utils holds small helpers shared by the highlighter and the viewer.
package utils

import (
	"sync"
	"time"
	"unicode/utf8"
)

// RuneTable maps byte offsets of one string to rune indices. A nil table
// means the string is ASCII and byte offsets already are rune indices.
type RuneTable []int

// NewRuneTable builds the table for s. Offsets inside a multi-byte rune map
// to the rune that contains them.
func NewRuneTable(s string) RuneTable {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return nil
	}
	table := make(RuneTable, len(s)+1)
	r := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		for k := 0; k < size; k++ {
			table[i+k] = r
		}
		i += size
		r++
	}
	table[len(s)] = r
	return table
}

// RuneIndex converts a byte offset to a rune index. Offsets past the end map
// to the rune count.
func (t RuneTable) RuneIndex(byteOffset int) int {
	if t == nil {
		return byteOffset
	}
	if byteOffset < 0 {
		return 0
	}
	if byteOffset >= len(t) {
		return t[len(t)-1]
	}
	return t[byteOffset]
}

// Debouncer provides a way to debounce function calls
type Debouncer struct {
	mutex      sync.Mutex
	timer      *time.Timer
	lastCalled time.Time
}

// Debounce calls the provided function after the specified duration,
// canceling any previous pending calls
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	// Cancel existing timer if present
	if d.timer != nil {
		d.timer.Stop()
	}

	// Schedule new timer
	d.timer = time.AfterFunc(duration, func() {
		d.mutex.Lock()
		d.lastCalled = time.Now()
		d.timer = nil
		d.mutex.Unlock()
		fn()
	})
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// LastCalled returns when the debounced function last ran.
func (d *Debouncer) LastCalled() time.Time {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.lastCalled
}
