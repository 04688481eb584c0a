// Package memory holds map-backed repository implementations. They mirror
// the Postgres semantics closely enough to drive the service and handler
// tests without a database.
package memory

import (
	"errors"
	"fmt"
	"sync"
)

var errNotFound = errors.New("not found")

type ids struct {
	mu   sync.Mutex
	next int
}

func (g *ids) new(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	// Zero-padded so that lexicographic order matches insertion order and
	// the last 8 characters stay unique (the CSV export slices them).
	return fmt.Sprintf("%s-%08d", prefix, g.next)
}
