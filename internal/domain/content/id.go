package content

import (
	"fmt"
	"sync"
	"time"
)

// IDGenerator issues "<kind>_<unix-millis>" ids. It never returns the same millisecond twice,
// so two items created within one millisecond still get distinct ids.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next(c Collection) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s_%d", c.Kind(), ms)
}
