package state

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity id categories
const (
	CategoryPlayer  = "player"
	CategoryEnemy   = "enemy"
	CategoryBullet  = "bullet"
	CategoryPowerup = "powerup"
)

// IDGenerator issues <category>_<ulid> ids
// Monotonic entropy keeps ids generated in the same millisecond ordered and distinct
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewIDGenerator seeds the entropy source from the wall clock
func NewIDGenerator() *IDGenerator {
	return NewSeededIDGenerator(time.Now().UnixNano(), time.Now)
}

// NewSeededIDGenerator builds a reproducible generator for tests
func NewSeededIDGenerator(seed int64, now func() time.Time) *IDGenerator {
	return &IDGenerator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		now:     now,
	}
}

// Next returns a fresh id for category
func (g *IDGenerator) Next(category string) string {
	g.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	g.mu.Unlock()
	return category + "_" + strings.ToLower(id.String())
}

// Category returns the prefix of an id
func Category(id string) string {
	if i := strings.IndexByte(id, '_'); i > 0 {
		return id[:i]
	}
	return ""
}
