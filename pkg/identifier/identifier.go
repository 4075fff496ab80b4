// Package identifier decides how new and imported records receive their key.
//
// The canonical policy is a process-local sequence seeded from the wall clock,
// which never repeats within a session. A UUID policy is available for
// deployments that want globally unique keys at the cost of readability.
package identifier

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	StrategySequence = "sequence"
	StrategyUUID     = "uuid"
)

// Generator hands out record ids. Implementations are safe for concurrent use.
type Generator interface {
	Next() string
}

// SequenceGenerator returns strictly increasing decimal ids starting just
// after the millisecond timestamp it was seeded with.
type SequenceGenerator struct {
	counter atomic.Int64
}

func NewSequenceGenerator(seed time.Time) *SequenceGenerator {
	g := &SequenceGenerator{}
	g.counter.Store(seed.UnixMilli())
	return g
}

func (g *SequenceGenerator) Next() string {
	return strconv.FormatInt(g.counter.Add(1), 10)
}

// UUIDGenerator returns random v4 UUID strings.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) Next() string {
	return uuid.NewString()
}

// New builds the generator named by strategy. An empty strategy selects the
// sequence generator.
func New(strategy string, now time.Time) (Generator, error) {
	switch strategy {
	case "", StrategySequence:
		return NewSequenceGenerator(now), nil
	case StrategyUUID:
		return NewUUIDGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
