package identifier

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceGenerator_StartsAfterSeed(t *testing.T) {
	seed := time.UnixMilli(1_700_000_000_000)
	g := NewSequenceGenerator(seed)

	assert.Equal(t, "1700000000001", g.Next())
	assert.Equal(t, "1700000000002", g.Next())
}

func TestSequenceGenerator_StrictlyIncreasing(t *testing.T) {
	g := NewSequenceGenerator(time.Now())

	prev, err := strconv.ParseInt(g.Next(), 10, 64)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		next, err := strconv.ParseInt(g.Next(), 10, 64)
		require.NoError(t, err)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestSequenceGenerator_ConcurrentCallsNeverCollide(t *testing.T) {
	g := NewSequenceGenerator(time.Now())

	const workers, perWorker = 8, 500
	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, g.Next())
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestUUIDGenerator(t *testing.T) {
	g := NewUUIDGenerator()

	id := g.Next()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, g.Next())
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		wantErr  bool
		wantType Generator
	}{
		{name: "default", strategy: "", wantType: &SequenceGenerator{}},
		{name: "sequence", strategy: StrategySequence, wantType: &SequenceGenerator{}},
		{name: "uuid", strategy: StrategyUUID, wantType: UUIDGenerator{}},
		{name: "unknown", strategy: "random6", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.strategy, time.Now())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, g)
		})
	}
}
