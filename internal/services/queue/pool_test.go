package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPool() *Pool {
	return NewPool(zap.NewNop().Sugar())
}

func waiter(id string) Waiter {
	return Waiter{ConnID: id, UserID: "user-" + id}
}

func connIDs(ws []Waiter) []string {
	ids := make([]string, 0, len(ws))
	for _, w := range ws {
		ids = append(ids, w.ConnID)
	}
	return ids
}

func TestEnqueueReturnsWaiting(t *testing.T) {
	p := newTestPool()

	waiting, ok := p.Enqueue(Novice, waiter("a"))
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, connIDs(waiting))

	waiting, ok = p.Enqueue(Novice, waiter("b"))
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, connIDs(waiting))
	assert.False(t, waiting[0].JoinedAt.IsZero())

	assert.Equal(t, 0, p.Len(Advanced))
}

func TestEnqueueDuplicateIsNoop(t *testing.T) {
	p := newTestPool()

	_, ok := p.Enqueue(Novice, waiter("a"))
	require.True(t, ok)

	_, ok = p.Enqueue(Novice, waiter("a"))
	assert.False(t, ok)

	// nem em outro tier
	_, ok = p.Enqueue(Advanced, waiter("a"))
	assert.False(t, ok)

	assert.Equal(t, 1, p.Len(Novice))
	assert.Equal(t, 0, p.Len(Advanced))
}

func TestDequeuePairFIFO(t *testing.T) {
	p := newTestPool()
	for _, id := range []string{"a", "b", "c"} {
		p.Enqueue(Intermediate, waiter(id))
	}

	a, b, waiting, ok := p.DequeuePair(Intermediate)
	require.True(t, ok)
	assert.Equal(t, "a", a.ConnID)
	assert.Equal(t, "b", b.ConnID)
	assert.Equal(t, []string{"c"}, connIDs(waiting))

	_, _, _, ok = p.DequeuePair(Intermediate)
	assert.False(t, ok)

	_, queued := p.Tier("a")
	assert.False(t, queued)
	tier, queued := p.Tier("c")
	assert.True(t, queued)
	assert.Equal(t, Intermediate, tier)
}

func TestDequeuePairKeepsTiersApart(t *testing.T) {
	p := newTestPool()
	p.Enqueue(Novice, waiter("a"))
	p.Enqueue(Advanced, waiter("b"))

	_, _, _, ok := p.DequeuePair(Novice)
	assert.False(t, ok)
	_, _, _, ok = p.DequeuePair(Advanced)
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	p := newTestPool()
	for _, id := range []string{"a", "b", "c"} {
		p.Enqueue(Advanced, waiter(id))
	}

	tier, waiting, ok := p.Remove("b")
	require.True(t, ok)
	assert.Equal(t, Advanced, tier)
	assert.Equal(t, []string{"a", "c"}, connIDs(waiting))
	assert.Equal(t, 2, p.Len(Advanced))

	_, _, ok = p.Remove("b")
	assert.False(t, ok)

	_, _, ok = p.Remove("nobody")
	assert.False(t, ok)
	assert.Equal(t, 2, p.Len(Advanced))

	// pode voltar para a fila depois de sair
	_, ok = p.Enqueue(Novice, waiter("b"))
	assert.True(t, ok)
}

func TestSnapshotsAreCopies(t *testing.T) {
	p := newTestPool()
	p.Enqueue(Novice, waiter("a"))
	waiting, _ := p.Enqueue(Novice, waiter("b"))

	p.Remove("a")
	assert.Equal(t, []string{"a", "b"}, connIDs(waiting))
	assert.Equal(t, []string{"b"}, connIDs(p.Waiting(Novice)))
}

func TestConcurrentEnqueuePairsEveryoneOnce(t *testing.T) {
	p := newTestPool()
	const players = 200

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		paired = make(map[string]int)
	)
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.Enqueue(Novice, waiter(fmt.Sprintf("c%d", i)))
			if a, b, _, ok := p.DequeuePair(Novice); ok {
				mu.Lock()
				paired[a.ConnID]++
				paired[b.ConnID]++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	for p.Len(Novice) >= 2 {
		a, b, _, _ := p.DequeuePair(Novice)
		paired[a.ConnID]++
		paired[b.ConnID]++
	}

	assert.Len(t, paired, players)
	for id, n := range paired {
		assert.Equal(t, 1, n, "connection %s paired more than once", id)
	}
}
