package queue

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Waiter é um jogador esperando pareamento.
type Waiter struct {
	ConnID   string
	UserID   string
	JoinedAt time.Time
}

// Pool guarda uma fila FIFO por tier. Uma conexão aparece no máximo uma vez,
// somando todas as filas.
//
// Toda mutação devolve a lista de quem ficou esperando no tier, tirada sob o
// mesmo lock, para o chamador avisar o novo tamanho da fila.
type Pool struct {
	mu     sync.Mutex
	queues map[Tier][]Waiter
	index  map[string]Tier
	now    func() time.Time
	log    *zap.SugaredLogger
}

func NewPool(log *zap.SugaredLogger) *Pool {
	return &Pool{
		queues: make(map[Tier][]Waiter),
		index:  make(map[string]Tier),
		now:    time.Now,
		log:    log,
	}
}

// Enqueue coloca o jogador no fim da fila do tier. Se a conexão já está em
// alguma fila nada muda e ok é false.
func (p *Pool) Enqueue(tier Tier, w Waiter) (waiting []Waiter, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if current, queued := p.index[w.ConnID]; queued {
		p.log.Debugw("Conexão já está na fila", "connID", w.ConnID, "tier", current)
		return nil, false
	}

	if w.JoinedAt.IsZero() {
		w.JoinedAt = p.now()
	}
	p.queues[tier] = append(p.queues[tier], w)
	p.index[w.ConnID] = tier

	p.log.Debugw("Jogador entrou na fila", "connID", w.ConnID, "userID", w.UserID, "tier", tier, "size", len(p.queues[tier]))
	return p.snapshot(tier), true
}

// DequeuePair retira os dois jogadores mais antigos do tier, se houver dois.
func (p *Pool) DequeuePair(tier Tier) (a, b Waiter, waiting []Waiter, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q := p.queues[tier]
	if len(q) < 2 {
		return Waiter{}, Waiter{}, nil, false
	}

	a, b = q[0], q[1]
	p.queues[tier] = q[2:]
	delete(p.index, a.ConnID)
	delete(p.index, b.ConnID)

	p.log.Debugw("Par formado", "tier", tier, "first", a.ConnID, "second", b.ConnID)
	return a, b, p.snapshot(tier), true
}

// Remove tira a conexão de qualquer fila em que ela esteja.
func (p *Pool) Remove(connID string) (tier Tier, waiting []Waiter, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tier, ok = p.index[connID]
	if !ok {
		return Novice, nil, false
	}
	delete(p.index, connID)

	q := p.queues[tier]
	for i, w := range q {
		if w.ConnID == connID {
			p.queues[tier] = append(q[:i:i], q[i+1:]...)
			break
		}
	}

	p.log.Debugw("Jogador saiu da fila", "connID", connID, "tier", tier, "size", len(p.queues[tier]))
	return tier, p.snapshot(tier), true
}

// Tier informa em qual fila a conexão está.
func (p *Pool) Tier(connID string) (Tier, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.index[connID]
	return t, ok
}

func (p *Pool) Len(tier Tier) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queues[tier])
}

// Waiting devolve uma cópia da fila do tier, na ordem de chegada.
func (p *Pool) Waiting(tier Tier) []Waiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot(tier)
}

// snapshot exige p.mu.
func (p *Pool) snapshot(tier Tier) []Waiter {
	q := p.queues[tier]
	out := make([]Waiter, len(q))
	copy(out, q)
	return out
}
