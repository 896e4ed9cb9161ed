package gameroom

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"quizduel/internal/session/message"
)

type Status int

const (
	StatusPlaying Status = iota
	StatusEnded
)

func (s Status) String() string {
	if s == StatusEnded {
		return "ended"
	}
	return "playing"
}

// Player identifica um lado do duelo.
type Player struct {
	ConnID string
	UserID string
}

// Broadcaster é o que a sala precisa da camada de rede. Os grupos têm o
// mesmo nome do ID da sala.
type Broadcaster interface {
	Emit(connID string, event string, payload any)
	EmitGroup(group string, event string, payload any)
	JoinGroup(group string, connIDs ...string)
	DropGroup(group string)
}

// Settings são as regras aplicadas a cada sala criada.
type Settings struct {
	QuestionCount int
	SyncInterval  time.Duration
	GraceDelay    time.Duration
}

// Room é um duelo entre dois jogadores.
//
// Todo o estado mutável fica sob mu: respostas, o tick de sincronização e o
// encerramento disputam o mesmo lock. Depois de close() a sala não emite mais nada.
type Room struct {
	ID        string
	CreatedAt time.Time

	players  [2]Player
	settings Settings
	out      Broadcaster
	log      *zap.SugaredLogger
	now      func() time.Time

	mu              sync.Mutex
	status          Status
	closed          bool
	scores          map[string]int
	progress        map[string]int
	finished        map[string]bool
	currentQuestion int
	outcome         *Outcome
	sweep           *time.Timer

	stopSync chan struct{}
	stopOnce sync.Once
}

func newRoom(id string, a, b Player, settings Settings, out Broadcaster, log *zap.SugaredLogger) *Room {
	r := &Room{
		ID:       id,
		players:  [2]Player{a, b},
		settings: settings,
		out:      out,
		log:      log.With("roomID", id),
		now:      time.Now,
		status:   StatusPlaying,
		scores:   make(map[string]int, 2),
		progress: make(map[string]int, 2),
		finished: make(map[string]bool, 2),
		stopSync: make(chan struct{}),
	}
	r.CreatedAt = r.now()
	for _, p := range r.players {
		r.scores[p.ConnID] = 0
		r.progress[p.ConnID] = 0
		r.finished[p.ConnID] = false
	}
	return r
}

// Players devolve os dois jogadores na ordem do pareamento.
func (r *Room) Players() [2]Player {
	return r.players
}

// Opponent devolve o outro lado do duelo. ok é false se connID não está na sala.
func (r *Room) Opponent(connID string) (Player, bool) {
	switch connID {
	case r.players[0].ConnID:
		return r.players[1], true
	case r.players[1].ConnID:
		return r.players[0], true
	}
	return Player{}, false
}

func (r *Room) Seated(connID string) bool {
	_, ok := r.Opponent(connID)
	return ok
}

func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// State é uma cópia do estado da sala.
type State struct {
	Status          Status
	Scores          map[string]int
	Progress        map[string]int
	Finished        map[string]bool
	CurrentQuestion int
	Outcome         *Outcome
}

func (r *Room) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := State{
		Status:          r.status,
		Scores:          copyInts(r.scores),
		Progress:        copyInts(r.progress),
		Finished:        copyBools(r.finished),
		CurrentQuestion: r.currentQuestion,
	}
	if r.outcome != nil {
		o := *r.outcome
		o.Scores = copyInts(o.Scores)
		s.Outcome = &o
	}
	return s
}

// ============================================================================
// Sincronização periódica
// ============================================================================

func (r *Room) startSync() {
	go r.syncLoop()
}

func (r *Room) syncLoop() {
	ticker := time.NewTicker(r.settings.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopSync:
			return
		case <-ticker.C:
			if !r.syncTick() {
				return
			}
		}
	}
}

// syncTick envia o estado para a sala. Devolve false quando a sala não está
// mais em jogo, e o loop se encerra sozinho.
func (r *Room) syncTick() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.status != StatusPlaying {
		r.haltSync()
		return false
	}
	r.out.EmitGroup(r.ID, message.EventStateSync, message.StateSyncPayload{
		Scores:   copyInts(r.scores),
		Progress: copyInts(r.progress),
		Finished: copyBools(r.finished),
	})
	return true
}

// haltSync pode ser chamado quantas vezes for preciso.
func (r *Room) haltSync() {
	r.stopOnce.Do(func() { close(r.stopSync) })
}

// ============================================================================
// Encerramento
// ============================================================================

// scheduleSweep agenda fn para depois de delay. Só vale uma vez e nunca para
// uma sala já fechada.
func (r *Room) scheduleSweep(delay time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.sweep != nil {
		return
	}
	r.sweep = time.AfterFunc(delay, fn)
}

// close para o tick e o sweep pendente. Chamado pelo RoomManager ao remover a sala.
func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.haltSync()
	if r.sweep != nil {
		r.sweep.Stop()
	}
}

func copyInts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyBools(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
