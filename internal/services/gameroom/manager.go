package gameroom

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoomManager é o dono de todas as salas ativas e do índice conexão -> sala.
//
// Ordem de locks: RoomManager.mu antes de Room.mu. A sala nunca chama o
// manager segurando o próprio lock.
type RoomManager struct {
	mu    sync.Mutex
	rooms map[string]*Room
	seats map[string]string

	settings Settings
	out      Broadcaster
	newID    func() string
	log      *zap.SugaredLogger
}

type Option func(*RoomManager)

// WithIDGenerator troca o gerador de IDs de sala. Usado nos testes.
func WithIDGenerator(gen func() string) Option {
	return func(rm *RoomManager) { rm.newID = gen }
}

func NewRoomManager(settings Settings, out Broadcaster, log *zap.SugaredLogger, opts ...Option) *RoomManager {
	rm := &RoomManager{
		rooms:    make(map[string]*Room),
		seats:    make(map[string]string),
		settings: settings,
		out:      out,
		newID:    newRoomID,
		log:      log,
	}
	for _, opt := range opts {
		opt(rm)
	}
	return rm
}

// newRoomID usa UUIDv7: timestamp em milissegundos mais sequência monotônica,
// então duas salas criadas no mesmo instante recebem IDs distintos.
func newRoomID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// CreateRoom abre uma sala em jogo para os dois jogadores, coloca ambos no
// grupo de broadcast da sala e inicia a sincronização periódica.
func (rm *RoomManager) CreateRoom(a, b Player) (*Room, error) {
	if a.ConnID == b.ConnID {
		return nil, ErrSamePlayer
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	for _, p := range []Player{a, b} {
		if room, seated := rm.activeSeatLocked(p.ConnID); seated {
			rm.log.Warnw("Conexão já está em uma sala", "connID", p.ConnID, "roomID", room.ID)
			return nil, ErrAlreadySeated
		}
	}

	id := rm.newID()
	if _, taken := rm.rooms[id]; taken {
		return nil, ErrIDCollision
	}

	room := newRoom(id, a, b, rm.settings, rm.out, rm.log)
	rm.rooms[id] = room
	rm.seats[a.ConnID] = id
	rm.seats[b.ConnID] = id

	rm.out.JoinGroup(id, a.ConnID, b.ConnID)
	room.startSync()

	rm.log.Infow("Sala criada", "roomID", id, "players", []string{a.ConnID, b.ConnID}, "rooms", len(rm.rooms))
	return room, nil
}

func (rm *RoomManager) GetRoom(id string) (*Room, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	room, ok := rm.rooms[id]
	return room, ok
}

// RoomOf devolve a sala em que a conexão está sentada, em jogo ou encerrada.
func (rm *RoomManager) RoomOf(connID string) (*Room, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	id, ok := rm.seats[connID]
	if !ok {
		return nil, false
	}
	room, ok := rm.rooms[id]
	return room, ok
}

// ActiveRoomOf é o RoomOf restrito a salas em jogo. Uma sala encerrada só
// espera o sweep e não prende mais os jogadores.
func (rm *RoomManager) ActiveRoomOf(connID string) (*Room, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.activeSeatLocked(connID)
}

func (rm *RoomManager) activeSeatLocked(connID string) (*Room, bool) {
	id, ok := rm.seats[connID]
	if !ok {
		return nil, false
	}
	room, ok := rm.rooms[id]
	if !ok || room.Status() != StatusPlaying {
		return nil, false
	}
	return room, true
}

// DestroyRoom remove a sala, para o tick e o sweep pendente e desfaz o grupo.
// Destruir uma sala que não existe não faz nada.
func (rm *RoomManager) DestroyRoom(id string) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.rooms[id]
	if !ok {
		return false
	}
	// fecha antes de tirar do mapa: um tick que pegue o lock da sala depois
	// disso já encontra closed
	room.close()

	delete(rm.rooms, id)
	for _, p := range room.players {
		if rm.seats[p.ConnID] == id {
			delete(rm.seats, p.ConnID)
		}
	}
	rm.out.DropGroup(id)

	rm.log.Infow("Sala destruída", "roomID", id, "rooms", len(rm.rooms))
	return true
}

// SubmitAnswer encaminha a resposta para a sala. Quando ela encerra o duelo,
// a sala é agendada para remoção depois do período de carência.
func (rm *RoomManager) SubmitAnswer(roomID, connID string, questionIndex int, isCorrect bool) (Answer, error) {
	room, ok := rm.GetRoom(roomID)
	if !ok {
		return Answer{}, ErrRoomNotFound
	}

	ans, err := room.SubmitAnswer(connID, questionIndex, isCorrect)
	if err != nil {
		return ans, err
	}
	if ans.Ended {
		room.scheduleSweep(rm.settings.GraceDelay, func() {
			if rm.DestroyRoom(roomID) {
				rm.log.Debugw("Sala encerrada removida após carência", "roomID", roomID)
			}
		})
	}
	return ans, nil
}

func (rm *RoomManager) Len() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.rooms)
}

// Close destrói todas as salas. Usado no desligamento do processo.
func (rm *RoomManager) Close() {
	rm.mu.Lock()
	ids := make([]string, 0, len(rm.rooms))
	for id := range rm.rooms {
		ids = append(ids, id)
	}
	rm.mu.Unlock()

	for _, id := range ids {
		rm.DestroyRoom(id)
	}
}
