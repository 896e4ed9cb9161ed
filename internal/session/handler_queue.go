package session

import (
	"quizduel/internal/network"
	"quizduel/internal/services/audit"
	"quizduel/internal/services/gameroom"
	"quizduel/internal/services/queue"
	"quizduel/internal/session/message"
)

func (co *Coordinator) registerQueueHandlers() {
	co.router[message.CommandJoinPool] = handleJoinPool
	co.router[message.CommandCancelMatch] = handleCancelMatch
}

func handleJoinPool(co *Coordinator, connID string, msg network.Message) {
	var req message.JoinPoolRequest
	if err := msg.Decode(&req); err != nil {
		message.SendError(co.out, connID, "invalid %s payload", msg.Type)
		return
	}
	co.JoinPool(connID, req.UserID, queue.ParseTier(req.Tier))
}

func handleCancelMatch(co *Coordinator, connID string, _ network.Message) {
	co.CancelMatch(connID)
}

// JoinPool coloca a conexão na fila do tier e tenta formar um par.
// Quem está em um duelo em andamento ou já está na fila é ignorado. Depois do
// duelo-ended o jogador pode voltar para a fila sem esperar a carência.
func (co *Coordinator) JoinPool(connID, userID string, tier queue.Tier) {
	if room, seated := co.rooms.ActiveRoomOf(connID); seated {
		co.log.Debugw("Conexão em sala pediu fila, ignorando", "connID", connID, "roomID", room.ID)
		return
	}

	waiting, ok := co.pool.Enqueue(tier, queue.Waiter{ConnID: connID, UserID: userID})
	if !ok {
		return
	}
	co.notifyPool(tier, waiting)
	co.tryMatch(tier)
}

// CancelMatch tira a conexão da fila. Sem efeito se ela não estava lá.
func (co *Coordinator) CancelMatch(connID string) {
	if tier, waiting, ok := co.pool.Remove(connID); ok {
		co.notifyPool(tier, waiting)
	}
}

func (co *Coordinator) tryMatch(tier queue.Tier) {
	a, b, waiting, ok := co.pool.DequeuePair(tier)
	if !ok {
		return
	}
	co.notifyPool(tier, waiting)

	first := gameroom.Player{ConnID: a.ConnID, UserID: a.UserID}
	second := gameroom.Player{ConnID: b.ConnID, UserID: b.UserID}

	room, err := co.rooms.CreateRoom(first, second)
	if err != nil {
		co.log.Errorw("Falha ao criar sala", "tier", tier, "players", []string{a.ConnID, b.ConnID}, "error", err)
		message.SendError(co.out, a.ConnID, "could not start duel")
		message.SendError(co.out, b.ConnID, "could not start duel")
		return
	}

	co.out.Emit(first.ConnID, message.EventMatchFound, message.MatchFoundPayload{
		RoomID:         room.ID,
		OpponentUserID: second.UserID,
		QuestionCount:  co.questionCount,
	})
	co.out.Emit(second.ConnID, message.EventMatchFound, message.MatchFoundPayload{
		RoomID:         room.ID,
		OpponentUserID: first.UserID,
		QuestionCount:  co.questionCount,
	})

	co.log.Infow("Duelo iniciado", "roomID", room.ID, "tier", tier, "users", []string{first.UserID, second.UserID})
	co.publish(audit.Event{
		Kind:    audit.KindMatched,
		RoomID:  room.ID,
		Players: participants(room),
		Tier:    tier.String(),
	})
}
