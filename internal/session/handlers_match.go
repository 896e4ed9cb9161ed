package session

import (
	"github.com/pkg/errors"

	"quizduel/internal/network"
	"quizduel/internal/services/audit"
	"quizduel/internal/services/gameroom"
	"quizduel/internal/session/message"
)

func (co *Coordinator) registerMatchHandlers() {
	co.router[message.CommandSubmitAnswer] = handleSubmitAnswer
	co.router[message.CommandLeaveRoom] = handleLeaveRoom
}

func handleSubmitAnswer(co *Coordinator, connID string, msg network.Message) {
	var req message.SubmitAnswerRequest
	if err := msg.Decode(&req); err != nil {
		message.SendError(co.out, connID, "invalid %s payload", msg.Type)
		return
	}
	co.SubmitAnswer(connID, req.RoomID, req.QuestionIndex, req.IsCorrect)
}

func handleLeaveRoom(co *Coordinator, connID string, msg network.Message) {
	var req message.LeaveRoomRequest
	if err := msg.Decode(&req); err != nil {
		message.SendError(co.out, connID, "invalid %s payload", msg.Type)
		return
	}
	co.LeaveRoom(connID, req.RoomID)
}

// SubmitAnswer repassa a resposta para a sala. Sala desconhecida ou conexão
// de fora da sala são ignoradas em silêncio.
func (co *Coordinator) SubmitAnswer(connID, roomID string, questionIndex int, isCorrect bool) {
	room, ok := co.rooms.GetRoom(roomID)
	if !ok {
		co.log.Debugw("Resposta para sala desconhecida", "connID", connID, "roomID", roomID)
		return
	}

	ans, err := co.rooms.SubmitAnswer(roomID, connID, questionIndex, isCorrect)
	if err != nil {
		if errors.Is(err, gameroom.ErrRoomNotFound) || errors.Is(err, gameroom.ErrNotSeated) {
			co.log.Debugw("Resposta ignorada", "connID", connID, "roomID", roomID, "reason", err)
			return
		}
		co.log.Errorw("Falha ao registrar resposta", "connID", connID, "roomID", roomID, "error", err)
		return
	}

	if ans.Ended {
		co.publish(audit.Event{
			Kind:    audit.KindEnded,
			RoomID:  roomID,
			Players: participants(room),
			Winner:  ans.Outcome.WinnerLabel(),
			Scores:  ans.Outcome.Scores,
		})
	}
}

// LeaveRoom encerra a sala na hora e avisa o oponente.
func (co *Coordinator) LeaveRoom(connID, roomID string) {
	room, ok := co.rooms.GetRoom(roomID)
	if !ok || !room.Seated(connID) {
		co.log.Debugw("Pedido de saída ignorado", "connID", connID, "roomID", roomID)
		return
	}
	co.abandon(room, connID, audit.ReasonLeft)
}

// Disconnect limpa tudo o que a conexão tinha: lugar na fila e sala.
func (co *Coordinator) Disconnect(connID string) {
	co.CancelMatch(connID)

	if room, ok := co.rooms.RoomOf(connID); ok {
		co.abandon(room, connID, audit.ReasonDisconnected)
	}
}

func (co *Coordinator) abandon(room *gameroom.Room, connID, reason string) {
	opponent, _ := room.Opponent(connID)
	playing := room.Status() == gameroom.StatusPlaying
	// o oponente de uma sala encerrada pode já estar em outro duelo
	current, stillSeated := co.rooms.RoomOf(opponent.ConnID)

	if !co.rooms.DestroyRoom(room.ID) {
		return
	}
	if stillSeated && current.ID == room.ID {
		co.out.Emit(opponent.ConnID, message.EventOpponentLeft, message.OpponentLeftPayload{})
	}

	co.log.Infow("Sala abandonada", "roomID", room.ID, "connID", connID, "reason", reason)
	if playing {
		co.publish(audit.Event{
			Kind:    audit.KindAbandoned,
			RoomID:  room.ID,
			Players: participants(room),
			Reason:  reason,
		})
	}
}
