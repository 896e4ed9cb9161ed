package session

import (
	"quizduel/internal/services/audit"
	"quizduel/internal/services/gameroom"
	"quizduel/internal/services/queue"
	"quizduel/internal/session/message"
)

// notifyPool avisa o novo tamanho da fila para quem ainda espera nela.
func (co *Coordinator) notifyPool(tier queue.Tier, waiting []queue.Waiter) {
	payload := message.PoolSizePayload{Tier: tier.String(), Count: len(waiting)}
	for _, w := range waiting {
		co.out.Emit(w.ConnID, message.EventPoolSizeUpdate, payload)
	}
}

func (co *Coordinator) publish(e audit.Event) {
	if e.At.IsZero() {
		e.At = co.now().UTC()
	}
	if err := co.audit.Publish(e); err != nil {
		co.log.Warnw("Falha ao publicar evento de duelo", "kind", e.Kind, "roomID", e.RoomID, "error", err)
	}
}

func participants(room *gameroom.Room) []audit.Participant {
	players := room.Players()
	out := make([]audit.Participant, 0, len(players))
	for _, p := range players {
		out = append(out, audit.Participant{ConnID: p.ConnID, UserID: p.UserID})
	}
	return out
}
