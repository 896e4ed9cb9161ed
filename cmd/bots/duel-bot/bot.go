package main

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"quizduel/internal/network"
	"quizduel/internal/session/message"
)

type bot struct {
	name     string
	url      string
	tier     string
	accuracy float64
	think    time.Duration
	log      *zap.SugaredLogger

	writeMu sync.Mutex
	conn    *websocket.Conn
	connID  string
}

func (b *bot) run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return errors.Wrapf(err, "%s: dial %s", b.name, b.url)
	}
	b.conn = conn
	defer conn.Close()

	// derruba a leitura quando o contexto acaba
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	var answerOnce sync.Once

	for {
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return errors.Wrapf(ctx.Err(), "%s", b.name)
			}
			return errors.Wrapf(err, "%s: read", b.name)
		}

		switch msg.Type {
		case message.EventConnected:
			var hello message.ConnectedPayload
			if err := msg.Decode(&hello); err != nil {
				return errors.Wrap(err, "decode connected")
			}
			b.connID = hello.ConnectionID
			if err := b.send(message.CommandJoinPool, message.JoinPoolRequest{UserID: b.name, Tier: b.tier}); err != nil {
				return err
			}

		case message.EventPoolSizeUpdate:
			var size message.PoolSizePayload
			if err := msg.Decode(&size); err != nil {
				b.log.Warnw("Payload inválido", "type", msg.Type, "error", err)
				continue
			}
			b.log.Debugw("Fila", "tier", size.Tier, "count", size.Count)

		case message.EventMatchFound:
			var found message.MatchFoundPayload
			if err := msg.Decode(&found); err != nil {
				return errors.Wrap(err, "decode match-found")
			}
			b.log.Infow("Oponente encontrado", "roomID", found.RoomID, "opponent", found.OpponentUserID)
			answerOnce.Do(func() {
				go b.answerAll(ctx, found)
			})

		case message.EventOpponentAnswer:
			var note message.OpponentAnswerPayload
			if err := msg.Decode(&note); err != nil {
				b.log.Warnw("Payload inválido", "type", msg.Type, "error", err)
				continue
			}
			b.log.Debugw("Oponente respondeu", "question", note.QuestionIndex, "correct", note.IsCorrect, "score", note.OpponentScore)

		case message.EventDuelEnded:
			var ended message.DuelEndedPayload
			if err := msg.Decode(&ended); err != nil {
				return errors.Wrap(err, "decode duel-ended")
			}
			result := "derrota"
			switch ended.Winner {
			case message.Draw:
				result = "empate"
			case b.connID:
				result = "vitória"
			}
			b.log.Infow("Duelo encerrado", "result", result, "scores", ended.Scores)
			return nil

		case message.EventOpponentLeft:
			b.log.Infow("Oponente saiu do duelo")
			return nil

		case message.EventError:
			var e message.ErrorPayload
			if err := msg.Decode(&e); err != nil {
				b.log.Warnw("Payload inválido", "type", msg.Type, "error", err)
				continue
			}
			b.log.Warnw("Erro do servidor", "message", e.Message)
		}
	}
}

// answerAll responde todas as questões em ordem, com uma pausa aleatória entre elas.
func (b *bot) answerAll(ctx context.Context, found message.MatchFoundPayload) {
	for q := 0; q < found.QuestionCount; q++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(rand.Int63n(int64(b.think) + 1))):
		}

		err := b.send(message.CommandSubmitAnswer, message.SubmitAnswerRequest{
			RoomID:        found.RoomID,
			QuestionIndex: q,
			IsCorrect:     rand.Float64() < b.accuracy,
		})
		if err != nil {
			b.log.Debugw("Falha ao enviar resposta", "question", q, "error", err)
			return
		}
	}
}

func (b *bot) send(event string, payload any) error {
	msg, err := network.NewMessage(event, payload)
	if err != nil {
		return err
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	b.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return errors.Wrapf(b.conn.WriteJSON(msg), "%s: send %s", b.name, event)
}
