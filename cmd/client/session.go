package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"quizduel/internal/network"
	"quizduel/internal/session/message"
)

// session guarda o estado local do terminal: em qual sala estamos e o ping em curso.
type session struct {
	conn *websocket.Conn

	// mu serializa escritas na conexão e protege os campos abaixo.
	mu        sync.Mutex
	connID    string
	roomID    string
	pingStart time.Time
}

func newSession(conn *websocket.Conn) *session {
	s := &session{conn: conn}
	conn.SetPongHandler(func(string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.pingStart.IsZero() {
			fmt.Printf("Latência: %v\n", time.Since(s.pingStart).Round(time.Microsecond))
			s.pingStart = time.Time{}
		}
		return nil
	})
	return s
}

func (s *session) readLoop(done chan struct{}) {
	defer close(done)
	for {
		var msg network.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			return
		}
		s.render(msg)
	}
}

func (s *session) render(msg network.Message) {
	switch msg.Type {
	case message.EventConnected:
		var p message.ConnectedPayload
		if err := msg.Decode(&p); err != nil {
			fmt.Println("Mensagem inválida do servidor:", err)
			return
		}
		s.mu.Lock()
		s.connID = p.ConnectionID
		s.mu.Unlock()
		fmt.Printf("Conectado como %s. Tiers: %s. Questões por duelo: %d\n", p.ConnectionID, strings.Join(p.Tiers, ", "), p.QuestionCount)

	case message.EventPoolSizeUpdate:
		var p message.PoolSizePayload
		if err := msg.Decode(&p); err != nil {
			fmt.Println("Mensagem inválida do servidor:", err)
			return
		}
		fmt.Printf("Fila %s: %d jogador(es)\n", p.Tier, p.Count)

	case message.EventMatchFound:
		var p message.MatchFoundPayload
		if err := msg.Decode(&p); err != nil {
			fmt.Println("Mensagem inválida do servidor:", err)
			return
		}
		s.mu.Lock()
		s.roomID = p.RoomID
		s.mu.Unlock()
		fmt.Printf("Duelo contra %s! Sala %s, %d questões.\n", p.OpponentUserID, p.RoomID, p.QuestionCount)

	case message.EventOpponentAnswer:
		var p message.OpponentAnswerPayload
		if err := msg.Decode(&p); err != nil {
			fmt.Println("Mensagem inválida do servidor:", err)
			return
		}
		fmt.Printf("Oponente respondeu a questão %d (%v). Placar dele: %d\n", p.QuestionIndex, p.IsCorrect, p.OpponentScore)

	case message.EventStateSync:
		// chega a cada segundo; só mostra quando alguém terminou
		var p message.StateSyncPayload
		if err := msg.Decode(&p); err != nil {
			fmt.Println("Mensagem inválida do servidor:", err)
			return
		}
		for id, finished := range p.Finished {
			if finished {
				fmt.Printf("%s terminou com %d acertos\n", id, p.Scores[id])
			}
		}

	case message.EventDuelEnded:
		var p message.DuelEndedPayload
		if err := msg.Decode(&p); err != nil {
			fmt.Println("Mensagem inválida do servidor:", err)
			return
		}
		s.mu.Lock()
		me := s.connID
		s.roomID = ""
		s.mu.Unlock()
		switch p.Winner {
		case message.Draw:
			fmt.Println("Empate!", p.Scores)
		case me:
			fmt.Println("Você venceu!", p.Scores)
		default:
			fmt.Println("Você perdeu.", p.Scores)
		}

	case message.EventOpponentLeft:
		s.mu.Lock()
		s.roomID = ""
		s.mu.Unlock()
		fmt.Println("O oponente saiu do duelo.")

	case message.EventError:
		var p message.ErrorPayload
		if err := msg.Decode(&p); err != nil {
			fmt.Println("Mensagem inválida do servidor:", err)
			return
		}
		fmt.Println("Servidor:", p.Message)

	default:
		fmt.Printf("[%s] %s\n", msg.Type, string(msg.Payload))
	}
}

func (s *session) handleInput(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "join":
		if len(fields) < 2 {
			return errors.New("uso: join <usuario> [tier]")
		}
		req := message.JoinPoolRequest{UserID: fields[1]}
		if len(fields) > 2 {
			req.Tier = fields[2]
		}
		return s.send(message.CommandJoinPool, req)

	case "cancel":
		return s.send(message.CommandCancelMatch, nil)

	case "answer":
		if len(fields) < 3 {
			return errors.New("uso: answer <questao> <y|n>")
		}
		q, err := strconv.Atoi(fields[1])
		if err != nil {
			return errors.Wrap(err, "questão inválida")
		}
		return s.send(message.CommandSubmitAnswer, message.SubmitAnswerRequest{
			RoomID:        s.currentRoom(),
			QuestionIndex: q,
			IsCorrect:     strings.HasPrefix(strings.ToLower(fields[2]), "y"),
		})

	case "leave":
		room := s.currentRoom()
		if room == "" {
			return errors.New("você não está em um duelo")
		}
		return s.send(message.CommandLeaveRoom, message.LeaveRoomRequest{RoomID: room})

	case "ping":
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pingStart = time.Now()
		return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))

	case "help":
		printHelp()
		return nil
	}
	return errors.Errorf("comando desconhecido: %s", fields[0])
}

func (s *session) currentRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

func (s *session) send(event string, payload any) error {
	msg, err := network.NewMessage(event, payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(msg)
}
