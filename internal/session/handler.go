package session

import (
	"time"

	"go.uber.org/zap"

	"quizduel/internal/network"
	"quizduel/internal/services/audit"
	"quizduel/internal/services/gameroom"
	"quizduel/internal/services/queue"
	"quizduel/internal/session/message"
)

// Transport é a camada de rede vista pelo coordenador.
type Transport interface {
	gameroom.Broadcaster
}

// CommandHandlerFunc define a assinatura de todas as funções que tratam comandos
// do cliente. Recebem o coordenador, a conexão e a mensagem bruta.
type CommandHandlerFunc func(co *Coordinator, connID string, msg network.Message)

// Coordinator liga a rede à fila de pareamento e às salas. Implementa
// network.EventHandler.
type Coordinator struct {
	pool          *queue.Pool
	rooms         *gameroom.RoomManager
	out           Transport
	audit         audit.Publisher
	questionCount int
	log           *zap.SugaredLogger
	now           func() time.Time

	router map[string]CommandHandlerFunc
}

func NewCoordinator(pool *queue.Pool, rooms *gameroom.RoomManager, out Transport, pub audit.Publisher, questionCount int, log *zap.SugaredLogger) *Coordinator {
	co := &Coordinator{
		pool:          pool,
		rooms:         rooms,
		out:           out,
		audit:         pub,
		questionCount: questionCount,
		log:           log,
		now:           time.Now,
		router:        make(map[string]CommandHandlerFunc),
	}
	co.registerQueueHandlers()
	co.registerMatchHandlers()
	return co
}

// --- Implementação da Interface network.EventHandler ---

func (co *Coordinator) OnConnect(c *network.Client) {
	co.greet(c.ID())
}

func (co *Coordinator) OnDisconnect(c *network.Client) {
	co.Disconnect(c.ID())
}

func (co *Coordinator) OnMessage(c *network.Client, msg network.Message) {
	co.handle(c.ID(), msg)
}

func (co *Coordinator) greet(connID string) {
	co.out.Emit(connID, message.EventConnected, message.ConnectedPayload{
		ConnectionID:  connID,
		Tiers:         queue.TierNames(),
		QuestionCount: co.questionCount,
	})
}

// handle é o despachante: procura o comando no roteador e executa.
func (co *Coordinator) handle(connID string, msg network.Message) {
	if msg.Type == "" {
		message.SendError(co.out, connID, "malformed message")
		return
	}

	handler, found := co.router[msg.Type]
	if !found {
		message.SendError(co.out, connID, "unknown command: %s", msg.Type)
		return
	}
	handler(co, connID, msg)
}
