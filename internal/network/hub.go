package network

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// clientMessage empacota uma mensagem com o cliente que a enviou.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub mantém o conjunto de clientes ativos, os grupos de broadcast e roteia os
// eventos de entrada para o handler.
//
// Entradas (registro, saída e mensagens) são processadas por uma única
// goroutine em Run. A saída (Emit, EmitGroup) pode vir de qualquer goroutine:
// os mapas ficam sob mu e a entrega nunca bloqueia.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]struct{}

	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage
	done       chan struct{}

	log *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		groups:     make(map[string]map[string]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run processa os eventos até o contexto ser cancelado. Ao sair, fecha todas
// as conexões.
func (h *Hub) Run(ctx context.Context, handler EventHandler) error {
	defer h.shutdown()
	h.log.Infow("Hub iniciado")

	for {
		select {
		case <-ctx.Done():
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()

			h.log.Debugw("Cliente conectado", "connID", client.id, "remote", client.RemoteAddr(), "clients", total)
			handler.OnConnect(client)

		case client := <-h.unregister:
			if h.remove(client) {
				h.log.Debugw("Cliente desconectado", "connID", client.id)
				handler.OnDisconnect(client)
			}

		case cm := <-h.incoming:
			handler.OnMessage(cm.client, cm.msg)
		}
	}
}

// join é chamado pelo servidor para cada nova conexão.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) dispatch(cm clientMessage) bool {
	select {
	case h.incoming <- cm:
		return true
	case <-h.done:
		return false
	}
}

// remove tira o cliente dos mapas e fecha o canal send. Devolve false se o
// cliente já tinha saído.
func (h *Hub) remove(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[c.id]; !ok || current != c {
		return false
	}
	delete(h.clients, c.id)
	for name, members := range h.groups {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.groups, name)
		}
	}
	close(c.send)
	return true
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
	h.groups = make(map[string]map[string]struct{})
	h.log.Infow("Hub encerrado")
}

// ============================================================================
// Saída
// ============================================================================

// Emit envia um evento para uma conexão. Conexões desconhecidas são ignoradas.
func (h *Hub) Emit(connID string, event string, payload any) {
	msg, err := NewMessage(event, payload)
	if err != nil {
		h.log.Errorw("Falha ao montar mensagem", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[connID]; ok {
		h.deliver(c, msg)
	}
}

// EmitGroup envia um evento para todos os membros do grupo.
func (h *Hub) EmitGroup(group string, event string, payload any) {
	msg, err := NewMessage(event, payload)
	if err != nil {
		h.log.Errorw("Falha ao montar mensagem", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.groups[group] {
		if c, ok := h.clients[id]; ok {
			h.deliver(c, msg)
		}
	}
}

// deliver exige h.mu (leitura ou escrita). Um cliente com a fila cheia é
// derrubado em vez de travar quem está emitindo.
func (h *Hub) deliver(c *Client, msg Message) {
	select {
	case c.send <- msg:
	default:
		h.log.Warnw("Fila de saída cheia, derrubando conexão", "connID", c.id, "event", msg.Type)
		go c.kick()
	}
}

// JoinGroup adiciona as conexões ainda ativas ao grupo.
func (h *Hub) JoinGroup(group string, connIDs ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]struct{}, len(connIDs))
		h.groups[group] = members
	}
	for _, id := range connIDs {
		if _, connected := h.clients[id]; connected {
			members[id] = struct{}{}
		}
	}
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

func (h *Hub) DropGroup(group string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.groups, group)
}

// Members devolve os IDs do grupo, sem ordem definida.
func (h *Hub) Members(group string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.groups[group]))
	for id := range h.groups[group] {
		ids = append(ids, id)
	}
	return ids
}

// Count devolve o número de clientes conectados.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
