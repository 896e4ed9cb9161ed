package network

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ClientOptions são os limites aplicados a cada conexão.
type ClientOptions struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

// pingPeriod deve ser menor que PongWait.
func (o ClientOptions) pingPeriod() time.Duration {
	return (o.PongWait * 9) / 10
}

// Client é a representação de um jogador conectado do ponto de vista do servidor.
// Ele agrupa a conexão, o ID da conexão e a fila de saída.
type Client struct {
	id   string
	conn *websocket.Conn
	hub  *Hub
	opts ClientOptions

	// Mensagens de saída. Só o Hub escreve aqui e só o Hub fecha o canal,
	// sempre sob Hub.mu.
	send chan Message

	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, hub *Hub, opts ClientOptions) *Client {
	return &Client{
		id:   id,
		conn: conn,
		hub:  hub,
		opts: opts,
		send: make(chan Message, opts.SendBuffer),
	}
}

// ID é o identificador da conexão usado em todos os eventos.
func (c *Client) ID() string {
	return c.id
}

func (c *Client) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// kick derruba a conexão. O readLoop então falha e o cliente é desregistrado.
func (c *Client) kick() {
	c.closeOnce.Do(func() { c.conn.Close() })
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.leave(c)
		c.kick()
	}()

	c.conn.SetReadLimit(c.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	// O pong renova o deadline de leitura, mantendo a conexão viva.
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.hub.log.Debugw("Conexão encerrada de forma inesperada", "connID", c.id, "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.log.Debugw("Frame inválido", "connID", c.id, "error", err)
			msg = Message{}
		}

		if !c.hub.dispatch(clientMessage{client: c, msg: msg}) {
			return
		}
	}
}

// writeLoop bombeia mensagens do canal send para a conexão WebSocket.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(c.opts.pingPeriod())
	defer func() {
		ticker.Stop()
		c.kick()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))

			// O Hub fechou o canal: o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				c.hub.log.Debugw("Erro de escrita", "connID", c.id, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
