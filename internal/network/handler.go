package network

// EventHandler é a interface que conecta a camada de rede com a lógica do duelo.
// Todas as chamadas vêm da goroutine do Hub, uma de cada vez.
type EventHandler interface {
	// OnConnect é chamado quando um novo cliente se conecta com sucesso.
	OnConnect(c *Client)

	// OnDisconnect é chamado uma única vez quando a conexão se encerra.
	OnDisconnect(c *Client)

	// OnMessage é chamado para cada frame recebido. Frames que não são um
	// envelope JSON válido chegam com Type vazio.
	OnMessage(c *Client, msg Message)
}
