package message

import "fmt"

// Emitter é qualquer coisa capaz de entregar um evento a uma conexão.
// Desacopla o pacote message da implementação concreta de rede.
type Emitter interface {
	Emit(connID string, event string, payload any)
}

// SendError envia uma mensagem de erro para a conexão.
func SendError(e Emitter, connID string, format string, args ...any) {
	e.Emit(connID, EventError, ErrorPayload{Message: fmt.Sprintf(format, args...)})
}
