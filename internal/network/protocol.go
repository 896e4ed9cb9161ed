package network

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Message é o envelope padrão para toda a comunicação.
// Type serve para roteamento e Payload guarda os dados do evento em JSON bruto,
// decodificados depois por quem trata o evento.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage serializa o payload dentro do envelope.
func NewMessage(event string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, errors.Wrapf(err, "marshal %s payload", event)
	}
	return Message{Type: event, Payload: data}, nil
}

// Decode lê o payload para dentro de v. Payload ausente vira objeto vazio.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(m.Payload, v), "decode %s payload", m.Type)
}
