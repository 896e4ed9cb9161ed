package audit

import "time"

// Kind é o tipo de evento do ciclo de vida de um duelo.
type Kind string

const (
	KindMatched   Kind = "matched"
	KindEnded     Kind = "ended"
	KindAbandoned Kind = "abandoned"
)

// Motivos de um duelo abandonado.
const (
	ReasonLeft         = "left"
	ReasonDisconnected = "disconnected"
)

type Participant struct {
	ConnID string `json:"connectionId"`
	UserID string `json:"userId"`
}

// Event é o registro publicado para cada marco de um duelo.
type Event struct {
	Kind    Kind           `json:"kind"`
	RoomID  string         `json:"roomId"`
	Players []Participant  `json:"players"`
	Tier    string         `json:"tier,omitempty"`
	Winner  string         `json:"winner,omitempty"`
	Scores  map[string]int `json:"scores,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	At      time.Time      `json:"at"`
}

// Subject monta o subject NATS do evento, por exemplo quizduel.duel.ended.
func Subject(prefix string, kind Kind) string {
	return prefix + ".duel." + string(kind)
}
