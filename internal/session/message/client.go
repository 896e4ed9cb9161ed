package message

// Isso aqui são as mensagens que vão no sentido servidor -> cliente.

const (
	EventConnected      = "connected"
	EventPoolSizeUpdate = "pool-size-update"
	EventMatchFound     = "match-found"
	EventOpponentAnswer = "opponent-answer"
	EventStateSync      = "state-sync"
	EventDuelEnded      = "duel-ended"
	EventOpponentLeft   = "opponent-left"
	EventError          = "error"
)

// Draw é o valor de winner quando o duelo termina empatado.
const Draw = "draw"

// ConnectedPayload é a saudação enviada logo após a conexão.
type ConnectedPayload struct {
	ConnectionID  string   `json:"connectionId"`
	Tiers         []string `json:"tiers"`
	QuestionCount int      `json:"questionCount"`
}

type PoolSizePayload struct {
	Tier  string `json:"tier"`
	Count int    `json:"count"`
}

type MatchFoundPayload struct {
	RoomID         string `json:"roomId"`
	OpponentUserID string `json:"opponentUserId"`
	QuestionCount  int    `json:"questionCount"`
}

// OpponentAnswerPayload avisa o oponente sobre uma resposta. Time é unix em milissegundos.
type OpponentAnswerPayload struct {
	QuestionIndex int   `json:"questionIndex"`
	IsCorrect     bool  `json:"isCorrect"`
	OpponentScore int   `json:"opponentScore"`
	Time          int64 `json:"time"`
}

// StateSyncPayload é o retrato periódico da sala, indexado por connection id.
type StateSyncPayload struct {
	Scores   map[string]int  `json:"scores"`
	Progress map[string]int  `json:"progress"`
	Finished map[string]bool `json:"finished"`
}

// DuelEndedPayload traz o connection id do vencedor ou Draw.
type DuelEndedPayload struct {
	Winner string         `json:"winner"`
	Scores map[string]int `json:"scores"`
}

type OpponentLeftPayload struct{}

type ErrorPayload struct {
	Message string `json:"message"`
}
