package message

// Mensagens no sentido cliente -> servidor.

const (
	CommandJoinPool     = "join-pool"
	CommandCancelMatch  = "cancel-match"
	CommandSubmitAnswer = "submit-answer"
	CommandLeaveRoom    = "leave-room"
)

type JoinPoolRequest struct {
	UserID string `json:"userId"`
	Tier   string `json:"tier"`
}

type SubmitAnswerRequest struct {
	RoomID        string `json:"roomId"`
	QuestionIndex int    `json:"questionIndex"`
	IsCorrect     bool   `json:"isCorrect"`
}

type LeaveRoomRequest struct {
	RoomID string `json:"roomId"`
}
