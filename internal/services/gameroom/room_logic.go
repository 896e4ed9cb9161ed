package gameroom

import "quizduel/internal/session/message"

// Answer é o resultado de uma submissão.
type Answer struct {
	// Accepted é false quando a resposta foi descartada (sala encerrada,
	// questão fora do intervalo ou já respondida).
	Accepted bool
	Score    int
	Progress int
	Ended    bool
	Outcome  Outcome
}

// Outcome é o resultado final do duelo.
type Outcome struct {
	Winner string
	Draw   bool
	Scores map[string]int
}

// WinnerLabel é o valor enviado no evento duel-ended.
func (o Outcome) WinnerLabel() string {
	if o.Draw {
		return message.Draw
	}
	return o.Winner
}

// SubmitAnswer registra a resposta de connID para a questão questionIndex.
// O oponente é avisado, e se a questão mais avançada chegar ao fim do
// questionário o duelo é encerrado e o resultado vai para os dois.
func (r *Room) SubmitAnswer(connID string, questionIndex int, isCorrect bool) (Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.status != StatusPlaying {
		return Answer{}, nil
	}
	opponent, ok := r.Opponent(connID)
	if !ok {
		return Answer{}, ErrNotSeated
	}
	if questionIndex < 0 || questionIndex >= r.settings.QuestionCount {
		r.log.Debugw("Questão fora do intervalo", "connID", connID, "questionIndex", questionIndex)
		return Answer{}, nil
	}
	// Questão já respondida. Descartar mantém score <= progress.
	if questionIndex < r.progress[connID] {
		r.log.Debugw("Resposta repetida descartada", "connID", connID, "questionIndex", questionIndex)
		return Answer{}, nil
	}

	if isCorrect {
		r.scores[connID]++
	}
	r.progress[connID] = questionIndex + 1
	r.finished[connID] = r.progress[connID] == r.settings.QuestionCount
	if questionIndex+1 > r.currentQuestion {
		r.currentQuestion = questionIndex + 1
	}

	ans := Answer{
		Accepted: true,
		Score:    r.scores[connID],
		Progress: r.progress[connID],
	}

	r.out.Emit(opponent.ConnID, message.EventOpponentAnswer, message.OpponentAnswerPayload{
		QuestionIndex: questionIndex,
		IsCorrect:     isCorrect,
		OpponentScore: ans.Score,
		Time:          r.now().UnixMilli(),
	})

	if r.currentQuestion >= r.settings.QuestionCount {
		ans.Ended = true
		ans.Outcome = r.endLocked()
	}
	return ans, nil
}

// endLocked faz a transição para StatusEnded. Exige r.mu.
func (r *Room) endLocked() Outcome {
	r.status = StatusEnded
	r.haltSync()

	a, b := r.players[0].ConnID, r.players[1].ConnID
	o := Outcome{Scores: copyInts(r.scores)}
	switch {
	case r.scores[a] > r.scores[b]:
		o.Winner = a
	case r.scores[b] > r.scores[a]:
		o.Winner = b
	default:
		o.Draw = true
	}
	stored := o
	stored.Scores = copyInts(o.Scores)
	r.outcome = &stored

	r.out.EmitGroup(r.ID, message.EventDuelEnded, message.DuelEndedPayload{
		Winner: o.WinnerLabel(),
		Scores: copyInts(o.Scores),
	})
	r.log.Infow("Duelo encerrado", "winner", o.WinnerLabel(), "scores", o.Scores)
	return o
}
