package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"quizduel/internal/network"
	"quizduel/internal/session/message"
)

// scriptedServer aceita uma conexão, espera o join-pool e manda os frames na ordem.
func scriptedServer(t *testing.T, frames ...string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"connected","payload":{"connectionId":"c1","tiers":["novice"],"questionCount":0}}`))
		var join network.Message
		if err := conn.ReadJSON(&join); err != nil || join.Type != message.CommandJoinPool {
			return
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// segura a conexão até o bot fechar
		conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestBot(t *testing.T, url string) *bot {
	return &bot{
		name:     "bot-test",
		url:      url,
		tier:     "novice",
		accuracy: 1,
		log:      zaptest.NewLogger(t).Sugar(),
	}
}

func TestBotSkipsMalformedPayloads(t *testing.T) {
	url := scriptedServer(t,
		`{"type":"pool-size-update","payload":{"tier":"novice","count":"two"}}`,
		`{"type":"opponent-answer","payload":[1,2]}`,
		`{"type":"error","payload":"oops"}`,
		`{"type":"duel-ended","payload":{"winner":"c1","scores":{"c1":1}}}`,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, newTestBot(t, url).run(ctx))
}

func TestBotRejectsMalformedDuelEnded(t *testing.T) {
	url := scriptedServer(t, `{"type":"duel-ended","payload":{"winner":7}}`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := newTestBot(t, url).run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode duel-ended")
}
