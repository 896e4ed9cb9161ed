// client é um cliente de terminal para jogar um duelo na mão.
package main

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func main() {
	base, _ := zap.NewDevelopment()
	log := base.Sugar()
	defer log.Sync()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	// Lista de servidores tentados em ordem. Ex: QUIZDUEL_ADDRESSES="10.0.0.1:3000,10.0.0.2:3000"
	addresses := []string{"localhost:3000"}
	if env := os.Getenv("QUIZDUEL_ADDRESSES"); env != "" {
		addresses = strings.Split(env, ",")
	}

	var conn *websocket.Conn
	for _, addr := range addresses {
		u := url.URL{Scheme: "ws", Host: strings.TrimSpace(addr), Path: "/ws"}
		log.Infow("Tentando conectar", "url", u.String())

		var resp *http.Response
		var err error
		conn, resp, err = websocket.DefaultDialer.Dial(u.String(), nil)
		if err == nil {
			break
		}
		log.Warnw("Falha ao conectar", "address", addr, "error", err)
		if resp != nil {
			log.Warnw("Resposta recebida", "status", resp.Status)
		}
	}
	if conn == nil {
		log.Fatalw("Nenhum servidor disponível", "addresses", addresses)
	}
	defer conn.Close()

	s := newSession(conn)

	done := make(chan struct{})
	go s.readLoop(done)

	go func() {
		printHelp()
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := s.handleInput(scanner.Text()); err != nil {
				fmt.Println("Erro:", err)
			}
		}
	}()

	select {
	case <-done:
		log.Infow("Desconectado do servidor")
	case <-interrupt:
		log.Infow("Interrupção recebida, fechando conexão")
		s.mu.Lock()
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.mu.Unlock()
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func printHelp() {
	fmt.Println(`Comandos:
  join <usuario> [novice|intermediate|advanced]
  cancel
  answer <questao> <y|n>
  leave
  ping
  help`)
}
