// duel-bot abre N conexões, entra na fila e joga duelos inteiros respondendo
// ao acaso. Serve para teste de carga e para ver o protocolo funcionando.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quizduel/internal/services/cluster"
)

func main() {
	var (
		url      = flag.String("url", "ws://localhost:3000/ws", "endereço WebSocket do servidor")
		consul   = flag.String("consul", "", "endereços do Consul; quando informado, descobre o servidor por lá")
		service  = flag.String("service", "quizduel-session", "nome do serviço no Consul")
		bots     = flag.Int("bots", 2, "quantidade de bots simultâneos")
		tier     = flag.String("tier", "novice", "tier pedido na fila")
		accuracy = flag.Float64("accuracy", 0.6, "chance de cada resposta estar correta")
		think    = flag.Duration("think", 800*time.Millisecond, "tempo máximo pensando em cada questão")
		timeout  = flag.Duration("timeout", 5*time.Minute, "tempo máximo de cada bot")
	)
	flag.Parse()

	base, _ := zap.NewDevelopment()
	log := base.Sugar()
	defer log.Sync()

	target := *url
	if *consul != "" {
		client, err := cluster.NewConsulClient(*consul, log)
		if err != nil {
			log.Fatalw("Consul indisponível", "error", err)
		}
		addr, err := cluster.DiscoverAnyHealthy(client, *service)
		if err != nil {
			log.Fatalw("Servidor não encontrado no Consul", "service", *service, "error", err)
		}
		target = fmt.Sprintf("ws://%s/ws", addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < *bots; i++ {
		b := &bot{
			name:     fmt.Sprintf("bot-%d", i+1),
			url:      target,
			tier:     *tier,
			accuracy: *accuracy,
			think:    *think,
			log:      log.With("bot", i+1),
		}
		g.Go(func() error {
			runCtx, cancel := context.WithTimeout(gctx, *timeout)
			defer cancel()
			return b.run(runCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Errorw("Bot falhou", "error", err)
		os.Exit(1)
	}
}
