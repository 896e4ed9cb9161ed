package main

import (
	"context"
	"flag"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"quizduel/internal/config"
	"quizduel/internal/logger"
	"quizduel/internal/network"
	"quizduel/internal/services/audit"
	"quizduel/internal/services/cluster"
	"quizduel/internal/services/gameroom"
	"quizduel/internal/services/queue"
	"quizduel/internal/session"
)

func main() {
	configPath := flag.String("config", os.Getenv("QUIZDUEL_CONFIG"), "caminho do arquivo YAML de configuração")
	flag.Parse()

	// 1. CARREGA A CONFIGURAÇÃO
	// Um .env ausente não é erro; as variáveis podem vir do ambiente.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// ainda não há logger configurado
		stdlog.Fatalf("Fatal: falha ao carregar configuração: %v", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		stdlog.Fatalf("Fatal: falha ao criar logger: %v", err)
	}
	defer log.Sync()

	log.Infow("[Main] Configuração carregada",
		"address", cfg.Server.Address,
		"questionCount", cfg.Duel.QuestionCount,
		"syncInterval", cfg.Duel.SyncInterval,
		"graceDelay", cfg.Duel.GraceDelay,
		"nats", cfg.NATS.URL != "",
		"consul", cfg.Consul.Address != "",
	)

	// 2. EVENTOS DE DUELO
	publisher, err := audit.New(cfg.NATS, log)
	if err != nil {
		log.Fatalw("Falha ao conectar ao NATS", "error", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnw("Falha ao fechar publicador", "error", err)
		}
	}()

	// 3. MONTA A LÓGICA DO DUELO
	hub := network.NewHub(log.Named("hub"))
	pool := queue.NewPool(log.Named("pool"))
	rooms := gameroom.NewRoomManager(gameroom.Settings{
		QuestionCount: cfg.Duel.QuestionCount,
		SyncInterval:  cfg.Duel.SyncInterval,
		GraceDelay:    cfg.Duel.GraceDelay,
	}, hub, log.Named("rooms"))
	defer rooms.Close()

	coordinator := session.NewCoordinator(pool, rooms, hub, publisher, cfg.Duel.QuestionCount, log.Named("session"))

	server := network.NewServer(cfg.Server, hub, log.Named("server"))
	server.Router().HandleFunc("/health", cluster.NewBasicHealthHandler()).Methods(http.MethodGet)

	// 4. REGISTRA O SERVIÇO NO CONSUL
	if cfg.Consul.Address != "" {
		deregister, err := registerInConsul(cfg, log)
		if err != nil {
			log.Fatalw("Falha ao registrar serviço no Consul", "error", err)
		}
		defer func() {
			if err := deregister(); err != nil {
				log.Warnw("Falha ao remover registro do Consul", "error", err)
			}
		}()
	}

	// 5. INICIA O HUB E O SERVIDOR
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx, coordinator)
	})
	g.Go(func() error {
		return server.ListenAndServe(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("[Main] Servidor encerrado com erro", "error", err)
		return
	}
	log.Infow("[Main] Servidor encerrado")
}
