package network

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"quizduel/internal/config"
)

const shutdownTimeout = 5 * time.Second

// Server expõe o Hub por HTTP: /ws faz o upgrade para WebSocket e outras rotas
// podem ser adicionadas em Router().
type Server struct {
	cfg      config.ServerConfig
	hub      *Hub
	router   *mux.Router
	upgrader websocket.Upgrader
	opts     ClientOptions
	log      *zap.SugaredLogger
}

func NewServer(cfg config.ServerConfig, hub *Hub, log *zap.SugaredLogger) *Server {
	s := &Server{
		cfg:    cfg,
		hub:    hub,
		router: mux.NewRouter(),
		opts: ClientOptions{
			WriteWait:      cfg.WriteWait,
			PongWait:       cfg.PongWait,
			MaxMessageSize: cfg.MaxMessageSize,
			SendBuffer:     cfg.SendBuffer,
		},
		log: log,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     s.checkOrigin,
	}
	s.router.HandleFunc("/ws", s.wsHandler).Methods(http.MethodGet)
	return s
}

// Router permite registrar rotas extras, como /health.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Handler devolve o roteador com CORS aplicado.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)
	return cors(s.router)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	s.log.Warnw("Origem recusada", "origin", origin)
	return false
}

// wsHandler promove a requisição HTTP para uma conexão WebSocket persistente.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debugw("Erro ao fazer upgrade da conexão", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := newClient(uuid.NewString(), conn, s.hub, s.opts)
	if !s.hub.join(client) {
		conn.Close()
		return
	}

	go client.writeLoop()
	go client.readLoop()
}

// ListenAndServe serve HTTP em cfg.Address até o contexto ser cancelado.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("Servidor WebSocket escutando", "address", s.cfg.Address, "path", "/ws")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown http server")
	}
}
