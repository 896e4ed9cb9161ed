package audit

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"quizduel/internal/config"
)

// Publisher entrega os eventos de duelo para fora do processo.
type Publisher interface {
	Publish(e Event) error
	Close() error
}

// New devolve um publicador NATS, ou Nop quando nenhuma URL foi configurada.
func New(cfg config.NATSConfig, log *zap.SugaredLogger) (Publisher, error) {
	if cfg.URL == "" {
		log.Infow("NATS não configurado, eventos de duelo não serão publicados")
		return Nop{}, nil
	}
	return NewNATSPublisher(cfg, log)
}

// Nop descarta tudo.
type Nop struct{}

func (Nop) Publish(Event) error { return nil }
func (Nop) Close() error        { return nil }

// natsConn é o pedaço de *nats.Conn que o publicador usa.
type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

type NATSPublisher struct {
	conn   natsConn
	prefix string
	now    func() time.Time
	log    *zap.SugaredLogger
}

func NewNATSPublisher(cfg config.NATSConfig, log *zap.SugaredLogger) (*NATSPublisher, error) {
	nc, err := nats.Connect(
		cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnw("Conexão com o NATS perdida", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("Reconectado ao NATS", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to nats at %s", cfg.URL)
	}

	log.Infow("Conectado ao NATS", "url", nc.ConnectedUrl(), "prefix", cfg.SubjectPrefix)
	return newNATSPublisher(nc, cfg.SubjectPrefix, log), nil
}

func newNATSPublisher(conn natsConn, prefix string, log *zap.SugaredLogger) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix, now: time.Now, log: log}
}

func (p *NATSPublisher) Publish(e Event) error {
	if e.At.IsZero() {
		e.At = p.now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal audit event")
	}

	subject := Subject(p.prefix, e.Kind)
	if err := p.conn.Publish(subject, data); err != nil {
		return errors.Wrapf(err, "publish %s", subject)
	}
	p.log.Debugw("Evento publicado", "subject", subject, "roomID", e.RoomID)
	return nil
}

// Close espera o envio do que está pendente e fecha a conexão.
func (p *NATSPublisher) Close() error {
	return errors.Wrap(p.conn.Drain(), "drain nats connection")
}
