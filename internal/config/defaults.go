package config

import "time"

// Valores padrão para os campos opcionais.
const (
	DefaultAddress         = ":3000"
	DefaultReadBufferSize  = 1024
	DefaultWriteBufferSize = 1024
	DefaultSendBuffer      = 256
	DefaultMaxMessageSize  = 64 * 1024
	DefaultWriteWait       = 10 * time.Second
	DefaultPongWait        = 60 * time.Second

	DefaultQuestionCount = 10
	DefaultSyncInterval  = 1 * time.Second
	DefaultGraceDelay    = 5 * time.Minute

	DefaultLogLevel      = "info"
	DefaultSubjectPrefix = "quizduel"
	DefaultNATSName      = "quizduel-session"
	DefaultServiceName   = "quizduel-session"
	DefaultCheckInterval = 10 * time.Second
)

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = DefaultReadBufferSize
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = DefaultWriteBufferSize
	}
	if c.Server.SendBuffer == 0 {
		c.Server.SendBuffer = DefaultSendBuffer
	}
	if c.Server.MaxMessageSize == 0 {
		c.Server.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.Server.WriteWait == 0 {
		c.Server.WriteWait = DefaultWriteWait
	}
	if c.Server.PongWait == 0 {
		c.Server.PongWait = DefaultPongWait
	}

	if c.Duel.QuestionCount == 0 {
		c.Duel.QuestionCount = DefaultQuestionCount
	}
	if c.Duel.SyncInterval == 0 {
		c.Duel.SyncInterval = DefaultSyncInterval
	}
	if c.Duel.GraceDelay == 0 {
		c.Duel.GraceDelay = DefaultGraceDelay
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = DefaultSubjectPrefix
	}
	if c.NATS.Name == "" {
		c.NATS.Name = DefaultNATSName
	}

	if c.Consul.ServiceName == "" {
		c.Consul.ServiceName = DefaultServiceName
	}
	if c.Consul.CheckInterval == 0 {
		c.Consul.CheckInterval = DefaultCheckInterval
	}
}
