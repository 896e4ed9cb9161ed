package config

import "time"

// Config é a configuração raiz do servidor de duelos.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Duel   DuelConfig   `yaml:"duel"`
	Log    LogConfig    `yaml:"log"`
	NATS   NATSConfig   `yaml:"nats"`
	Consul ConsulConfig `yaml:"consul"`
}

// ServerConfig agrupa as opções do servidor HTTP/WebSocket.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadBufferSize  int           `yaml:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size"`
	SendBuffer      int           `yaml:"send_buffer"`
	MaxMessageSize  int64         `yaml:"max_message_size"`
	WriteWait       time.Duration `yaml:"write_wait"`
	PongWait        time.Duration `yaml:"pong_wait"`
}

// DuelConfig define as regras de uma partida.
type DuelConfig struct {
	QuestionCount int           `yaml:"question_count"`
	SyncInterval  time.Duration `yaml:"sync_interval"`
	GraceDelay    time.Duration `yaml:"grace_delay"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// NATSConfig habilita a publicação dos eventos de duelo. URL vazia desliga.
type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
	Name          string `yaml:"name"`
}

// ConsulConfig habilita o registro do serviço no Consul. Address vazio desliga.
// Address aceita uma lista separada por vírgulas.
type ConsulConfig struct {
	Address        string        `yaml:"address"`
	ServiceName    string        `yaml:"service_name"`
	AdvertisedHost string        `yaml:"advertised_host"`
	CheckInterval  time.Duration `yaml:"check_interval"`
}
