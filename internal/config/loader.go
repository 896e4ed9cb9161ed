package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load lê o arquivo YAML (se houver), aplica as variáveis de ambiente,
// os valores padrão e valida o resultado.
// Com path vazio a configuração vem só do ambiente e dos padrões.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}

		// Expande ${VAR} antes do parse
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, errors.Wrap(err, "parse config yaml")
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// applyEnv sobrescreve alguns campos com as variáveis que o deploy costuma definir.
func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Address = ":" + strings.TrimPrefix(port, ":")
	}
	if addr := os.Getenv("QUIZDUEL_ADDR"); addr != "" {
		c.Server.Address = addr
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		c.NATS.URL = url
	}
	if addr := os.Getenv("CONSUL_HTTP_ADDR"); addr != "" {
		c.Consul.Address = addr
	}
	if host := os.Getenv("SERVICE_ADVERTISED_HOSTNAME"); host != "" {
		c.Consul.AdvertisedHost = host
	}
}
