package config

import (
	"strings"

	"github.com/pkg/errors"
)

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate confere se a configuração (já com os padrões aplicados) é utilizável.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.SendBuffer < 1 {
		problems = append(problems, "server.send_buffer must be positive")
	}
	if c.Server.MaxMessageSize < 1 {
		problems = append(problems, "server.max_message_size must be positive")
	}
	if c.Server.WriteWait <= 0 || c.Server.PongWait <= 0 {
		problems = append(problems, "server.write_wait and server.pong_wait must be positive")
	}
	if c.Duel.QuestionCount < 1 {
		problems = append(problems, "duel.question_count must be at least 1")
	}
	if c.Duel.SyncInterval <= 0 {
		problems = append(problems, "duel.sync_interval must be positive")
	}
	if c.Duel.GraceDelay < 0 {
		problems = append(problems, "duel.grace_delay must not be negative")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		problems = append(problems, "log.level must be one of debug, info, warn, error")
	}

	if len(problems) > 0 {
		return errors.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
