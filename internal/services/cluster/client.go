package cluster

import (
	"strings"

	consul "github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewConsulClient tenta cada endereço da lista (separada por vírgulas) até
// encontrar um agente que responda com um líder eleito.
func NewConsulClient(addrs string, log *zap.SugaredLogger) (*consul.Client, error) {
	for _, node := range strings.Split(addrs, ",") {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}

		cfg := consul.DefaultConfig()
		cfg.Address = node

		client, err := consul.NewClient(cfg)
		if err != nil {
			log.Warnw("Falha ao criar cliente Consul", "node", node, "error", err)
			continue
		}

		// Teste rápido de saúde
		if _, err := client.Status().Leader(); err != nil {
			log.Warnw("Nó Consul não respondeu", "node", node, "error", err)
			continue
		}

		log.Infow("Conectado ao Consul", "node", node)
		return client, nil
	}

	return nil, errors.Errorf("no consul node available in %q", addrs)
}
