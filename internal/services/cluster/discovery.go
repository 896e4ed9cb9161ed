package cluster

import (
	"fmt"
	"math/rand"

	consul "github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
)

// DiscoverAnyHealthy devolve host:porta de uma instância saudável do serviço,
// escolhida ao acaso.
func DiscoverAnyHealthy(client *consul.Client, serviceName string) (string, error) {
	entries, _, err := client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return "", errors.Wrapf(err, "query healthy %s instances", serviceName)
	}
	addr, ok := pickAddress(entries, rand.Intn)
	if !ok {
		return "", errors.Errorf("no healthy instance of %s", serviceName)
	}
	return addr, nil
}

func pickAddress(entries []*consul.ServiceEntry, intn func(int) int) (string, bool) {
	if len(entries) == 0 {
		return "", false
	}
	entry := entries[intn(len(entries))]

	// O agente preenche Service.Address só quando o registro informou um endereço.
	host := entry.Service.Address
	if host == "" && entry.Node != nil {
		host = entry.Node.Address
	}
	return fmt.Sprintf("%s:%d", host, entry.Service.Port), true
}
