package cluster

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	consul "github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Registration descreve como o serviço aparece no catálogo.
type Registration struct {
	ServiceName   string
	Host          string
	Port          int
	CheckInterval time.Duration
}

// RegistrationFor monta a Registration a partir do endereço de escuta.
// Sem host anunciado, usa o hostname da máquina.
func RegistrationFor(serviceName, advertisedHost, listenAddr string, interval time.Duration) (Registration, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return Registration{}, errors.Wrapf(err, "parse listen address %q", listenAddr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Registration{}, errors.Wrapf(err, "parse port %q", portStr)
	}

	host := advertisedHost
	if host == "" {
		host = os.Getenv("HOSTNAME")
	}
	if host == "" {
		host, _ = os.Hostname()
	}

	return Registration{ServiceName: serviceName, Host: host, Port: port, CheckInterval: interval}, nil
}

func (r Registration) serviceID() string {
	return fmt.Sprintf("%s-%s-%d", r.ServiceName, r.Host, r.Port)
}

func (r Registration) agentRegistration() *consul.AgentServiceRegistration {
	return &consul.AgentServiceRegistration{
		ID:      r.serviceID(),
		Name:    r.ServiceName,
		Address: r.Host,
		Port:    r.Port,
		Check: &consul.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%d/health", r.Host, r.Port),
			Timeout:  "5s",
			Interval: r.CheckInterval.String(),
			// Remove do catálogo se ficar crítico por mais de 1 minuto.
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// Register registra o serviço no agente e devolve a função que o remove.
func Register(client *consul.Client, reg Registration, log *zap.SugaredLogger) (func() error, error) {
	agentReg := reg.agentRegistration()
	if err := client.Agent().ServiceRegister(agentReg); err != nil {
		return nil, errors.Wrapf(err, "register %s in consul", reg.ServiceName)
	}
	log.Infow("Serviço registrado no Consul", "service", reg.ServiceName, "id", agentReg.ID, "check", agentReg.Check.HTTP)

	deregister := func() error {
		if err := client.Agent().ServiceDeregister(agentReg.ID); err != nil {
			return errors.Wrapf(err, "deregister %s", agentReg.ID)
		}
		log.Infow("Serviço removido do Consul", "id", agentReg.ID)
		return nil
	}
	return deregister, nil
}
