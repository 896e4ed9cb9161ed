package main

import (
	"go.uber.org/zap"

	"quizduel/internal/config"
	"quizduel/internal/services/cluster"
)

func registerInConsul(cfg *config.Config, log *zap.SugaredLogger) (func() error, error) {
	client, err := cluster.NewConsulClient(cfg.Consul.Address, log.Named("consul"))
	if err != nil {
		return nil, err
	}

	reg, err := cluster.RegistrationFor(cfg.Consul.ServiceName, cfg.Consul.AdvertisedHost, cfg.Server.Address, cfg.Consul.CheckInterval)
	if err != nil {
		return nil, err
	}
	return cluster.Register(client, reg, log.Named("consul"))
}
