//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/poppy/internal/bootstrap"
	"github.com/yanqian/poppy/internal/domain/discovery"
	"github.com/yanqian/poppy/internal/infra/catalog/tmdb"
	"github.com/yanqian/poppy/internal/infra/config"
	"github.com/yanqian/poppy/internal/infra/llm/chatgpt"
	"github.com/yanqian/poppy/internal/infra/streaming/rapidapi"
	httpiface "github.com/yanqian/poppy/internal/interface/http"
	"github.com/yanqian/poppy/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideDiscoveryConfig,
		provideChatGPTClient,
		provideCatalogClient,
		provideAvailabilityClient,
		provideSessionRepository,
		discovery.NewService,
		wire.Bind(new(discovery.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(discovery.CatalogClient), new(*tmdb.Client)),
		wire.Bind(new(discovery.AvailabilityClient), new(*rapidapi.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
