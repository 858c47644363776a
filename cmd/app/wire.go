//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/mood-engine/internal/bootstrap"
	"github.com/yanqian/mood-engine/internal/domain/biometrics"
	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/domain/session"
	"github.com/yanqian/mood-engine/internal/infra/config"
	httpiface "github.com/yanqian/mood-engine/internal/interface/http"
	"github.com/yanqian/mood-engine/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideMoodConfig,
		provideSessionConfig,
		provideGenerator,
		provideResponseCache,
		provideHistoryStore,
		biometrics.NewHolder,
		mood.NewService,
		session.NewService,
		wire.Bind(new(session.ReadingSource), new(*biometrics.Holder)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
