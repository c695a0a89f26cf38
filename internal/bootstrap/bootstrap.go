package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	rankinginadapter "pairrank/internal/modules/ranking/adapter/in"
	rankingoutadapter "pairrank/internal/modules/ranking/adapter/out"
	rankingservice "pairrank/internal/modules/ranking/service"
	rankingusecase "pairrank/internal/modules/ranking/usecase"
	reportoutadapter "pairrank/internal/modules/report/adapter/out"
	reportservice "pairrank/internal/modules/report/service"
	reportusecase "pairrank/internal/modules/report/usecase"
	"pairrank/internal/platform/clock"
	"pairrank/internal/platform/config"
	"pairrank/internal/platform/id"
	"pairrank/internal/platform/logging"
	"pairrank/internal/platform/tx"
)

type App struct {
	RankingCLI rankinginadapter.CLIHandler
	Logger     *zap.Logger
}

func New(cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	clk := clock.SystemClock{}
	gen, err := id.NewGenerator(cfg.IDs.Strategy, clk)
	if err != nil {
		return nil, err
	}
	ids := id.NewAllocator(gen, cfg.IDs.Attempts)

	reportUC := reportusecase.NewInteractor(reportservice.NewReportService(
		reportoutadapter.NewFileNoteStore(cfg.DataDir),
	))

	stateStore := rankingoutadapter.NewFileStateStore(cfg.DataDir)
	actionLog := rankingoutadapter.NewFileActionLog(cfg.DataDir)
	projector, err := rankingoutadapter.NewSQLiteRankingProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new ranking projector: %w", err)
	}
	rankingSvc := rankingservice.NewRankingService(clk, ids, stateStore, actionLog, projector, tx.NoopManager{}, logger)
	rankingUC := rankingusecase.NewInteractor(rankingSvc, reportUC)

	return &App{
		RankingCLI: rankinginadapter.NewCLIHandler(rankingUC),
		Logger:     logger,
	}, nil
}
