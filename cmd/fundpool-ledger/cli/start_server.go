package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fundpool-labs/fundpool-ledger/internal/api"
	"github.com/fundpool-labs/fundpool-ledger/internal/config"
	"github.com/fundpool-labs/fundpool-ledger/internal/custody"
	"github.com/fundpool-labs/fundpool-ledger/internal/db"
	dbmodel "github.com/fundpool-labs/fundpool-ledger/internal/db/model"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/metrics"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/tracing"
	"github.com/fundpool-labs/fundpool-ledger/internal/queue"
	"github.com/fundpool-labs/fundpool-ledger/internal/services"
)

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the Fundpool Ledger server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger db model")
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	queueManager, err := queue.NewQueueManager(&cfg.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating queue manager")
	}
	defer queueManager.Shutdown()

	custodyClient := custody.New(dbClient)

	service, err := services.NewService(cfg, dbClient, queueManager, custodyClient)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating service")
	}

	if err := service.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while bootstrapping ledger state")
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	service.StartGaugePoller(ctx)

	server := api.New(&cfg.API, service)
	return server.Start(ctx)
}
