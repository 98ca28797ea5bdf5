package cli

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fundpool-labs/fundpool-ledger/internal/config"
	"github.com/fundpool-labs/fundpool-ledger/internal/db"
	"github.com/fundpool-labs/fundpool-ledger/internal/observability/tracing"
)

func DumpLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-ledger",
		Short: "Prints the persisted ledger state as JSON",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpLedger,
	}

	return cmd
}

func dumpLedger(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("error while loading config file: %s", cfgPath)
	}

	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	defer func() {
		if err := dbClient.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error while closing db client")
		}
	}()

	state, poolState, err := dbClient.LoadLedgerState(ctx, time.Now())
	if err != nil {
		return err
	}

	dump := struct {
		PoolState interface{} `json:"pool_state"`
		Ledger    interface{} `json:"ledger"`
	}{
		PoolState: poolState,
		Ledger:    state,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dump)
}
