// Command ledgerctl runs ledger maintenance outside the API process.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"mifi-backend/internal/config"
	"mifi-backend/internal/infrastructure/db"
	"mifi-backend/internal/infrastructure/logging"
)

// opener connects to the ledger database.
type opener func(log *logrus.Logger) (*gorm.DB, error)

func openFromEnv(log *logrus.Logger) (*gorm.DB, error) {
	cfg := config.Load()
	if err := cfg.ValidateDB(); err != nil {
		return nil, err
	}
	return db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
}

type app struct {
	open     opener
	logLevel string
}

func (a *app) logger(cmd *cobra.Command) *logrus.Logger {
	return logging.New(a.logLevel, cmd.ErrOrStderr())
}

func (a *app) db(cmd *cobra.Command) (*gorm.DB, *logrus.Logger, error) {
	log := a.logger(cmd)
	gdb, err := a.open(log)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return gdb, log, nil
}

func newRootCmd(open opener) *cobra.Command {
	a := &app{open: open}
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Maintenance commands for the microfinance loan ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(migrateCmd(a))
	root.AddCommand(sweepOverdueCmd(a))
	root.AddCommand(reportCmd(a))
	root.AddCommand(tokenCmd())
	return root
}

func main() {
	config.LoadDotEnv()
	if err := newRootCmd(openFromEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
