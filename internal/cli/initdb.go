package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/internal/config"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/internal/logger"
	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/store"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create and seed the support database",
	Long: `Creates the support database schema and seeds it with sample
customers when empty. Safe to run repeatedly.`,
	RunE: runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	lg, err := logger.New(logger.Config{Level: "warn", Console: true})
	if err != nil {
		return err
	}
	defer lg.Close()

	st, err := store.Open(store.Config{
		Path:   cfg.Store.Path,
		Logger: lg.Zerolog(),
	})
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Seed(); err != nil {
		return err
	}

	customers, err := st.ListCustomers("", 0)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s (%d customers)\n", cfg.Store.Path, len(customers))
	return nil
}
