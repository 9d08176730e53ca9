package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askThreadID string

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Run one query through the assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askThreadID, "thread", "default", "conversation thread ID")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	manager, err := a.newManager(nil)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	response := manager.Process(cmd.Context(), askThreadID, query)
	fmt.Fprintln(cmd.OutOrStdout(), response)

	return nil
}
