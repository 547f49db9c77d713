package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "console",
		Short:         "Vet clinic admin console",
		Long:          "Cambia el estado de las citas y mantiene la historia clínica asociada.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (optional)")

	root.AddCommand(transitionCmd(&envFile))
	root.AddCommand(historyCmd(&envFile))
	root.AddCommand(followUpCmd())
	return root
}
