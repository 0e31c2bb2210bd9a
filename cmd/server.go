package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/kompas-ai/kompas/kompas"
)

func init() {
	ServerCMD.Flags().AddFlagSet(kompas.FlagSet)
}

var ServerCMD = cobra.Command{
	Use:  "server",
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg, err := kompas.LoadAndValidate(cmd.Flags())
		if err != nil {
			return err
		}

		srv, err := kompas.NewHttp(ctx, *cfg)
		if err != nil {
			return err
		}

		return srv.Start()
	},
}
