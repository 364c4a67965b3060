package cli

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pali/internal/pali/app"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the pali API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(v)
			if err != nil {
				return err
			}

			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}

	cmd.Flags().IntP("port", "p", 8080, "HTTP listen port")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))

	return cmd
}
