package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aussiebroadwan/pali/internal/pali/app"
	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/aussiebroadwan/pali/pkg/slogx"
)

var (
	cfgFile string
	v       = viper.New()
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	if version != "dev" {
		app.BuildVersion = version
	}
	return newRootCmd(version, commit, date).Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pali",
		Short: "Self-hosted todo server gated by API keys",
		Long: `pali serves a todo API where every request carries an API key.

The first admin key comes from 'pali initialize' (or POST /initialize). A lost
or leaked admin key is replaced with 'pali reinitialize', which revokes every
admin key and mints a single new one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pali.yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newInitializeCmd())
	cmd.AddCommand(newReinitializeCmd())
	cmd.AddCommand(newKeyCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

func initConfig() error {
	app.SetDefaults(v)
	app.BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName("pali")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// The config file is optional.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// operator bundles what the offline commands need: the store, a lifecycle
// service over it and a context carrying a stderr logger.
type operator struct {
	ctx       context.Context
	store     store.Store
	lifecycle *service.LifecycleService
}

func openOperator(cmd *cobra.Command) (*operator, error) {
	cfg, err := app.LoadConfig(v)
	if err != nil {
		return nil, err
	}

	ctx := slogx.WithContext(cmd.Context(), app.NewLogger(cfg, os.Stderr))
	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &operator{
		ctx:       ctx,
		store:     st,
		lifecycle: &service.LifecycleService{Store: st, Validator: service.NewValidator()},
	}, nil
}

func (o *operator) Close() error { return o.store.Close() }
