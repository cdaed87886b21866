package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/pubsub/internal/config"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pubsub",
		Short: "Typed in-process publish/subscribe",
		Long: `pubsub exercises the event library: it runs a scripted publish/subscribe
session and lists the declared events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (.toml, .yaml or .json)")

	cmd.AddCommand(
		newDemoCmd(opts),
		newEventsCmd(),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads the config file, applies the environment and validates.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
