package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/dshills/pubsub/internal/demo"
	"github.com/dshills/pubsub/internal/event"
	"github.com/dshills/pubsub/internal/logging"
	"github.com/dshills/pubsub/internal/metrics"
)

func newDemoCmd(root *rootOptions) *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted publish/subscribe session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if showMetrics {
				cfg.Metrics.Enabled = true
			}

			log, closer, err := logging.New(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			opts := []event.PublisherOption{
				event.WithName(cfg.Publisher.Name),
				event.WithLogger(log),
				event.WithPanicHandler(func(v any, stack []byte) {
					log.Error().Interface("panic", v).Bytes("stack", stack).Msg("Callback panicked")
				}),
			}
			if cfg.Publisher.ReportUnheard {
				opts = append(opts, event.WithReportUnheard())
			}

			var reg *prometheus.Registry
			if cfg.Metrics.Enabled {
				reg = prometheus.NewRegistry()
				collector, err := metrics.NewCollector(reg, cfg.Metrics.Namespace)
				if err != nil {
					return err
				}
				opts = append(opts, event.WithObserver(collector))
			}

			p := event.NewPublisher(opts...)
			defer p.Close()

			rep, err := demo.Run(cmd.Context(), p, log)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), rep)

			if reg != nil {
				return writeMetrics(cmd.OutOrStdout(), reg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print the collected metrics after the run")
	return cmd
}

func printReport(w io.Writer, rep *demo.Report) {
	fmt.Fprintf(w, "%s: first=%d second=%d order=%v\n", demo.A, rep.First, rep.Second, rep.Order)
	fmt.Fprintf(w, "%s: received=%v\n", demo.B, rep.Received)
	fmt.Fprintf(w, "indexed: %v\n", rep.Indexed)
	fmt.Fprintf(w, "dispatched=%d succeeded=%d listeners=%d\n",
		rep.Stats.Dispatch.Dispatched, rep.Stats.Dispatch.Succeeded, rep.Stats.Listeners)
}

// writeMetrics writes every gathered family in the text exposition format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

