package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/pubsub/internal/event/events"
	"github.com/dshills/pubsub/internal/event/topic"
)

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events [pattern]",
		Short: "List declared events",
		Long: `List the declared events whose names match pattern.
"*" matches one name segment and "**" any number of segments; the default
pattern lists everything.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := topic.Topic(topic.WildcardMulti)
			if len(args) == 1 {
				pattern = topic.Topic(args[0])
			}
			if err := pattern.ValidatePattern(); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tARGS")
			for _, info := range events.Registry.Find(pattern) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.ID, info.Name, info.ArgType)
			}
			return tw.Flush()
		},
	}
}
