package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) statsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show visitor and content statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			stats, err := c.Stats(cmd.Context())
			if err != nil {
				return explain(err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Total views\t%d\n", stats.TotalVisitors)
			fmt.Fprintf(tw, "Unique visitors\t%d\n", stats.UniqueVisitors)
			fmt.Fprintf(tw, "Today\t%d\n", stats.VisitorsToday)
			fmt.Fprintf(tw, "Last 7 days\t%d\n", stats.VisitorsThisWeek)

			names := make([]string, 0, len(stats.Content))
			for name := range stats.Content {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(tw, "%s\t%d\n", name, stats.Content[name])
			}
			if len(stats.TopPaths) > 0 {
				fmt.Fprintln(tw, "\nTop pages\t")
				for _, p := range stats.TopPaths {
					fmt.Fprintf(tw, "  %s\t%d\n", p.Path, p.Views)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
