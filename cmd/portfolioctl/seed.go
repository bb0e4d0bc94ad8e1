package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/client"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/seed"
)

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Load starter content into empty collections",
		Long: `Seed reads a YAML file with projects, blogs and education sections and
inserts each section only when the matching collection on the server is empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			c, err := a.connect()
			if err != nil {
				return err
			}

			res, err := seed.Apply(cmd.Context(), f, seed.Collections{
				Projects:  client.NewResource[content.Project](c, "projects"),
				Blogs:     client.NewResource[content.BlogPost](c, "blogs"),
				Education: client.NewResource[content.Education](c, "education"),
			})
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d projects, %d blog posts, %d education entries\n",
				res.Projects, res.Blogs, res.Education)
			return nil
		},
	}
}
