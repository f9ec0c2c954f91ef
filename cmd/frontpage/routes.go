package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vango-dev/frontpage/app/routes"
	"github.com/vango-dev/frontpage/pkg/server"
)

func routesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(); err != nil {
				return err
			}
			srv := server.New(c.cfg, nil, routes.Routes(), zap.NewNop(), routes.Options()...)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "METHODS\tPATTERN\tPAGE")
			for _, r := range srv.Routes() {
				name := r.Name
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", strings.Join(r.Methods, ","), r.Pattern, name)
			}
			return tw.Flush()
		},
	}
}
