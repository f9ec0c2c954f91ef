package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/frontpage/internal/config"
	"github.com/vango-dev/frontpage/internal/errors"
)

func initCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write the built-in configuration to the --config path so it can be
edited. An existing file is kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.configPath); err == nil && !force {
				return errors.New("E102").WithDetail(c.configPath + " already exists (use --force to overwrite)")
			}
			if err := config.Default().Save(c.configPath); err != nil {
				return err
			}
			success(cmd, "Wrote %s", c.configPath)
			info(cmd, "Start the site with: frontpage serve --config=%s", c.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
