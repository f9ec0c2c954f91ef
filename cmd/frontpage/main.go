// Command frontpage serves the community site.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vango-dev/frontpage/internal/config"
	"github.com/vango-dev/frontpage/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli carries the persistent flags and what they load.
type cli struct {
	configPath string
	logLevel   string
	dev        bool

	cfg    *config.Config
	logger *zap.Logger
}

// load reads the configuration, applies flag overrides and builds the
// logger.
func (c *cli) load() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.dev {
		cfg.Log.Dev = true
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Dev)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "frontpage",
		Short: "The community site server",
		Long: `Frontpage serves the marketing and community site: the home page,
blog, podcast, careers, reports and contact pages.

Pages are rendered on the server. A small script connects each page
back over a WebSocket so the header can follow the scroll direction,
the theme toggle can switch without a reload and forms answer inline.

Configuration is read from frontpage.yaml and FRONTPAGE_* environment
variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", config.FileName, "Configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from config)")
	root.PersistentFlags().BoolVar(&c.dev, "dev", false, "Human-readable console logs")

	root.AddCommand(
		serveCmd(c),
		routesCmd(c),
		initCmd(c),
		versionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fmt.Sprintf(format, args...))
}
