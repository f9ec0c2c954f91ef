package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/frontpage/app/routes"
	"github.com/vango-dev/frontpage/internal/config"
	"github.com/vango-dev/frontpage/internal/errors"
	"github.com/vango-dev/frontpage/pkg/content"
	"github.com/vango-dev/frontpage/pkg/server"
)

func serveCmd(c *cli) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the site",
		Long: `Load content and serve the site until interrupted.

On SIGINT or SIGTERM live sessions are told the server is shutting
down, then in-flight requests are drained.

Examples:
  frontpage serve
  frontpage serve --addr=:9000 --watch
  FRONTPAGE_CONTENT__SOURCE=s3 frontpage serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(); err != nil {
				return err
			}
			defer c.logger.Sync()

			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			if watch {
				if c.cfg.Content.Source != config.SourceDir {
					return errors.New("E101").WithDetail("--watch is only supported for the dir source")
				}
				c.cfg.Content.Watch = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, c.cfg, c.logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload content when files change")

	return cmd
}

// newSource builds the configured content source.
func newSource(cfg config.ContentConfig) content.Source {
	if cfg.Source == config.SourceS3 {
		return content.NewS3Source(content.NewS3Client(cfg.S3), cfg.S3.Bucket, cfg.S3.Prefix)
	}
	return content.NewDirSource(cfg.Dir)
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store := content.NewStore(newSource(cfg.Content), logger.Named("content"))
	if err := store.Reload(ctx); err != nil {
		return err
	}

	srv := server.New(cfg, store, routes.Routes(), logger, routes.Options()...)
	logger.Info("starting frontpage",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("content", cfg.Content.Source),
		zap.Int("entries", store.Count()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if cfg.Content.Watch {
		g.Go(func() error {
			return store.Watch(gctx, cfg.Content.Dir, content.DefaultDebounce)
		})
	}
	return g.Wait()
}
