package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/dialogs/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves POST /api/messages, the conversation admin endpoints under
/api/conversations, /healthz and, when metrics are enabled, /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cfg, logger, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := cfg.Listen
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			addr = listen
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           rt.Engine.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		g, ctx := errgroup.WithContext(sc)
		g.Go(func() error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger.Info("server listening", "addr", ln.Addr().String(), "store", cfg.Store.Kind, "metrics", cfg.Metrics)
			cli.PrintSystemMessage(cmd.OutOrStdout(), "Listening on %s", ln.Addr())
			if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("shutting down", "signal", sc.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Address to listen on (default: listen from config)")
}
