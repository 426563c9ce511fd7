package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/npillmayer/webtree/server"
	"github.com/spf13/cobra"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered documents over HTTP",
		Long: `Serve starts an HTTP server which renders documents on request.

Examples:
  webtree serve --addr :8080
  curl 'localhost:8080/render?url=https://example.org'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(cfg, nil),
				ReadHeaderTimeout: 10 * time.Second,
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errs := make(chan error, 1)
			go func() {
				fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
				errs <- srv.ListenAndServe()
			}()
			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")
	return cmd
}
