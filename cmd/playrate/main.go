package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"playrate/internal/platform/config"
	"playrate/internal/platform/logger"
	"playrate/internal/platform/store"
	"playrate/internal/services/api"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs, build is swapped in tests
type app struct {
	out    io.Writer
	asJSON bool
	build  func(ctx context.Context) (*api.API, func(), error)
}

func main() {
	_ = config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{out: os.Stdout, build: buildAPI}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// buildAPI wires the same modules the server uses, without the http layer
func buildAPI(ctx context.Context) (*api.API, func(), error) {
	root := config.New()
	l := logger.Get()

	st, err := store.Open(ctx, store.ConfigFromEnv(root), store.WithLogger(*l))
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	a := api.New(api.Options{Config: root, Store: st, Logger: *l})
	if err := a.Warm(ctx); err != nil {
		l.Warn().Err(err).Msg("cache warm failed")
	}
	return a, func() { _ = st.Close() }, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "playrate",
		Short:         "Resolve songs and albums and report their play counts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(a.out)
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		newResolveCmd(a),
		newPlaycountCmd(a),
		newPlaycountsCmd(a),
		newParseCmd(a),
		newVersionCmd(a),
	)
	return root
}
