package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimiro1/banner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/deskpilot/deskpilot/internal/dependency"
	"github.com/deskpilot/deskpilot/internal/shared/cmdutils"
)

var (
	gatewayHost string
	gatewayPort int
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Serve the assistant over a websocket",
	RunE:  runGateway,
}

func init() {
	gatewayCmd.Flags().StringVar(&gatewayHost, "host", "", "Listen host (default from config)")
	gatewayCmd.Flags().IntVarP(&gatewayPort, "port", "p", 0, "Gateway port (default from config)")
}

func printBanner() {
	tpl := "{{ .Title \"deskpilot\" \"\" 0 }}\nVersion: " + version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}

func runGateway(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if gatewayHost != "" {
		cfg.Gateway.Host = gatewayHost
	}
	if gatewayPort != 0 {
		cfg.Gateway.Port = gatewayPort
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	srv := container.Server()

	printBanner()
	fmt.Printf("%s Model: %s\n", cmdutils.Logo, container.ModelGateway().DefaultModel())
	fmt.Printf("%s Listening on ws://%s/ws. Press Ctrl+C to stop.\n", cmdutils.Logo, srv.Addr())

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
