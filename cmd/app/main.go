package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/readnest/library-back/internal/config"
	"github.com/readnest/library-back/internal/db"
	"github.com/readnest/library-back/internal/logging"
	"github.com/readnest/library-back/internal/service"
	"github.com/readnest/library-back/internal/transport"
)

func main() {
	root := &cobra.Command{
		Use:   "library-back",
		Short: "Library management REST API",
	}
	root.AddCommand(serveCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				fx.Provide(
					config.NewConfig,
					logging.NewLogger,
					db.NewGormClient,
				),
				service.Module,
				transport.Module,
				fx.Invoke(func(*transport.HTTPServer) {}),
			)
			app.Run()
			return nil
		},
	}
}
