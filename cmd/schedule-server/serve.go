package main

import (
	"github.com/half-nothing/simple-schedule/internal/http_server"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(_ *cobra.Command) error {
	app, err := newApplication(true)
	if err != nil {
		return err
	}
	defer app.cleaner.Clean()

	httpConfig := app.content.ConfigManager().Config().Server.HttpServer
	if !httpConfig.Enabled {
		app.logger.Warn("Http server is disabled, nothing to serve")
		return nil
	}
	http_server.StartHttpServer(app.content, app.router, app.services)
	return nil
}
