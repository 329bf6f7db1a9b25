package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/chunkscribe/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the transcription API over HTTP",
	Long: `Serve exposes POST /v1/transcriptions, GET /health and GET /info.

Uploads are either multipart form data with the audio in the "file" part or
a raw request body. The API key is taken from "Authorization: Bearer", then
X-API-Key, then transcription.api_key.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	srv := server.New(app.Cfg.Server, app.Logger)
	app.OnStart(func(ctx context.Context) error {
		srv.ApplyMiddleware()
		srv.RegisterDefaultEndpoints(app.Name, app.Version, app.HealthCheckers()...)
		server.NewTranscriptionHandler(app.Transcriber, app.Cfg.Transcription.APIKey, app.Logger).
			Register(srv.GinEngine())
		return srv.Start(ctx)
	})
	app.OnStop(srv.Stop)

	return app.Run(cmd.Context())
}
