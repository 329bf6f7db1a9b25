// Package bootstrap wires chunkscribe together and owns its lifecycle.
//
//	app, err := bootstrap.NewApp(cfg)
//	err = app.RunTask(ctx, func(ctx context.Context, app *bootstrap.App) error {
//	    res, err := app.Transcriber.Transcribe(ctx, req)
//	    ...
//	})
//
// Startup sets up telemetry, builds the ffmpeg tool, workspace, remote
// client, chunked transcriber and router, runs OnStart hooks, checks that
// ffmpeg and the workspace are usable, then runs OnReady hooks. Shutdown
// runs OnStop hooks and flushes telemetry within the graceful timeout.
package bootstrap
