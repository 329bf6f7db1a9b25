package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/chunkscribe/bootstrap"
	"github.com/kbukum/chunkscribe/config"
	"github.com/kbukum/chunkscribe/errors"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "chunkscribe",
	Short: "Transcribe audio of any size",
	Long: `chunkscribe sends audio to a Whisper-compatible transcription API.

Files up to 25 MB are uploaded as they are. Larger files are split with
ffmpeg into time ranges of roughly 20 MB each, transcribed one after another,
and the transcripts are joined in order.

Configuration is read from config.yml, .env and the environment
(for example TRANSCRIPTION_API_KEY, FFMPEG_PATH, SERVER_PORT).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yml or ./cmd/chunkscribe/config.yml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load (default: ./.env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func loadConfig() (*config.Config, error) {
	var opts []config.LoaderOption
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newApp() (*bootstrap.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return bootstrap.NewApp(cfg)
}

// printError writes err with its code and details when it is an AppError.
func printError(w io.Writer, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "error: %s: %s\n", appErr.Code, appErr.Message)
	if err.Error() != appErr.Error() {
		fmt.Fprintf(w, "  at: %v\n", err)
	}
	for k, v := range appErr.Details {
		fmt.Fprintf(w, "  %s: %v\n", k, v)
	}
}
