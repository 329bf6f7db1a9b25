package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/chunkscribe/bootstrap"
	"github.com/kbukum/chunkscribe/errors"
	"github.com/kbukum/chunkscribe/logger"
	"github.com/kbukum/chunkscribe/transcription"
	"github.com/kbukum/chunkscribe/util"
)

var (
	apiKey     string
	model      string
	outputFile string
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe one audio file and print the text",
	Long: `Transcribe reads an audio file, sends it directly or in chunks depending
on its size, and writes the transcript to stdout or --output.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().StringVar(&apiKey, "api-key", "", "API key (default: transcription.api_key)")
	transcribeCmd.Flags().StringVar(&model, "model", "", "model name (default: transcription.model)")
	transcribeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the transcript to this file instead of stdout")
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	audio, err := readAudioFile(args[0])
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	req := transcription.Request{
		Audio:  audio,
		APIKey: util.Coalesce(apiKey, app.Cfg.Transcription.APIKey),
		Model:  model,
	}
	app.Logger.Info("transcribing file", logger.Fields(
		logger.FieldPath, args[0], "size", util.FormatBytes(int64(len(audio))),
	))

	return app.RunTask(cmd.Context(), func(ctx context.Context, a *bootstrap.App) error {
		res, err := a.Transcriber.Transcribe(ctx, req)
		if err != nil {
			return err
		}
		return writeTranscript(cmd, res.Text)
	})
}

func readAudioFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("audio file", path)
		}
		return nil, errors.InvalidInput("file", err.Error()).WithCause(err)
	}
	return data, nil
}

func writeTranscript(cmd *cobra.Command, text string) error {
	if outputFile == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
