// Package main is the entry point for the archiver CLI.
package main

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

func main() {
	setupLogging()

	if err := rootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "archiver",
		Short:         "Download Telegram chat history and archive it to S3",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), exportCmd())
	return root
}

// setupLogging fans logs out to a human-readable text stream on stdout and
// a JSON error stream on stderr.
func setupLogging() {
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	multiHandler := slogmulti.Fanout(textHandler, jsonHandler)
	slog.SetDefault(slog.New(multiHandler))
}
