package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/avolkov/tgarchive/internal/di"
	"github.com/avolkov/tgarchive/internal/modules/export/domain"
	exportService "github.com/avolkov/tgarchive/internal/modules/export/service"
)

func exportCmd() *cobra.Command {
	var fromDate, toDate string

	cmd := &cobra.Command{
		Use:   "export <identifiers-file>",
		Short: "Archive the chats listed in a file, one identifier per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Window validation happens before any identifier is touched.
			window, err := domain.NewWindow(fromDate, toDate)
			if err != nil {
				return err
			}

			identifiers, err := exportService.ReadIdentifierFile(args[0])
			if err != nil {
				return err
			}

			injector, err := di.Setup()
			if err != nil {
				return err
			}
			defer func() {
				if err := di.Shutdown(injector); err != nil {
					slog.Error("Error during shutdown", "error", err)
				}
			}()

			export := do.MustInvoke[*exportService.Service](injector)
			summary, err := export.Run(cmd.Context(), identifiers, window)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(map[string]any{"summary": exportService.Summarize(summary)}, "", "  ")
			if err != nil {
				return err
			}
			os.Stdout.Write(append(out, '\n'))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromDate, "from-date", "", "start date for filtering messages (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to-date", "", "end date for filtering messages (YYYY-MM-DD)")
	return cmd
}
