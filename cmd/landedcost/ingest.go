package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"landedcost/internal/files"
	"landedcost/internal/ingestion"
	api "landedcost/pkg/contracts/api/v1"
)

// batchItem is the result for one file of a directory ingest
type batchItem struct {
	File    string               `json:"file"`
	Outcome *ingestion.Outcome   `json:"outcome,omitempty"`
	Failure *api.FailureEnvelope `json:"failure,omitempty"`
}

func ingestCmd(build func(*cobra.Command) (*session, error)) *cobra.Command {
	var latest bool

	cmd := &cobra.Command{
		Use:   "ingest <file|directory>",
		Short: "Parse quote spreadsheets and print the normalized products",
		Long: `Parse a supplier quote and print the ingestion result.

When given a directory every quote file inside it is processed, oldest
first, and the command fails if any of them fails.

Examples:
  # Import an Excel quote
  landedcost ingest ~/Downloads/cotizacion.xlsx

  # Import a semicolon separated export
  landedcost ingest pedido.csv

  # Import only the newest quote in a folder
  landedcost ingest ~/quotes --latest`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := build(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.shutdown(cmd.Context()) }()

			info, err := os.Stat(args[0])
			if err != nil || !info.IsDir() {
				return ingestFile(cmd, s, args[0])
			}

			quotes, err := files.NewDiscovery("", s.quotes...).FindQuotes(args[0])
			if err != nil {
				return err
			}
			if latest {
				newest, ok := files.Latest(quotes)
				if !ok {
					return fmt.Errorf("no quote files in %s", args[0])
				}
				return ingestFile(cmd, s, newest.Path)
			}
			return ingestDir(cmd, s, quotes)
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "with a directory, ingest only the most recently modified quote")
	return cmd
}

func ingestFile(cmd *cobra.Command, s *session, path string) error {
	outcome, err := s.services.Ingestion.ProcessFile(cmd.Context(), path)
	if err != nil {
		return s.fail(err)
	}

	s.logger.InfoContext(cmd.Context(), "file ingested",
		slog.String("file", path),
		slog.Int("products", len(outcome.Products)),
		slog.Int("errors", outcome.ProcessingInfo.ErrorsCount),
	)
	return s.succeed("file processed successfully", outcome)
}

func ingestDir(cmd *cobra.Command, s *session, quotes []files.FileInfo) error {
	items := make([]batchItem, 0, len(quotes))
	failed := 0

	for _, q := range quotes {
		outcome, err := s.services.Ingestion.ProcessFile(cmd.Context(), q.Path)
		if err != nil {
			env := s.errors.ToAPIError(err).Envelope(s.now().UTC())
			items = append(items, batchItem{File: q.Name, Failure: &env})
			failed++
			s.logger.WarnContext(cmd.Context(), "file rejected",
				slog.String("file", q.Path),
				slog.String("stage", env.Stage),
			)
			continue
		}
		items = append(items, batchItem{File: q.Name, Outcome: outcome})
	}

	if err := s.succeed(fmt.Sprintf("%d of %d files processed successfully", len(quotes)-failed, len(quotes)), items); err != nil {
		return err
	}
	if failed > 0 {
		return errReported
	}
	return nil
}
