package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-chi/render"
	"github.com/spf13/cobra"

	apierrors "landedcost/internal/errors"
	"landedcost/internal/exporter"
	"landedcost/internal/middleware"
	api "landedcost/pkg/contracts/api/v1"
)

func allocateCmd(build func(*cobra.Command) (*session, error)) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "allocate <request.json>",
		Short: "Allocate landed costs for a calculation request",
		Long: `Read a calculation request (the body accepted by POST /api/calculate-costs)
and print the allocation and report.

Examples:
  # Print the allocation
  landedcost allocate pedido.json

  # Also write the per-product rows as CSV
  landedcost allocate pedido.json --csv rateio.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := build(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.shutdown(cmd.Context()) }()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read request: %w", err)
			}

			var req api.AllocationRequest
			if len(bytes.TrimSpace(data)) == 0 {
				return s.fail(apierrors.MissingData())
			}
			if err := render.DecodeJSON(bytes.NewReader(data), &req); err != nil {
				return s.fail(apierrors.InvalidJSON(err))
			}
			if err := middleware.NewRequestValidator(s.logger).ValidateStruct(&req); err != nil {
				return s.fail(err)
			}

			result, err := s.services.Allocation.Calculate(cmd.Context(), req)
			if err != nil {
				return s.fail(err)
			}

			if csvPath != "" {
				csv := exporter.NewAllocationExporter(exporter.NewCSVWriter("").WithLogger(s.logger))
				if err := csv.Export(csvPath, result.Calculation); err != nil {
					return fmt.Errorf("failed to write csv: %w", err)
				}
			}

			return s.succeed("cost calculation completed successfully", result)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "write the allocation rows to this CSV file")
	return cmd
}
