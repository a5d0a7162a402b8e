package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hollis-dev/paydown/internal/cli"
	"github.com/hollis-dev/paydown/internal/config"
	"github.com/hollis-dev/paydown/internal/csvio"
	"github.com/hollis-dev/paydown/internal/risk"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the payment schedule to CSV or XLSX",
		Long: `Write the current schedule to a timestamped file in the working
directory. Risk annotations from the configured paycheck schedule are
included as extra columns.`,
		RunE: runExport,
	}

	cmd.Flags().String("format", "csv", "Export format (csv, xlsx)")
	cmd.Flags().StringP("output", "o", "", "Output path (default: export-<timestamp> in the current directory)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("unknown export format %q (expected csv or xlsx)", format)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	session, err := loadSession(ctx, store)
	if err != nil {
		return err
	}

	riskCtx, warnings := config.BuildRiskContext(config.LoadRiskSettings())
	for _, warning := range warnings {
		fmt.Println(cli.FormatWarning(warning))
	}
	findings := risk.Detect(session.Items, riskCtx)

	now := time.Now()
	switch format {
	case "xlsx":
		if output == "" {
			output = csvio.XLSXFilename(now)
		}
		data, exportErr := csvio.ExportXLSX(session.Items, findings)
		if exportErr != nil {
			return fmt.Errorf("failed to build workbook: %w", exportErr)
		}
		if err := os.WriteFile(output, data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}

	default:
		if output == "" {
			output = csvio.Filename(now)
		}
		f, createErr := os.Create(output)
		if createErr != nil {
			return fmt.Errorf("failed to create %s: %w", output, createErr)
		}
		if err := csvio.Export(f, session.Items, findings); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
	}

	if len(session.Items) > csvio.ExportWarnRows {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Large export: %d rows. Spreadsheet apps may be slow to open it.", len(session.Items))))
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s Exported %d payments to %s", cli.ExportIcon, len(session.Items), output)))
	return nil
}
