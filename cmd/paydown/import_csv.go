package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hollis-dev/paydown/internal/cli"
	"github.com/hollis-dev/paydown/internal/csvio"
	"github.com/hollis-dev/paydown/internal/dedup"
	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/service"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a payment schedule from CSV",
		Long: `Load a schedule previously exported with 'paydown export', or any
CSV with the columns provider,amount,currency,dueISO,autopay.

A malformed row aborts the whole import; nothing is saved unless the
entire file is valid. The imported schedule replaces the current
session.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()

	items, err := csvio.Import(f)
	if err != nil {
		return err
	}

	items, removed := dedup.Collapse(items)

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	session := &service.SessionRecord{
		ID:                uuid.NewString(),
		CreatedAt:         time.Now().UTC(),
		LocaleUsed:        model.LocaleUS,
		Items:             items,
		DuplicatesRemoved: removed,
	}
	if err := store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d payments from %s (%d duplicates removed)",
		len(items), args[0], removed)))
	return nil
}
