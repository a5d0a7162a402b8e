package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollis-dev/paydown/internal/cli"
	"github.com/hollis-dev/paydown/internal/quickfix"
)

func undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <item>",
		Short: "Revert an item to its originally extracted values",
		Long: `Restore an item exactly as it was extracted, including its
confidence score, discarding every correction made to it.`,
		Args: cobra.ExactArgs(1),
		RunE: runUndo,
	}
}

func runUndo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	session, err := loadSession(ctx, store)
	if err != nil {
		return err
	}

	itemID, err := resolveItemID(session, args[0])
	if err != nil {
		return err
	}

	qf := quickfix.RestoreSession(session.Items, session.Snapshots, quickfix.DefaultLimits())

	restored, err := qf.Undo(itemID)
	if errors.Is(err, quickfix.ErrNothingToUndo) {
		return fmt.Errorf("item %s has no corrections to undo", shortID(itemID))
	}
	if err != nil {
		return err
	}

	if err := store.UpdateItem(ctx, session.ID, *restored); err != nil {
		return fmt.Errorf("failed to restore item: %w", err)
	}
	if err := store.DeleteSnapshot(ctx, session.ID, itemID); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Restored %s to its extracted values", shortID(itemID))))
	fmt.Printf("  confidence: %s\n", cli.FormatConfidence(restored.Confidence))

	return nil
}
