package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hollis-dev/paydown/internal/cli"
	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/quickfix"
)

func fixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix <item> <field> <value>",
		Short: "Correct one field of an extracted payment",
		Long: `Replace a single field of an item and re-score its confidence.

Fixable fields: dueDate (YYYY-MM-DD), amount, autopay (true/false),
installmentNumber, installmentTotal.

The pre-correction value is kept so the fix can be undone with
'paydown undo'. Repeated fixes to the same item keep the original
snapshot; undo always returns to the item as first extracted.`,
		Args: cobra.ExactArgs(3),
		RunE: runFix,
	}

	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
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

	patch, err := parsePatch(args[1], args[2])
	if err != nil {
		return err
	}

	qf := quickfix.RestoreSession(session.Items, session.Snapshots, quickfix.DefaultLimits())

	before, err := qf.Item(itemID)
	if err != nil {
		return err
	}

	after, err := qf.Apply(itemID, patch)
	if err != nil {
		return err
	}

	// Persist the snapshot first so a crash between writes never strands
	// a corrected item without its undo state.
	if err := store.SaveSnapshot(ctx, session.ID, before); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := store.UpdateItem(ctx, session.ID, *after); err != nil {
		return fmt.Errorf("failed to save correction: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %s of %s", patch.Field(), shortID(itemID))))
	fmt.Printf("  confidence: %s → %s\n",
		cli.FormatConfidence(before.Confidence),
		cli.FormatConfidence(after.Confidence))

	return nil
}

// parsePatch turns a field name and raw value into a typed patch.
func parsePatch(fieldName, raw string) (model.Patch, error) {
	field, err := model.ParseField(fieldName)
	if err != nil {
		return nil, err
	}

	switch field {
	case model.FieldDueDate:
		d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("due date must be YYYY-MM-DD, got %q", raw)
		}
		return model.DueDatePatch{Value: d}, nil

	case model.FieldAmount:
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("amount must be a number, got %q", raw)
		}
		return model.AmountPatch{Value: amount}, nil

	case model.FieldAutopay:
		autopay, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("autopay must be true or false, got %q", raw)
		}
		return model.AutopayPatch{Value: autopay}, nil

	case model.FieldInstallmentNumber:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("installment number must be an integer, got %q", raw)
		}
		return model.InstallmentNumberPatch{Value: n}, nil

	case model.FieldInstallmentTotal:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("installment total must be an integer, got %q", raw)
		}
		return model.InstallmentTotalPatch{Value: n}, nil
	}

	return nil, fmt.Errorf("unknown field %q", fieldName)
}
