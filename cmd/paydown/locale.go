package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hollis-dev/paydown/internal/cli"
	"github.com/hollis-dev/paydown/internal/engine"
	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/service"
)

func localeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locale",
		Short: "Show the date locale used by the current session",
		Long: `Show or change how ambiguous slash dates like 01/02/2025 are read.

US reads them month-first, EU day-first. Changing the locale re-runs
extraction over the original paste, so manual corrections are lost;
the command asks for confirmation when any exist.`,
		RunE: runLocaleShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <US|EU>",
		Short: "Switch the date locale and re-extract",
		Args:  cobra.ExactArgs(1),
		RunE:  runLocaleSet,
	})

	return cmd
}

func runLocaleShow(cmd *cobra.Command, _ []string) error {
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

	order := "month-first (M/D/Y)"
	if session.LocaleUsed == model.LocaleEU {
		order = "day-first (D/M/Y)"
	}
	fmt.Println(cli.FormatInfo(fmt.Sprintf("Date locale: %s — slash dates read %s", session.LocaleUsed, order)))
	return nil
}

func runLocaleSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	locale, err := model.ParseDateLocale(args[0])
	if err != nil {
		return err
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

	if session.LocaleUsed == locale {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Date locale is already %s", locale)))
		return nil
	}
	if session.RawText == "" {
		return fmt.Errorf("session has no original paste to re-extract (imported sessions cannot switch locale)")
	}

	if len(session.Snapshots) > 0 {
		reader := cli.NewNonBlockingReader(os.Stdin)
		confirmed, confirmErr := reader.Confirm(ctx, os.Stdout,
			fmt.Sprintf("Switching to %s re-runs extraction and discards your corrections. Continue?", locale))
		if confirmErr != nil {
			return confirmErr
		}
		if !confirmed {
			fmt.Println(cli.FormatInfo("Locale unchanged."))
			return nil
		}
	}

	result, err := engine.Extract(ctx, session.RawText, engine.Settings{
		Locale:   &locale,
		Timezone: session.Timezone,
	})
	if err != nil {
		return fmt.Errorf("re-extraction failed: %w", err)
	}

	replacement := &service.SessionRecord{
		ID:                uuid.NewString(),
		CreatedAt:         time.Now().UTC(),
		RawText:           result.RawText,
		Timezone:          session.Timezone,
		LocaleUsed:        result.LocaleUsed,
		Items:             result.Items,
		Issues:            result.Issues,
		DuplicatesRemoved: result.DuplicatesRemoved,
	}
	if err := store.SaveSession(ctx, replacement); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Re-extracted %d payments under the %s locale",
		len(result.Items), locale)))
	return nil
}
