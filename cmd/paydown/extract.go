package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hollis-dev/paydown/internal/cli"
	"github.com/hollis-dev/paydown/internal/common"
	"github.com/hollis-dev/paydown/internal/engine"
	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/service"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract BNPL payments from pasted reminder emails",
		Long: `Parse a blob of pasted reminder emails into a payment schedule.

Reads from the given file, or from stdin when no file is provided.
Each extraction replaces the previous session.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().String("locale", "", "Force date locale (US or EU) instead of inferring one")
	cmd.Flags().String("timezone", "", "IANA timezone for due-date checks (default: local)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	handler := cli.NewInterruptHandler(os.Stdout)
	ctx = handler.HandleInterrupts(ctx)

	rawText, err := readPaste(args)
	if err != nil {
		return err
	}

	settings, err := extractionSettings(cmd)
	if err != nil {
		return err
	}

	bar := cli.NewProgressBar(os.Stderr, -1, "Extracting payments...")
	settings.Progress = func(done, total int) {
		bar.ChangeMax(total)
		_ = bar.Set(done)
	}

	result, err := engine.Extract(ctx, rawText, settings)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if errors.Is(err, engine.ErrPasteTooLarge) {
		return common.NewUserError(
			fmt.Sprintf("Paste is too large (limit %d characters). Split it and extract in batches.", engine.MaxPasteLength),
			err)
	}
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	session := &service.SessionRecord{
		ID:                uuid.NewString(),
		CreatedAt:         time.Now().UTC(),
		RawText:           result.RawText,
		Timezone:          settings.Timezone,
		LocaleUsed:        result.LocaleUsed,
		Items:             result.Items,
		Issues:            result.Issues,
		DuplicatesRemoved: result.DuplicatesRemoved,
	}
	if err := store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Extracted %d payments (%d duplicates removed, %d segments skipped)",
		len(result.Items), result.DuplicatesRemoved, len(result.Issues))))
	fmt.Println(cli.FormatInfo(fmt.Sprintf("Date locale: %s. Review with 'paydown items'.", result.LocaleUsed)))

	return nil
}

// readPaste reads the raw paste from the named file or stdin.
func readPaste(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}

	slog.Debug("Reading paste from stdin")
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func extractionSettings(cmd *cobra.Command) (engine.Settings, error) {
	settings := engine.Settings{
		LangTag:       viper.GetString("dates.language"),
		Timezone:      viper.GetString("dates.timezone"),
		DayFirstZones: viper.GetStringSlice("dates.dayfirst_timezones"),
	}

	if tz, _ := cmd.Flags().GetString("timezone"); tz != "" {
		settings.Timezone = tz
	}
	if settings.Timezone == "" {
		settings.Timezone = time.Local.String()
	}

	localeFlag, _ := cmd.Flags().GetString("locale")
	if localeFlag == "" {
		localeFlag = viper.GetString("dates.locale")
	}
	if localeFlag != "" {
		locale, err := model.ParseDateLocale(localeFlag)
		if err != nil {
			return engine.Settings{}, err
		}
		settings.Locale = &locale
	}

	return settings, nil
}
