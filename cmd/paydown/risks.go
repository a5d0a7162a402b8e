package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollis-dev/paydown/internal/cli"
	"github.com/hollis-dev/paydown/internal/config"
	"github.com/hollis-dev/paydown/internal/risk"
)

func risksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risks",
		Short: "Detect scheduling hazards in the payment schedule",
		Long: `Scan the current schedule for hazards:

  COLLISION        multiple payments land on the same date
  CASH_CRUNCH      projected balance drops below your buffer
  WEEKEND_AUTOPAY  an autopay charge falls on a non-business day

Cash crunch detection needs paycheck dates and amounts in your config
(risk.paycheck_dates, risk.paycheck_amount); it is skipped otherwise.`,
		RunE: runRisks,
	}

	cmd.Flags().Int("collision-window", 0, "Days within which due dates count as colliding (0 = same day)")

	return cmd
}

func runRisks(cmd *cobra.Command, _ []string) error {
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

	settings := config.LoadRiskSettings()
	if cmd.Flags().Changed("collision-window") {
		settings.CollisionWindowDays, _ = cmd.Flags().GetInt("collision-window")
	}

	riskCtx, warnings := config.BuildRiskContext(settings)
	for _, warning := range warnings {
		fmt.Println(cli.FormatWarning(warning))
	}

	findings := risk.Detect(session.Items, riskCtx)
	if len(findings) == 0 {
		fmt.Println(cli.FormatSuccess("No scheduling hazards found"))
		if !riskCtx.HasPaycheckContext() {
			fmt.Println(cli.FormatInfo("Cash crunch detection was skipped: no paycheck schedule configured."))
		}
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s %d hazard(s) found", cli.RiskIcon, len(findings))))
	for _, f := range findings {
		fmt.Printf("  %s  %s  %s\n",
			cli.BoldStyle.Render(string(f.Type)),
			cli.FormatSeverity(f.Severity),
			f.Message)
	}

	if !riskCtx.HasPaycheckContext() {
		fmt.Println(cli.FormatInfo("Cash crunch detection was skipped: no paycheck schedule configured."))
	}

	return nil
}
