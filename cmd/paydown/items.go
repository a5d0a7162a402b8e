package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hollis-dev/paydown/internal/cli"
	"github.com/hollis-dev/paydown/internal/score"
	"github.com/hollis-dev/paydown/internal/service"
)

func itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the extracted payment schedule",
		Long: `Show every payment in the current session, flagging items whose
confidence is too low to trust without review.`,
		RunE: runItems,
	}

	cmd.Flags().Bool("attention", false, "Only show items that need review")
	cmd.Flags().Bool("issues", false, "Also show segments that failed extraction")

	return cmd
}

func runItems(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	attentionOnly, _ := cmd.Flags().GetBool("attention")
	showIssues, _ := cmd.Flags().GetBool("issues")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	session, err := loadSession(ctx, store)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Payment schedule"))
	printItemTable(session, attentionOnly)

	attention := 0
	for i := range session.Items {
		if score.NeedsAttention(&session.Items[i]) {
			attention++
		}
	}
	if attention > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d item(s) need review. Correct them with 'paydown fix'.", attention)))
	}

	if showIssues && len(session.Issues) > 0 {
		fmt.Println()
		fmt.Println(cli.FormatTitle("Skipped segments"))
		for _, issue := range session.Issues {
			fmt.Printf("  segment %d  %s  %s\n",
				issue.SegmentIndex,
				cli.ErrorStyle.Render(string(issue.Reason)),
				cli.SubtleStyle.Render(issue.Snippet))
		}
	}

	return nil
}

func printItemTable(session *service.SessionRecord, attentionOnly bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, cli.TableHeaderStyle.Render("ID")+"\t"+
		cli.TableHeaderStyle.Render("PROVIDER")+"\t"+
		cli.TableHeaderStyle.Render("AMOUNT")+"\t"+
		cli.TableHeaderStyle.Render("DUE")+"\t"+
		cli.TableHeaderStyle.Render("INSTALLMENT")+"\t"+
		cli.TableHeaderStyle.Render("AUTOPAY")+"\t"+
		cli.TableHeaderStyle.Render("CONFIDENCE"))

	for i := range session.Items {
		item := &session.Items[i]
		if attentionOnly && !score.NeedsAttention(item) {
			continue
		}

		autopay := "no"
		if item.Autopay {
			autopay = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s %.2f\t%s\t%d of %d\t%s\t%s\n",
			shortID(item.ID),
			cli.FormatProvider(item.Provider),
			item.Currency, item.Amount,
			item.DueISO(),
			item.InstallmentNumber, item.InstallmentTotal,
			autopay,
			cli.FormatConfidence(item.Confidence))
	}
	_ = w.Flush()
}
