package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tasklens/tasklens/balance"
	"github.com/tasklens/tasklens/internal/ui"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Inspect and adjust attention balance across root goals",
}

// lens balance show
var balanceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show desired vs. actual attention share per root goal",
	Args:  cobra.NoArgs,
	RunE:  runBalanceShow,
}

var balanceShowJSON bool

// lens balance set
var balanceSetCmd = &cobra.Command{
	Use:   "set <id> <desired-credits>",
	Short: "Set a goal's desired share, rebalancing its siblings",
	Args:  cobra.ExactArgs(2),
	RunE:  runBalanceSet,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.AddCommand(balanceShowCmd, balanceSetCmd)

	balanceShowCmd.Flags().BoolVar(&balanceShowJSON, "json", false, "Output as JSON")
}

func runBalanceShow(cmd *cobra.Command, args []string) error {
	now, err := evaluationTime()
	if err != nil {
		return err
	}

	st, err := openStoreReadOnly()
	if err != nil {
		if errorIsNoDocument(err) {
			fmt.Println("No goals found.")
			return nil
		}
		return err
	}
	snap := st.Snapshot()

	data := balance.Project(snap, now)
	if balanceShowJSON {
		return encodeJSONToStdout(data)
	}

	if len(data.Items) == 0 {
		fmt.Println("No goals found.")
		return nil
	}

	prefixLengths := taskIDIndex(snap).PrefixLengths()
	builder := ui.NewTableBuilder([]string{"ID", "TARGET", "ACTUAL", "CREDITS", "GOAL"}, len(data.Items))
	for _, item := range data.Items {
		goal := ui.TruncateTableCell(item.Title)
		if item.IsStarving {
			goal += " (starving)"
		}
		builder.AddRow([]string{
			ui.HighlightID(string(item.ID), ui.PrefixLength(prefixLengths, string(item.ID))),
			formatPercent(item.TargetPercent),
			formatPercent(item.ActualPercent),
			fmt.Sprintf("%.2f", item.EffectiveCredits),
			goal,
		})
	}
	fmt.Print(builder.String())
	return nil
}

func runBalanceSet(cmd *cobra.Command, args []string) error {
	newValue, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parse desired credits %q: %w", args[1], err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	id, err := resolveTaskArg(snap, args[0])
	if err != nil {
		return err
	}

	shares, err := st.SetDesiredCredits(id, newValue)
	if err != nil {
		return err
	}

	highlight := taskHighlighter(snap)
	for _, share := range shares {
		title := ""
		if t, ok := snap.Tasks[share.ID]; ok {
			title = t.Title
		}
		fmt.Printf("%s %.2f  %s\n", highlight(string(share.ID)), share.DesiredCredits, title)
	}
	return nil
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.0f%%", value*100)
}
