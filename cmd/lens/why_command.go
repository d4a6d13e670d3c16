package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasklens/tasklens/engine"
	"github.com/tasklens/tasklens/internal/ui"
	"github.com/tasklens/tasklens/task"
)

// lens why
var whyCmd = &cobra.Command{
	Use:   "why <id>",
	Short: "Explain a task's score, factor by factor",
	Args:  cobra.ExactArgs(1),
	RunE:  runWhy,
}

var (
	whyPlace string
	whyJSON  bool
)

func init() {
	rootCmd.AddCommand(whyCmd)

	whyCmd.Flags().StringVar(&whyPlace, "place", "", "Evaluate under this place filter")
	whyCmd.Flags().BoolVar(&whyJSON, "json", false, "Output as JSON")
}

func runWhy(cmd *cobra.Command, args []string) error {
	now, err := evaluationTime()
	if err != nil {
		return err
	}

	st, err := openStoreReadOnly()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	id, err := resolveTaskArg(snap, args[0])
	if err != nil {
		return err
	}

	filter, err := listViewFilter(snap, whyPlace)
	if err != nil {
		return err
	}

	trace, ok := engine.Trace(snap, filter, engine.Options{
		Context: task.Context{Now: now, CurrentPlaceID: filter.PlaceID},
	}, id)
	if !ok {
		return fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}

	if whyJSON {
		return encodeJSONToStdout(trace)
	}

	printScoreTrace(snap, trace)
	return nil
}

func printScoreTrace(snap *task.Snapshot, trace engine.ScoreTrace) {
	highlight := taskHighlighter(snap)

	fmt.Printf("%s (%s)\n", trace.TaskTitle, highlight(string(trace.TaskID)))
	fmt.Printf("Score: %.4f", trace.Score)
	if !trace.Visible {
		fmt.Print("  (hidden)")
	}
	fmt.Println()

	fmt.Printf("  = visibility %.0f x importance %.4f x feedback %.4f x readiness %.4f\n",
		trace.Factors.Visibility,
		trace.Factors.NormalizedImportance,
		trace.Factors.Feedback,
		trace.Factors.LeadTime)

	fmt.Println("\nImportance chain:")
	for i, link := range trace.ImportanceChain {
		marker := ""
		if link.SequentialBlocked {
			marker = "  [blocked]"
		}
		fmt.Printf("  %*s%s: %.2f -> %.4f%s\n",
			i*2, "", link.TaskTitle, link.Importance, link.NormalizedImportance, marker)
	}

	fb := trace.Feedback
	fmt.Printf("\nBalance (%s): target %.0f%%, actual %.0f%% -> factor %.4f\n",
		fb.RootTitle, fb.TargetPercent*100, fb.ActualPercent*100, fb.Factor)

	lt := trace.LeadTime
	if lt.EffectiveDueDate == nil {
		fmt.Println("Readiness: no due date, always ready")
		return
	}
	source := ""
	if lt.Source == engine.ScheduleSourceAncestor {
		source = ", inherited"
	}
	fmt.Printf("Readiness: due %s, lead %s, %s -> factor %.4f%s\n",
		lt.EffectiveDueDate.Format("2006-01-02 15:04"),
		ui.FormatDurationShort(lt.EffectiveLeadTime),
		lt.Stage,
		lt.Factor,
		source)
}
