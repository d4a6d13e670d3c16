package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasklens/tasklens/engine"
	internalstrings "github.com/tasklens/tasklens/internal/strings"
	"github.com/tasklens/tasklens/store"
	"github.com/tasklens/tasklens/task"
)

// lens add
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var (
	addParent     string
	addNotes      string
	addPlace      string
	addImportance float64
	addDue        string
	addLead       time.Duration
	addRoutine    string
	addInterval   int
	addSequential bool
)

// lens list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks ranked by priority",
	RunE:  runList,
}

var (
	listPlace string
	listAll   bool
	listLimit int
	listJSON  bool
)

// lens plan
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the full task outline, including done and hidden tasks",
	RunE:  runPlan,
}

var planPlace string

// lens show
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

// lens done
var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark one or more tasks as done",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDone,
}

// lens ack
var ackCmd = &cobra.Command{
	Use:   "ack",
	Short: "Acknowledge all done tasks, clearing them from the list",
	Args:  cobra.NoArgs,
	RunE:  runAck,
}

// lens move
var moveCmd = &cobra.Command{
	Use:   "move <id> <new-parent|root>",
	Short: "Move a task under a new parent",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

// lens rm
var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Short:   "Delete one or more tasks and their subtrees",
	Aliases: []string{"delete"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

// lens update
var updateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Update fields on a task",
	Aliases: []string{"edit"},
	Args:    cobra.ExactArgs(1),
	RunE:    runUpdate,
}

var (
	updateTitle      string
	updateNotes      string
	updateStatus     string
	updateImportance float64
	updatePlace      string
	updateDue        string
	updateLead       time.Duration
	updateSequential bool
)

// lens wake
var wakeCmd = &cobra.Command{
	Use:   "wake",
	Short: "Reopen routine tasks whose next cycle has arrived",
	Args:  cobra.NoArgs,
	RunE:  runWake,
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, planCmd, showCmd, doneCmd, ackCmd, moveCmd, rmCmd, updateCmd, wakeCmd)

	addCmd.Flags().StringVarP(&addParent, "parent", "p", "", "Parent task ID (prefix allowed)")
	addCmd.Flags().StringVarP(&addNotes, "notes", "d", "", "Notes (use '-' to read from stdin)")
	addCmd.Flags().StringVar(&addPlace, "place", "", "Place the task requires")
	addCmd.Flags().Float64VarP(&addImportance, "importance", "i", task.DefaultImportance, "Importance weight (0-1]")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (RFC3339, YYYY-MM-DD, or +duration)")
	addCmd.Flags().DurationVar(&addLead, "lead", 0, "Lead time before the due date (default 8h)")
	addCmd.Flags().StringVar(&addRoutine, "routine", "", "Repeat cadence (daily, weekly, monthly, yearly)")
	addCmd.Flags().IntVar(&addInterval, "every", 1, "Repeat every N cadence units")
	addCmd.Flags().BoolVar(&addSequential, "sequential", false, "Children run one at a time, in order")

	listCmd.Flags().StringVar(&listPlace, "place", "", "Filter by place (default from config, else All)")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include hidden and low-priority tasks")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of tasks to show (0 = no limit)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	planCmd.Flags().StringVar(&planPlace, "place", "", "Filter by place")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVarP(&updateNotes, "notes", "d", "", "New notes (use '-' to read from stdin)")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "New status (pending, done)")
	updateCmd.Flags().Float64VarP(&updateImportance, "importance", "i", 0, "New importance weight (0-1]")
	updateCmd.Flags().StringVar(&updatePlace, "place", "", "New place")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "New due date (RFC3339, YYYY-MM-DD, or +duration)")
	updateCmd.Flags().DurationVar(&updateLead, "lead", 0, "New lead time")
	updateCmd.Flags().BoolVar(&updateSequential, "sequential", false, "Children run one at a time")

	addFlagAliases(addCmd, updateCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	now, err := evaluationTime()
	if err != nil {
		return err
	}

	notes, err := resolveNotesFromStdin(addNotes, os.Stdin)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	opts := store.CreateOptions{
		Notes:        notes,
		IsSequential: addSequential,
	}

	if addParent != "" {
		parentID, err := resolveTaskArg(snap, addParent)
		if err != nil {
			return err
		}
		opts.ParentID = parentID
	}
	if addPlace != "" {
		placeID, err := resolvePlaceArg(snap, addPlace)
		if err != nil {
			return err
		}
		opts.PlaceID = placeID
	}
	if cmd.Flags().Changed("importance") {
		opts.Importance = &addImportance
	}

	schedule, repeat, err := buildSchedule(cmd, now)
	if err != nil {
		return err
	}
	opts.Schedule = schedule
	opts.Repeat = repeat

	created, err := st.CreateTask(internalstrings.TrimSpace(args[0]), opts, now)
	if err != nil {
		return err
	}

	highlight := taskHighlighter(st.Snapshot())
	fmt.Printf("Added task %s: %s\n", highlight(string(created.ID)), created.Title)
	return nil
}

// buildSchedule assembles the new task's schedule from the add flags, or
// returns nil to keep the defaults.
func buildSchedule(cmd *cobra.Command, now time.Time) (*task.Schedule, *task.RepeatConfig, error) {
	hasDue := addDue != ""
	hasRoutine := addRoutine != ""
	if !hasDue && !hasRoutine && !cmd.Flags().Changed("lead") {
		return nil, nil, nil
	}
	if hasDue && hasRoutine {
		return nil, nil, fmt.Errorf("--due and --routine are mutually exclusive")
	}

	lead := task.DefaultLeadTime
	if cmd.Flags().Changed("lead") {
		lead = addLead
	} else if cfg, err := loadConfig(); err == nil {
		lead = cfg.DefaultLeadTime(task.DefaultLeadTime)
	}

	if hasRoutine {
		frequency := task.Frequency(addRoutine)
		if !frequency.IsValid() {
			return nil, nil, fmt.Errorf("%w: %s", task.ErrInvalidFrequency, addRoutine)
		}
		schedule := &task.Schedule{Type: task.ScheduleRoutinely, LeadTime: lead}
		repeat := &task.RepeatConfig{Frequency: frequency, Interval: addInterval}
		return schedule, repeat, nil
	}

	if hasDue {
		due, err := parseDueDate(addDue, now)
		if err != nil {
			return nil, nil, err
		}
		return &task.Schedule{Type: task.ScheduleDueDate, DueDate: &due, LeadTime: lead}, nil, nil
	}

	return &task.Schedule{Type: task.ScheduleOnce, LeadTime: lead}, nil, nil
}

func runList(cmd *cobra.Command, args []string) error {
	now, err := evaluationTime()
	if err != nil {
		return err
	}

	st, err := openStoreReadOnly()
	if err != nil {
		if errorIsNoDocument(err) {
			fmt.Println("No tasks found.")
			return nil
		}
		return err
	}
	snap := st.Snapshot()

	filter, err := listViewFilter(snap, listPlace)
	if err != nil {
		return err
	}

	computed := engine.Prioritize(snap, filter, engine.Options{
		Mode:          engine.ModeDoList,
		IncludeHidden: listAll,
		Context:       task.Context{Now: now, CurrentPlaceID: filter.PlaceID},
		Warn:          warnToStderr,
	})

	limit := listLimit
	if limit == 0 {
		if cfg, err := loadConfig(); err == nil {
			limit = cfg.View.Limit
		}
	}
	if limit > 0 && len(computed) > limit {
		computed = computed[:limit]
	}

	if listJSON {
		return encodeJSONToStdout(computed)
	}

	printTaskTable(computed, taskIDIndex(snap).PrefixLengths(), now)
	return nil
}

// listViewFilter resolves the place filter: the flag wins, then the
// configured default, then All.
func listViewFilter(snap *task.Snapshot, flagValue string) (task.ViewFilter, error) {
	value := flagValue
	if value == "" {
		if cfg, err := loadConfig(); err == nil {
			value = cfg.View.Place
		}
	}
	if value == "" {
		return task.ViewFilter{PlaceID: task.FilterAll}, nil
	}

	placeID, err := resolvePlaceArg(snap, value)
	if err != nil {
		return task.ViewFilter{}, err
	}
	return task.ViewFilter{PlaceID: placeID}, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	now, err := evaluationTime()
	if err != nil {
		return err
	}

	st, err := openStoreReadOnly()
	if err != nil {
		if errorIsNoDocument(err) {
			fmt.Println("No tasks found.")
			return nil
		}
		return err
	}
	snap := st.Snapshot()

	filter, err := listViewFilter(snap, planPlace)
	if err != nil {
		return err
	}

	computed := engine.Prioritize(snap, filter, engine.Options{
		Mode:          engine.ModePlanOutline,
		IncludeHidden: true,
		Context:       task.Context{Now: now, CurrentPlaceID: filter.PlaceID},
		Warn:          warnToStderr,
	})

	if len(computed) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	printTaskOutline(snap, computed, now)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	now, err := evaluationTime()
	if err != nil {
		return err
	}

	st, err := openStoreReadOnly()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	computed := engine.Prioritize(snap, task.ViewFilter{PlaceID: task.FilterAll}, engine.Options{
		Mode:          engine.ModePlanOutline,
		IncludeHidden: true,
		Context:       task.Context{Now: now},
	})
	byID := make(map[task.ID]engine.ComputedTask, len(computed))
	for _, ct := range computed {
		byID[ct.ID] = ct
	}

	selected := make([]engine.ComputedTask, 0, len(args))
	for _, arg := range args {
		id, err := resolveTaskArg(snap, arg)
		if err != nil {
			return err
		}
		ct, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
		}
		selected = append(selected, ct)
	}

	if showJSON {
		return encodeJSONToStdout(selected)
	}

	highlight := taskHighlighter(snap)
	for i, ct := range selected {
		if i > 0 {
			fmt.Println("---")
		}
		printTaskDetail(snap, ct, highlight, now)
	}
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	now, err := evaluationTime()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	highlight := taskHighlighter(snap)
	for _, arg := range args {
		id, err := resolveTaskArg(snap, arg)
		if err != nil {
			return err
		}
		completed, err := st.CompleteTask(id, now)
		if err != nil {
			return err
		}
		fmt.Printf("Completed %s: %s\n", highlight(string(completed.ID)), completed.Title)
	}
	return nil
}

func runAck(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	count, err := st.AcknowledgeAll()
	if err != nil {
		return err
	}

	switch count {
	case 0:
		fmt.Println("Nothing to acknowledge.")
	case 1:
		fmt.Println("Acknowledged 1 done task.")
	default:
		fmt.Printf("Acknowledged %d done tasks.\n", count)
	}
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	id, err := resolveTaskArg(snap, args[0])
	if err != nil {
		return err
	}

	var newParentID task.ID
	if args[1] != "root" && args[1] != "-" {
		newParentID, err = resolveTaskArg(snap, args[1])
		if err != nil {
			return err
		}
	}

	if err := st.MoveTask(id, newParentID); err != nil {
		return err
	}

	highlight := taskHighlighter(snap)
	if newParentID == "" {
		fmt.Printf("Moved %s to the root level\n", highlight(string(id)))
	} else {
		fmt.Printf("Moved %s under %s\n", highlight(string(id)), highlight(string(newParentID)))
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	highlight := taskHighlighter(snap)
	for _, arg := range args {
		id, err := resolveTaskArg(snap, arg)
		if err != nil {
			return err
		}
		title := ""
		if t, ok := snap.Tasks[id]; ok {
			title = t.Title
		}
		if err := st.DeleteTask(id); err != nil {
			return err
		}
		fmt.Printf("Deleted %s: %s\n", highlight(string(id)), title)
	}
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	now, err := evaluationTime()
	if err != nil {
		return err
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

	opts := store.UpdateOptions{}
	changed := false

	if cmd.Flags().Changed("title") {
		opts.Title = &updateTitle
		changed = true
	}
	if cmd.Flags().Changed("notes") {
		notes, err := resolveNotesFromStdin(updateNotes, os.Stdin)
		if err != nil {
			return err
		}
		opts.Notes = &notes
		changed = true
	}
	if cmd.Flags().Changed("status") {
		status := task.Status(updateStatus)
		opts.Status = &status
		changed = true
	}
	if cmd.Flags().Changed("importance") {
		opts.Importance = &updateImportance
		changed = true
	}
	if cmd.Flags().Changed("place") {
		placeID, err := resolvePlaceArg(snap, updatePlace)
		if err != nil {
			return err
		}
		opts.PlaceID = &placeID
		changed = true
	}
	if cmd.Flags().Changed("due") || cmd.Flags().Changed("lead") {
		existing := snap.Tasks[id].Schedule
		schedule := existing
		if cmd.Flags().Changed("due") {
			due, err := parseDueDate(updateDue, now)
			if err != nil {
				return err
			}
			schedule.Type = task.ScheduleDueDate
			schedule.DueDate = &due
		}
		if cmd.Flags().Changed("lead") {
			schedule.LeadTime = updateLead
		}
		opts.Schedule = &schedule
		changed = true
	}
	if cmd.Flags().Changed("sequential") {
		opts.IsSequential = &updateSequential
		changed = true
	}

	if !changed {
		return fmt.Errorf("at least one update flag is required")
	}

	updated, err := st.UpdateTask(id, opts)
	if err != nil {
		return err
	}

	highlight := taskHighlighter(snap)
	fmt.Printf("Updated %s: %s\n", highlight(string(updated.ID)), updated.Title)
	return nil
}

func runWake(cmd *cobra.Command, args []string) error {
	now, err := evaluationTime()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	woken, err := st.WakeRoutines(now)
	if err != nil {
		return err
	}

	if len(woken) == 0 {
		fmt.Println("No routines to wake.")
		return nil
	}

	highlight := taskHighlighter(snap)
	for _, id := range woken {
		title := ""
		if t, ok := snap.Tasks[id]; ok {
			title = t.Title
		}
		fmt.Printf("Woke %s: %s\n", highlight(string(id)), title)
	}
	return nil
}

func warnToStderr(message string) {
	fmt.Fprintf(os.Stderr, "warning: %s\n", message)
}

func errorIsNoDocument(err error) bool {
	return errors.Is(err, store.ErrNoDocument)
}
