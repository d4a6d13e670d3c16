package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasklens/tasklens/internal/ui"
	"github.com/tasklens/tasklens/task"
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Manage places and their open hours",
}

// lens place add
var placeAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new place",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaceAdd,
}

var (
	placeAddClosed   bool
	placeAddHours    []string
	placeAddIncludes []string
)

// lens place list
var placeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List places",
	Args:  cobra.NoArgs,
	RunE:  runPlaceList,
}

// lens place hours
var placeHoursCmd = &cobra.Command{
	Use:   "hours <place>",
	Short: "Set a place's open hours",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaceHours,
}

var (
	placeHoursOpen   bool
	placeHoursClosed bool
	placeHoursRanges []string
)

// lens place include
var placeIncludeCmd = &cobra.Command{
	Use:   "include <place> <included>...",
	Short: "Mark places as contained within another place",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPlaceInclude,
}

func init() {
	rootCmd.AddCommand(placeCmd)
	placeCmd.AddCommand(placeAddCmd, placeListCmd, placeHoursCmd, placeIncludeCmd)

	placeAddCmd.Flags().BoolVar(&placeAddClosed, "closed", false, "Start the place always closed")
	placeAddCmd.Flags().StringArrayVar(&placeAddHours, "hours", nil, "Open hours as Day=HH:MM-HH:MM (repeatable)")
	placeAddCmd.Flags().StringArrayVar(&placeAddIncludes, "includes", nil, "Places contained within this one")

	placeHoursCmd.Flags().BoolVar(&placeHoursOpen, "open", false, "Always open")
	placeHoursCmd.Flags().BoolVar(&placeHoursClosed, "closed", false, "Always closed")
	placeHoursCmd.Flags().StringArrayVar(&placeHoursRanges, "hours", nil, "Open hours as Day=HH:MM-HH:MM (repeatable)")
}

func runPlaceAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	hours, err := buildOpenHours(placeAddClosed, false, placeAddHours)
	if err != nil {
		return err
	}

	included := make([]task.PlaceID, 0, len(placeAddIncludes))
	for _, value := range placeAddIncludes {
		id, err := resolvePlaceArg(snap, value)
		if err != nil {
			return err
		}
		included = append(included, id)
	}

	created, err := st.CreatePlace(args[0], hours, included)
	if err != nil {
		return err
	}

	fmt.Printf("Added place %s: %s\n", created.ID, created.Name)
	return nil
}

func runPlaceList(cmd *cobra.Command, args []string) error {
	st, err := openStoreReadOnly()
	if err != nil {
		if errorIsNoDocument(err) {
			fmt.Println("No places found.")
			return nil
		}
		return err
	}
	snap := st.Snapshot()

	if len(snap.Places) == 0 {
		fmt.Println("No places found.")
		return nil
	}

	places := make([]*task.Place, 0, len(snap.Places))
	for _, p := range snap.Places {
		places = append(places, p)
	}
	sort.Slice(places, func(a, b int) bool { return places[a].Name < places[b].Name })

	builder := ui.NewTableBuilder([]string{"ID", "NAME", "HOURS", "INCLUDES"}, len(places))
	for _, p := range places {
		builder.AddRow([]string{
			string(p.ID),
			p.Name,
			formatHoursSummary(p.Hours),
			formatIncludes(snap, p.IncludedPlaces),
		})
	}
	fmt.Print(builder.String())
	return nil
}

func runPlaceHours(cmd *cobra.Command, args []string) error {
	if placeHoursOpen && placeHoursClosed {
		return fmt.Errorf("--open and --closed are mutually exclusive")
	}
	if !placeHoursOpen && !placeHoursClosed && len(placeHoursRanges) == 0 {
		return fmt.Errorf("one of --open, --closed, or --hours is required")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	id, err := resolvePlaceArg(snap, args[0])
	if err != nil {
		return err
	}
	existing, ok := snap.Places[id]
	if !ok {
		return fmt.Errorf("%w: %s", task.ErrPlaceNotFound, args[0])
	}

	hours, err := buildOpenHours(placeHoursClosed, placeHoursOpen, placeHoursRanges)
	if err != nil {
		return err
	}

	updated, err := st.UpdatePlace(id, hours, existing.IncludedPlaces)
	if err != nil {
		return err
	}

	fmt.Printf("Updated hours for %s: %s\n", updated.Name, formatHoursSummary(updated.Hours))
	return nil
}

func runPlaceInclude(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	id, err := resolvePlaceArg(snap, args[0])
	if err != nil {
		return err
	}
	container, ok := snap.Places[id]
	if !ok {
		return fmt.Errorf("%w: %s", task.ErrPlaceNotFound, args[0])
	}

	included := append([]task.PlaceID(nil), container.IncludedPlaces...)
	for _, value := range args[1:] {
		includedID, err := resolvePlaceArg(snap, value)
		if err != nil {
			return err
		}
		if includedID == id {
			return fmt.Errorf("place cannot include itself: %s", args[0])
		}
		if !containsPlaceID(included, includedID) {
			included = append(included, includedID)
		}
	}

	updated, err := st.UpdatePlace(id, container.Hours, included)
	if err != nil {
		return err
	}

	fmt.Printf("Place %s now includes %s\n", updated.Name, formatIncludes(snap, updated.IncludedPlaces))
	return nil
}

// buildOpenHours maps the hour flags onto an OpenHours value. Custom
// ranges win over the mode flags.
func buildOpenHours(closed, open bool, ranges []string) (task.OpenHours, error) {
	if len(ranges) > 0 {
		schedule := make(map[string][]string, len(ranges))
		for _, entry := range ranges {
			day, timeRange, ok := strings.Cut(entry, "=")
			if !ok {
				return task.OpenHours{}, fmt.Errorf("invalid hours %q, expected Day=HH:MM-HH:MM", entry)
			}
			day = normalizeDay(day)
			if day == "" {
				return task.OpenHours{}, fmt.Errorf("invalid weekday in %q", entry)
			}
			schedule[day] = append(schedule[day], timeRange)
		}
		return task.OpenHours{Mode: task.HoursCustom, Schedule: schedule}, nil
	}
	if closed {
		return task.OpenHours{Mode: task.HoursAlwaysClosed}, nil
	}
	return task.OpenHours{Mode: task.HoursAlwaysOpen}, nil
}

var weekdayNames = map[string]string{
	"mon": "Mon", "tue": "Tue", "wed": "Wed", "thu": "Thu",
	"fri": "Fri", "sat": "Sat", "sun": "Sun",
}

func normalizeDay(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if len(value) > 3 {
		value = value[:3]
	}
	return weekdayNames[value]
}

func formatHoursSummary(hours task.OpenHours) string {
	switch hours.Mode {
	case task.HoursAlwaysClosed:
		return "closed"
	case task.HoursCustom:
		days := make([]string, 0, len(hours.Schedule))
		for day := range hours.Schedule {
			days = append(days, day)
		}
		sort.Strings(days)
		parts := make([]string, 0, len(days))
		for _, day := range days {
			parts = append(parts, day+" "+strings.Join(hours.Schedule[day], ","))
		}
		return strings.Join(parts, "; ")
	default:
		return "always open"
	}
}

func formatIncludes(snap *task.Snapshot, ids []task.PlaceID) string {
	if len(ids) == 0 {
		return "-"
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, placeName(snap, id))
	}
	return strings.Join(names, ", ")
}

func containsPlaceID(ids []task.PlaceID, id task.PlaceID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
