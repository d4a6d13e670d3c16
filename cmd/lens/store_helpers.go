package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	internalstrings "github.com/tasklens/tasklens/internal/strings"
	"github.com/tasklens/tasklens/internal/ui"
	"github.com/tasklens/tasklens/store"
	"github.com/tasklens/tasklens/task"
)

func openStore() (*store.Store, error) {
	return openStoreWithOptions(store.OpenOptions{CreateIfMissing: true})
}

func openStoreReadOnly() (*store.Store, error) {
	return openStoreWithOptions(store.OpenOptions{})
}

func openStoreWithOptions(opts store.OpenOptions) (*store.Store, error) {
	path, err := documentPath()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(path, opts)
	if err != nil {
		return nil, err
	}

	printHealWarnings(st.HealReport())
	return st, nil
}

func printHealWarnings(report task.HealReport) {
	if report.Empty() {
		return
	}
	if n := len(report.DroppedChildRefs); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: dropped %d dangling child reference(s)\n", n)
	}
	if n := len(report.DroppedRootRefs); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: dropped %d dangling root reference(s)\n", n)
	}
	if n := len(report.AdoptedOrphans); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: adopted %d orphaned task(s) as roots\n", n)
	}
	if n := len(report.RelinkedParents); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: repaired %d parent link(s)\n", n)
	}
}

func taskIDIndex(snap *task.Snapshot) task.IDIndex {
	taskIDs := make([]task.ID, 0, len(snap.Tasks))
	for id := range snap.Tasks {
		taskIDs = append(taskIDs, id)
	}
	return task.NewIDIndex(taskIDs)
}

// resolveTaskArg turns a user-supplied ID prefix into a full task ID.
func resolveTaskArg(snap *task.Snapshot, arg string) (task.ID, error) {
	return taskIDIndex(snap).Resolve(arg)
}

// resolvePlaceArg matches a place by name (case-insensitive), full ID, or
// ID prefix. The sentinel names "anywhere" and "all" are passed through.
func resolvePlaceArg(snap *task.Snapshot, arg string) (task.PlaceID, error) {
	lowered := strings.ToLower(arg)
	if lowered == strings.ToLower(string(task.FilterAll)) {
		return task.FilterAll, nil
	}
	if lowered == string(task.AnywherePlaceID) {
		return task.AnywherePlaceID, nil
	}

	for _, p := range snap.Places {
		if strings.EqualFold(p.Name, arg) {
			return p.ID, nil
		}
	}

	placeIDs := make([]task.ID, 0, len(snap.Places))
	for id := range snap.Places {
		placeIDs = append(placeIDs, task.ID(id))
	}
	match, err := task.NewIDIndex(placeIDs).Resolve(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %s", task.ErrPlaceNotFound, arg)
	}
	return task.PlaceID(match), nil
}

func taskHighlighter(snap *task.Snapshot) func(string) string {
	return logHighlighter(taskIDIndex(snap).PrefixLengths(), ui.HighlightID)
}

func logHighlighter(prefixLengths map[string]int, highlight func(string, int) string) func(string) string {
	if prefixLengths == nil {
		prefixLengths = map[string]int{}
	}
	return func(id string) string {
		if id == "" {
			return id
		}
		prefixLen, ok := prefixLengths[strings.ToLower(id)]
		if !ok {
			return highlight(id, 0)
		}
		return highlight(id, prefixLen)
	}
}

func resolveNotesFromStdin(notes string, reader io.Reader) (string, error) {
	if notes != "-" {
		return notes, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read notes from stdin: %w", err)
	}

	value := internalstrings.NormalizeNewlines(string(input))
	return internalstrings.TrimTrailingNewlines(value), nil
}
