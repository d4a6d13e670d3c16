// Package store owns the on-disk task document: a single YAML file holding
// every task, the root order, and every place. It hands the engine plain
// Snapshot values and applies each mutation atomically: structural
// validation first, then an in-memory update, then a temp-file rename.
// The engine never observes a half-applied tree.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tasklens/tasklens/task"
)

// DefaultFileName is the document file name inside the data directory.
const DefaultFileName = "tasklens.yaml"

var (
	// ErrNoDocument is returned when the document file doesn't exist and
	// creation wasn't requested.
	ErrNoDocument = errors.New("no task document found")
)

// Store provides access to one task document.
type Store struct {
	path string
	snap *task.Snapshot

	// healReport records fixes applied while loading.
	healReport task.HealReport
}

// OpenOptions configures how the store is opened.
type OpenOptions struct {
	// CreateIfMissing creates an empty document if none exists.
	// If false and the document doesn't exist, ErrNoDocument is returned.
	CreateIfMissing bool
}

// Open loads the document at path, healing structural inconsistencies
// left behind by interrupted writes or hand edits.
func Open(path string, opts OpenOptions) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if !opts.CreateIfMissing {
			return nil, fmt.Errorf("%w at %s", ErrNoDocument, path)
		}
		s.snap = task.NewSnapshot()
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}

	s.snap = doc.snapshot()
	s.healReport = s.snap.Heal()
	return s, nil
}

// Path returns the document file path.
func (s *Store) Path() string {
	return s.path
}

// HealReport returns the structural fixes applied during Open.
func (s *Store) HealReport() task.HealReport {
	return s.healReport
}

// Snapshot returns a deep copy of the current document state. The copy is
// a plain value safe to hand to the engine.
func (s *Store) Snapshot() *task.Snapshot {
	return s.snap.Clone()
}

// Save writes the document atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (s *Store) Save() error {
	doc := documentFrom(s.snap)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tasklens-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// document is the YAML file layout. Tasks and places are serialized as
// sorted lists so saved files diff cleanly.
type document struct {
	Tasks       []*task.Task  `yaml:"tasks"`
	RootTaskIDs []task.ID     `yaml:"root_task_ids"`
	Places      []*task.Place `yaml:"places,omitempty"`
}

func (d *document) snapshot() *task.Snapshot {
	snap := task.NewSnapshot()
	snap.RootTaskIDs = append(snap.RootTaskIDs, d.RootTaskIDs...)
	for _, t := range d.Tasks {
		if t != nil && t.ID != "" {
			snap.Tasks[t.ID] = t
		}
	}
	for _, p := range d.Places {
		if p != nil && p.ID != "" {
			snap.Places[p.ID] = p
		}
	}
	return snap
}

func documentFrom(snap *task.Snapshot) *document {
	doc := &document{
		RootTaskIDs: append([]task.ID(nil), snap.RootTaskIDs...),
	}

	taskIDs := make([]task.ID, 0, len(snap.Tasks))
	for id := range snap.Tasks {
		taskIDs = append(taskIDs, id)
	}
	sortIDs(taskIDs)
	for _, id := range taskIDs {
		doc.Tasks = append(doc.Tasks, snap.Tasks[id])
	}

	placeIDs := make([]task.PlaceID, 0, len(snap.Places))
	for id := range snap.Places {
		placeIDs = append(placeIDs, id)
	}
	sortPlaceIDs(placeIDs)
	for _, id := range placeIDs {
		doc.Places = append(doc.Places, snap.Places[id])
	}

	return doc
}

func sortIDs(ids []task.ID) {
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
}

func sortPlaceIDs(ids []task.PlaceID) {
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
}
