package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fridge-planner/internal/api"
	"fridge-planner/internal/calendar"
)

// client is the slice of the remote API the scheduler needs.
type client interface {
	FetchPlan(ctx context.Context, start, end string) ([]api.PlanEntry, error)
	CreatePlanEntry(ctx context.Context, in api.NewPlanEntry) (*api.PlanEntry, error)
	DeletePlanEntry(ctx context.Context, id int64) error
}

// Scheduler owns the authoritative plan entries for the loaded week window
// and enforces at most one entry per (date, meal type) slot. Not safe for
// concurrent use; the caller serializes operations.
type Scheduler struct {
	remote client

	week    [7]calendar.Day
	entries []Entry
	loaded  bool
}

// NewScheduler creates a scheduler backed by the given remote client.
func NewScheduler(remote client) *Scheduler {
	return &Scheduler{remote: remote}
}

// Week returns the currently loaded week.
func (s *Scheduler) Week() [7]calendar.Day {
	return s.week
}

// Entries returns a copy of the loaded window's entries.
func (s *Scheduler) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// EntryFor looks up the entry occupying a (date, meal type) slot.
func (s *Scheduler) EntryFor(dateISO string, meal MealType) (Entry, bool) {
	for _, e := range s.entries {
		if e.Date == dateISO && e.MealType == meal {
			return e, true
		}
	}
	return Entry{}, false
}

// LoadWeek computes the Sunday-anchored week containing ref, fetches every
// entry in that inclusive window, and replaces the local set.
func (s *Scheduler) LoadWeek(ctx context.Context, ref time.Time) error {
	week := calendar.WeekOf(ref)
	wire, err := s.remote.FetchPlan(ctx, week[0].ISOKey, week[6].ISOKey)
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(wire))
	for _, w := range wire {
		entries = append(entries, entryFromWire(w))
	}
	s.week = week
	s.entries = entries
	s.loaded = true
	return nil
}

func (s *Scheduler) reload(ctx context.Context) error {
	return s.LoadWeek(ctx, s.week[0].Date)
}

// AssignError reports an assignment that stopped partway through its target
// dates. Applied lists the dates whose slots were written before the failure.
type AssignError struct {
	Applied []string
	Date    string
	Err     error
}

func (e *AssignError) Error() string {
	return fmt.Sprintf("assign failed at %s after %d of the target dates succeeded: %v",
		e.Date, len(e.Applied), e.Err)
}

func (e *AssignError) Unwrap() error { return e.Err }

// Assign books the recipe into the (dateISO, meal) slot, or into that slot on
// every day of the loaded week when repeatAllWeek is set. A slot already
// occupied is replaced: its entry is deleted before the new one is created,
// so the one-entry-per-slot invariant holds after every call. Creates run
// sequentially; on failure the returned AssignError names the dates that were
// written. The window is reloaded after the requests settle either way.
func (s *Scheduler) Assign(ctx context.Context, dateISO string, meal MealType, recipe RecipeSnapshot, repeatAllWeek bool) error {
	if !s.loaded {
		return fmt.Errorf("no week loaded")
	}

	targets := []string{dateISO}
	if repeatAllWeek {
		targets = targets[:0]
		for _, d := range s.week {
			targets = append(targets, d.ISOKey)
		}
	}

	var applied []string
	var failure *AssignError
	for _, date := range targets {
		if err := s.writeSlot(ctx, date, meal, recipe); err != nil {
			failure = &AssignError{Applied: applied, Date: date, Err: err}
			break
		}
		applied = append(applied, date)
	}

	if err := s.reload(ctx); err != nil && failure == nil {
		return err
	}
	if failure != nil {
		return failure
	}
	return nil
}

func (s *Scheduler) writeSlot(ctx context.Context, dateISO string, meal MealType, recipe RecipeSnapshot) error {
	if existing, ok := s.EntryFor(dateISO, meal); ok {
		if err := s.remote.DeletePlanEntry(ctx, existing.ID); err != nil {
			return fmt.Errorf("failed to clear occupied slot: %w", err)
		}
	}
	_, err := s.remote.CreatePlanEntry(ctx, api.NewPlanEntry{
		RecipeID: recipe.RecipeID,
		Date:     dateISO,
		MealType: strings.ToLower(string(meal)),
		Name:     recipe.Name,
		Image:    recipe.Image,
		Calories: recipe.Calories,
		Protein:  recipe.Protein,
		Carbs:    recipe.Carbs,
	})
	return err
}

// Unassign deletes one entry by id and reloads the window. Confirmation is a
// UI concern; once called, the delete is unconditional.
func (s *Scheduler) Unassign(ctx context.Context, entryID int64) error {
	if !s.loaded {
		return fmt.Errorf("no week loaded")
	}
	if err := s.remote.DeletePlanEntry(ctx, entryID); err != nil {
		return err
	}
	return s.reload(ctx)
}

// Totals aggregates the loaded window.
func (s *Scheduler) Totals() Totals {
	return WeeklyTotals(s.entries)
}
