package todo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/c.mueller/todo-board/internal/models"
	"github.com/c.mueller/todo-board/internal/persist"
	"github.com/c.mueller/todo-board/internal/storage"
)

// Manager owns both lists and the drag reference. It is not safe for
// concurrent use; callers serialize access.
//
// An id lives in at most one list: every insert first removes the id from
// both lists.
type Manager struct {
	pending   *persist.Value[[]models.Item]
	completed *persist.Value[[]models.Item]
	dragged   *models.Item
}

// New loads both lists from store, starting empty when nothing is stored
func New(ctx context.Context, store storage.Store) *Manager {
	return &Manager{
		pending:   persist.Bind(ctx, store, models.KeyPending, []models.Item{}),
		completed: persist.Bind(ctx, store, models.KeyCompleted, []models.Item{}),
	}
}

// Pending returns a copy of the pending list in display order
func (m *Manager) Pending() []models.Item {
	return append([]models.Item{}, m.pending.Get()...)
}

// Completed returns a copy of the completed list in display order
func (m *Manager) Completed() []models.Item {
	return append([]models.Item{}, m.completed.Get()...)
}

// AddTodo appends text to the pending list. Unless forceID is set the new
// item is numbered len(pending)+1; id is still used for the duplicate check
// and is removed from the completed list. Adding an id that is already
// pending does nothing.
func (m *Manager) AddTodo(ctx context.Context, text string, id int, forceID bool) error {
	pending := m.pending.Get()
	if models.HasID(pending, id) {
		return nil
	}

	newID := len(pending) + 1
	if forceID {
		newID = id
	}
	next := append(models.WithoutID(pending, id), models.Item{ID: newID, Text: text})

	slog.Debug("Adding todo", "id", newID, "requested_id", id, "pending", len(next))
	return errors.Join(
		m.completed.Set(ctx, models.WithoutID(m.completed.Get(), id)),
		m.pending.Set(ctx, next),
	)
}

// UpdateTodo replaces the text of every item with id in both lists
func (m *Manager) UpdateTodo(ctx context.Context, id int, text string) error {
	slog.Debug("Updating todo", "id", id)
	return errors.Join(
		m.pending.Set(ctx, models.WithText(m.pending.Get(), id, text)),
		m.completed.Set(ctx, models.WithText(m.completed.Get(), id, text)),
	)
}

// DeleteTodo removes id from both lists. Deleting an unknown id still
// rewrites both slots.
func (m *Manager) DeleteTodo(ctx context.Context, id int) error {
	slog.Debug("Deleting todo", "id", id)
	return errors.Join(
		m.pending.Set(ctx, models.WithoutID(m.pending.Get(), id)),
		m.completed.Set(ctx, models.WithoutID(m.completed.Get(), id)),
	)
}

// CompleteTodo moves id into the completed list with the given text,
// keeping the id as is. Completing an id that is already completed does nothing.
func (m *Manager) CompleteTodo(ctx context.Context, id int, text string) error {
	completed := m.completed.Get()
	if models.HasID(completed, id) {
		return nil
	}

	next := append(models.WithoutID(completed, id), models.Item{ID: id, Text: text})

	slog.Debug("Completing todo", "id", id, "completed", len(next))
	return errors.Join(
		m.pending.Set(ctx, models.WithoutID(m.pending.Get(), id)),
		m.completed.Set(ctx, next),
	)
}

// DragStart records the item being dragged
func (m *Manager) DragStart(id int, text string) {
	m.dragged = &models.Item{ID: id, Text: text}
}

// Dragged returns the current drag reference, if any
func (m *Manager) Dragged() (models.Item, bool) {
	if m.dragged == nil {
		return models.Item{}, false
	}
	return *m.dragged, true
}

// DragOverAllow reports that a drop target accepts the drag. It has no effect on state.
func (m *Manager) DragOverAllow() bool {
	return true
}

// Drop moves the dragged item into the list named by target. The drag
// reference is kept afterwards, so a second Drop without DragStart repeats
// the move with the same item.
func (m *Manager) Drop(ctx context.Context, target string) error {
	if m.dragged == nil {
		return nil
	}
	item := *m.dragged

	if target == models.TargetIncomplete {
		return m.AddTodo(ctx, item.Text, item.ID, true)
	}
	return m.CompleteTodo(ctx, item.ID, item.Text)
}
