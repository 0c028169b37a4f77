package models

// Item represents a single todo entry in either the pending or completed list
type Item struct {
	ID   int    `json:"id" doc:"Item ID, unique within the list holding it"`
	Text string `json:"text" doc:"The todo description"`
}

// Storage keys for the two persisted lists
const (
	KeyPending   = "currentTodos"
	KeyCompleted = "completedTodo"
)

// Drop targets. Anything other than TargetIncomplete drops into the completed list.
const (
	TargetIncomplete = "incomplete"
	TargetComplete   = "complete"
)

// HasID reports whether items contains an item with the given id
func HasID(items []Item, id int) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// WithoutID returns a copy of items with every item matching id removed
func WithoutID(items []Item, id int) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// WithText returns a copy of items where every item matching id carries text
func WithText(items []Item, id int, text string) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		if item.ID == id {
			item.Text = text
		}
		out[i] = item
	}
	return out
}
