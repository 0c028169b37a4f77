package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/c.mueller/todo-board/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

// Manager is the todo state the API exposes
type Manager interface {
	Pending() []models.Item
	Completed() []models.Item
	AddTodo(ctx context.Context, text string, id int, forceID bool) error
	UpdateTodo(ctx context.Context, id int, text string) error
	DeleteTodo(ctx context.Context, id int) error
	CompleteTodo(ctx context.Context, id int, text string) error
	DragStart(id int, text string)
	Dragged() (models.Item, bool)
	DragOverAllow() bool
	Drop(ctx context.Context, target string) error
}

// Server holds the API server dependencies
type Server struct {
	// mu serializes calls into the manager, which is single-threaded
	mu      sync.Mutex
	manager Manager
}

// NewServer creates a new API server
func NewServer(manager Manager) *Server {
	return &Server{manager: manager}
}

// RegisterRoutes registers all API routes with the Huma API
func (s *Server) RegisterRoutes(api huma.API) {
	// GET /health/ready - Health check
	huma.Register(api, huma.Operation{
		OperationID: "health-ready",
		Method:      http.MethodGet,
		Path:        "/health/ready",
		Summary:     "Readiness check",
		Tags:        []string{"health"},
	}, s.healthReady)

	// GET /todos - Both lists
	huma.Register(api, huma.Operation{
		OperationID: "list-todos",
		Method:      http.MethodGet,
		Path:        "/todos",
		Summary:     "List todos",
		Description: "Get the pending and completed lists in display order",
		Tags:        []string{"todos"},
	}, s.listTodos)

	// POST /todos - Add to pending
	huma.Register(api, huma.Operation{
		OperationID:   "add-todo",
		Method:        http.MethodPost,
		Path:          "/todos",
		Summary:       "Add a todo",
		Description:   "Append an item to the pending list. Without force_id the item is numbered by list length.",
		Tags:          []string{"todos"},
		DefaultStatus: http.StatusCreated,
	}, s.addTodo)

	// PUT /todos/{id} - Update text
	huma.Register(api, huma.Operation{
		OperationID: "update-todo",
		Method:      http.MethodPut,
		Path:        "/todos/{id}",
		Summary:     "Update a todo",
		Description: "Replace the text of the item in whichever list holds it",
		Tags:        []string{"todos"},
	}, s.updateTodo)

	// DELETE /todos/{id} - Delete from both lists
	huma.Register(api, huma.Operation{
		OperationID:   "delete-todo",
		Method:        http.MethodDelete,
		Path:          "/todos/{id}",
		Summary:       "Delete a todo",
		Tags:          []string{"todos"},
		DefaultStatus: http.StatusNoContent,
	}, s.deleteTodo)

	// POST /todos/{id}/complete - Move to completed
	huma.Register(api, huma.Operation{
		OperationID: "complete-todo",
		Method:      http.MethodPost,
		Path:        "/todos/{id}/complete",
		Summary:     "Complete a todo",
		Tags:        []string{"todos"},
	}, s.completeTodo)

	// POST /drag - Start a drag gesture
	huma.Register(api, huma.Operation{
		OperationID:   "drag-start",
		Method:        http.MethodPost,
		Path:          "/drag",
		Summary:       "Start dragging an item",
		Tags:          []string{"drag"},
		DefaultStatus: http.StatusNoContent,
	}, s.dragStart)

	// GET /drag - Current drag reference
	huma.Register(api, huma.Operation{
		OperationID: "get-drag",
		Method:      http.MethodGet,
		Path:        "/drag",
		Summary:     "Get the dragged item",
		Tags:        []string{"drag"},
	}, s.getDrag)

	// POST /drag/over - Drop target check
	huma.Register(api, huma.Operation{
		OperationID: "drag-over",
		Method:      http.MethodPost,
		Path:        "/drag/over",
		Summary:     "Check that a drop target accepts the drag",
		Tags:        []string{"drag"},
	}, s.dragOver)

	// POST /drop - Finish a drag gesture
	huma.Register(api, huma.Operation{
		OperationID: "drop",
		Method:      http.MethodPost,
		Path:        "/drop",
		Summary:     "Drop the dragged item",
		Description: "Target \"incomplete\" moves the item to pending, anything else to completed",
		Tags:        []string{"drag"},
	}, s.drop)
}

// Request/Response types

type Lists struct {
	Pending   []models.Item `json:"pending" doc:"Items not yet completed"`
	Completed []models.Item `json:"completed" doc:"Items marked done"`
}

type ListsResponse struct {
	Body Lists
}

type AddTodoRequest struct {
	Body struct {
		Text    string `json:"text" doc:"The todo description"`
		ID      int    `json:"id,omitempty" doc:"Requested item ID"`
		ForceID bool   `json:"force_id,omitempty" doc:"Keep the requested ID instead of numbering by list length"`
	}
}

type UpdateTodoRequest struct {
	ID   int `path:"id" doc:"Todo ID"`
	Body struct {
		Text string `json:"text" doc:"The new description"`
	}
}

type DeleteTodoRequest struct {
	ID int `path:"id" doc:"Todo ID"`
}

type CompleteTodoRequest struct {
	ID   int `path:"id" doc:"Todo ID"`
	Body struct {
		Text string `json:"text" doc:"The todo description stored in the completed list"`
	}
}

type DragStartRequest struct {
	Body models.Item
}

type DragResponse struct {
	Body models.Item
}

type DragOverResponse struct {
	Body struct {
		Allow bool `json:"allow" doc:"Whether the drop target accepts the drag"`
	}
}

type DropRequest struct {
	Body struct {
		Target string `json:"target" doc:"incomplete, or any other value for completed"`
	}
}

// Handler implementations

// lists must be called with s.mu held
func (s *Server) lists() *ListsResponse {
	return &ListsResponse{Body: Lists{
		Pending:   s.manager.Pending(),
		Completed: s.manager.Completed(),
	}}
}

// mutate runs op under the lock and returns both lists afterwards. The
// request context is detached from cancellation so a client hanging up
// cannot abort a write after memory has already changed.
func (s *Server) mutate(ctx context.Context, msg string, op func(ctx context.Context) error) (*ListsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := op(context.WithoutCancel(ctx)); err != nil {
		slog.Error(msg, "error", err)
		return nil, huma.Error500InternalServerError(msg, err)
	}
	return s.lists(), nil
}

func (s *Server) listTodos(ctx context.Context, input *struct{}) (*ListsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists(), nil
}

func (s *Server) addTodo(ctx context.Context, input *AddTodoRequest) (*ListsResponse, error) {
	return s.mutate(ctx, "Failed to persist added todo", func(ctx context.Context) error {
		return s.manager.AddTodo(ctx, input.Body.Text, input.Body.ID, input.Body.ForceID)
	})
}

func (s *Server) updateTodo(ctx context.Context, input *UpdateTodoRequest) (*ListsResponse, error) {
	return s.mutate(ctx, "Failed to persist updated todo", func(ctx context.Context) error {
		return s.manager.UpdateTodo(ctx, input.ID, input.Body.Text)
	})
}

func (s *Server) deleteTodo(ctx context.Context, input *DeleteTodoRequest) (*struct{}, error) {
	if _, err := s.mutate(ctx, "Failed to persist deletion", func(ctx context.Context) error {
		return s.manager.DeleteTodo(ctx, input.ID)
	}); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) completeTodo(ctx context.Context, input *CompleteTodoRequest) (*ListsResponse, error) {
	return s.mutate(ctx, "Failed to persist completed todo", func(ctx context.Context) error {
		return s.manager.CompleteTodo(ctx, input.ID, input.Body.Text)
	})
}

func (s *Server) dragStart(ctx context.Context, input *DragStartRequest) (*struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manager.DragStart(input.Body.ID, input.Body.Text)
	return nil, nil
}

func (s *Server) getDrag(ctx context.Context, input *struct{}) (*DragResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.manager.Dragged()
	if !ok {
		return nil, huma.Error404NotFound("Nothing is being dragged")
	}
	return &DragResponse{Body: item}, nil
}

func (s *Server) dragOver(ctx context.Context, input *struct{}) (*DragOverResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := &DragOverResponse{}
	resp.Body.Allow = s.manager.DragOverAllow()
	return resp, nil
}

func (s *Server) drop(ctx context.Context, input *DropRequest) (*ListsResponse, error) {
	return s.mutate(ctx, "Failed to persist drop", func(ctx context.Context) error {
		return s.manager.Drop(ctx, input.Body.Target)
	})
}

type HealthReadyResponse struct {
	Body struct {
		Ready bool `json:"ready" doc:"Whether the server is ready to serve requests"`
	}
}

func (s *Server) healthReady(ctx context.Context, input *struct{}) (*HealthReadyResponse, error) {
	resp := &HealthReadyResponse{}
	resp.Body.Ready = true
	return resp, nil
}
