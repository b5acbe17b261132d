// Package conversation owns the plan conversation session: the state
// machine that reconciles asynchronously arriving analyses with the two
// chat threads a farmer runs against the current plan.
package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/PaddyGuard/paddyguard/internal/plan"
)

// State is the controller's lifecycle state.
type State string

// Controller states.
const (
	StateIdle          State = "idle"
	StateLoading       State = "loading"
	StateAwaitingInput State = "awaiting_input"
	StateSending       State = "sending"
	StateExecuting     State = "executing"
	StateExecuted      State = "executed"
	StateError         State = "error"
)

// Controller-local rejections. These never correspond to a network call.
var (
	ErrNoSession       = errors.New("conversation: no active session")
	ErrNotActionable   = errors.New("conversation: plan is not actionable")
	ErrExecuteInFlight = errors.New("conversation: execute already in flight")
	ErrExecuted        = errors.New("conversation: session already executed")
)

// Backend is the remote surface the controller drives. *api.Client
// satisfies it.
type Backend interface {
	RefinePlan(ctx context.Context, id plan.ConversationID, message string, current *plan.Plan) (*plan.Plan, error)
	Ask(ctx context.Context, farmerID, question string) (string, error)
	ExecutePlan(ctx context.Context, id plan.ConversationID) error
}

// Controller manages at most one plan session at a time. All mutations
// happen under one mutex so every async result applies as a single
// atomic transition; the plan and Q&A threads carry independent
// in-flight flags so a plan edit never blocks a question.
type Controller struct {
	mu      sync.Mutex
	backend Backend

	// farmerID is the authenticated identity's id, used for Q&A calls
	// when the plan does not carry its own farmer id.
	farmerID string

	sessionID   plan.ConversationID
	currentPlan *plan.Plan
	planThread  []Message
	qaThread    []Message

	planSending bool
	qaSending   bool
	executing   bool
	executed    bool
	loading     bool
	errMsg      string

	// lastSeq is the highest ingest sequence number processed; lower
	// numbers are stale fetches and are dropped regardless of arrival
	// order.
	lastSeq uint64
	// epoch increments on every session replacement or reset. In-flight
	// requests capture it at send time and discard their results when it
	// has moved on.
	epoch uint64
}

// New creates a Controller bound to a backend and the current farmer.
func New(backend Backend, farmerID string) *Controller {
	return &Controller{backend: backend, farmerID: farmerID}
}

// State derives the lifecycle state from the controller's fields.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.executed:
		return StateExecuted
	case c.executing:
		return StateExecuting
	case c.planSending || c.qaSending:
		return StateSending
	case c.sessionID != "":
		return StateAwaitingInput
	case c.errMsg != "":
		return StateError
	case c.loading:
		return StateLoading
	default:
		return StateIdle
	}
}

// BeginLoading marks a fetch as in flight before a session exists.
func (c *Controller) BeginLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
	c.errMsg = ""
}

// Fail records a load error. It only matters while no session exists;
// with a live session the prior valid state is kept.
func (c *Controller) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if c.sessionID == "" && err != nil {
		c.errMsg = err.Error()
	}
}

// Ingest processes one fetched notification. seq is the fetch sequence
// number stamped before the network call. Returns true when the call
// replaced the session with a new one.
//
// Repeats of the current conversation id are no-ops so redundant polling
// never resets the chat threads. A different id replaces the session
// wholesale: new plan, reseeded threads, cleared execution and error
// state.
func (c *Controller) Ingest(seq uint64, n *plan.Notification) bool {
	if n == nil || n.ConversationID == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq <= c.lastSeq {
		slog.Debug("Stale notification dropped", "seq", seq, "last", c.lastSeq)
		return false
	}
	c.lastSeq = seq
	c.loading = false

	if c.sessionID == n.ConversationID {
		return false
	}

	c.epoch++
	c.sessionID = n.ConversationID
	c.currentPlan = n.Plan
	c.planThread = []Message{
		{Sender: SenderAssistant, Text: greetingLatestResult},
		{Sender: SenderAssistant, Text: n.Plan.MainMessage()},
		{Sender: SenderAssistant, Text: greetingAskForEdits},
	}
	c.qaThread = []Message{
		{Sender: SenderAssistant, Text: greetingQA},
	}
	c.planSending = false
	c.qaSending = false
	c.executing = false
	c.executed = false
	c.errMsg = ""

	slog.Info("Plan session started", "conversation", n.ConversationID)
	return true
}

// UpdatePlan sends a plan-editing message. Empty or whitespace-only
// messages and messages sent while a plan edit is already in flight are
// ignored without a network call. The user entry is appended
// optimistically; a backend failure appends a fixed apology instead of
// rolling it back.
func (c *Controller) UpdatePlan(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}

	c.mu.Lock()
	if c.sessionID == "" {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.planSending || c.executing || c.executed {
		c.mu.Unlock()
		return nil
	}
	c.planThread = append(c.planThread, Message{Sender: SenderUser, Text: message})
	c.planSending = true
	epoch := c.epoch
	id := c.sessionID
	current := c.currentPlan
	c.mu.Unlock()

	updated, err := c.backend.RefinePlan(ctx, id, message, current)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		// The session was replaced or reset while the request was in
		// flight; the reply belongs to a dead session.
		slog.Debug("Stale refine reply dropped", "conversation", id)
		return nil
	}
	c.planSending = false
	if err != nil || updated == nil {
		slog.Warn("Plan refine failed", "conversation", id, "error", err)
		c.planThread = append(c.planThread, Message{Sender: SenderAssistant, Text: apologyRefine})
		return nil
	}
	c.currentPlan = updated
	c.planThread = append(c.planThread, Message{Sender: SenderAssistant, Text: updated.MainMessage()})
	return nil
}

// Ask sends a free-form question on the Q&A thread. It mirrors
// UpdatePlan but never touches the plan or its thread, and has its own
// in-flight flag.
func (c *Controller) Ask(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	c.mu.Lock()
	if c.sessionID == "" {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.qaSending {
		c.mu.Unlock()
		return nil
	}
	farmerID := c.currentPlan.FarmerID()
	if farmerID == "" {
		farmerID = c.farmerID
	}
	c.qaThread = append(c.qaThread, Message{Sender: SenderUser, Text: question})
	if farmerID == "" {
		// Nothing to address the question to; answer like any failure.
		c.qaThread = append(c.qaThread, Message{Sender: SenderAssistant, Text: apologyAsk})
		c.mu.Unlock()
		return nil
	}
	c.qaSending = true
	epoch := c.epoch
	c.mu.Unlock()

	answer, err := c.backend.Ask(ctx, farmerID, question)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		slog.Debug("Stale answer dropped", "farmer", farmerID)
		return nil
	}
	c.qaSending = false
	if err != nil || strings.TrimSpace(answer) == "" {
		slog.Warn("Question failed", "farmer", farmerID, "error", err)
		c.qaThread = append(c.qaThread, Message{Sender: SenderAssistant, Text: apologyAsk})
		return nil
	}
	c.qaThread = append(c.qaThread, Message{Sender: SenderAssistant, Text: answer})
	return nil
}

// Execute commits the current plan. It is rejected locally, without a
// network call, unless the plan is actionable and no execute is already
// in flight. Success is terminal for the session; failure returns the
// error and leaves execute retryable.
func (c *Controller) Execute(ctx context.Context) error {
	c.mu.Lock()
	if c.sessionID == "" {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.executed {
		c.mu.Unlock()
		return ErrExecuted
	}
	if c.executing {
		c.mu.Unlock()
		return ErrExecuteInFlight
	}
	if !c.currentPlan.Actionable() {
		c.mu.Unlock()
		return ErrNotActionable
	}
	c.executing = true
	c.errMsg = ""
	epoch := c.epoch
	id := c.sessionID
	c.mu.Unlock()

	err := c.backend.ExecutePlan(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return nil
	}
	c.executing = false
	if err != nil {
		slog.Warn("Plan execute failed", "conversation", id, "error", err)
		c.errMsg = err.Error()
		return err
	}
	// The Q&A thread stays alive: it is about the holding, not this
	// plan, and executing a plan does not invalidate it.
	c.executed = true
	slog.Info("Plan executed", "conversation", id)
	return nil
}

// Reset unconditionally discards the session and returns to the loading
// state so the caller can refetch from scratch. Replies from requests
// issued before the reset are discarded on arrival.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.sessionID = ""
	c.currentPlan = nil
	c.planThread = nil
	c.qaThread = nil
	c.planSending = false
	c.qaSending = false
	c.executing = false
	c.executed = false
	c.errMsg = ""
	c.loading = true
}

// SessionID returns the current conversation id, or "" without a session.
func (c *Controller) SessionID() plan.ConversationID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Plan returns the current plan. Callers must treat it as read-only.
func (c *Controller) Plan() *plan.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPlan
}

// PlanThread returns a snapshot of the plan-editing chat history.
func (c *Controller) PlanThread() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.planThread))
	copy(out, c.planThread)
	return out
}

// QAThread returns a snapshot of the Q&A chat history.
func (c *Controller) QAThread() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.qaThread))
	copy(out, c.qaThread)
	return out
}

// Err returns the current error message, or "" when none.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Executed reports whether the current session reached its terminal
// success state.
func (c *Controller) Executed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executed
}
