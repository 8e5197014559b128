// Package dialog drives multi-turn wizards. Each user owns at most one
// pending step at a time; arming a new step replaces the previous one.
package dialog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hemantapkh/NcellBot/internal/render"

	"go.uber.org/zap"
)

// CancelInput is the reserved input that aborts any wizard from any step.
// It is checked before the step handler ever runs.
const CancelInput = "❌ Cancel"

// StepID names a wizard step in the static registry.
type StepID string

// Request carries one inbound text into a step handler together with the
// context value the previous step saved.
type Request struct {
	Ctx    context.Context
	UserID int64
	Input  string
	Prior  string
	Render render.Func
}

// Handler processes one wizard step.
type Handler func(req Request) (Result, error)

type resultKind int

const (
	kindNext resultKind = iota
	kindDone
	kindCancel
)

// Result tells the engine what to do with the pending slot after a step.
type Result struct {
	kind resultKind
	next StepID
	ctx  string
}

// Next arms the given step as the new pending slot with a context value for
// it to pick up.
func Next(step StepID, ctx string) Result {
	return Result{kind: kindNext, next: step, ctx: ctx}
}

// Done clears the pending slot; the wizard completed.
func Done() Result {
	return Result{kind: kindDone}
}

// Cancelled clears the pending slot and emits the cancellation side effect.
func Cancelled() Result {
	return Result{kind: kindCancel}
}

type slot struct {
	step      StepID
	ctx       string
	updatedAt time.Time
}

// Engine is the per-user step-chain state machine. All work for one user is
// serialized behind a per-user mutex; distinct users advance concurrently.
type Engine struct {
	logger *zap.Logger
	ttl    time.Duration

	regMu sync.RWMutex
	steps map[StepID]Handler

	onCancel func(req Request) error

	mu      sync.Mutex
	pending map[int64]*slot
	locks   map[int64]*sync.Mutex
}

// New creates an engine. Pending steps untouched for ttl are auto-cancelled
// by Sweep.
func New(ttl time.Duration, logger *zap.Logger) *Engine {
	return &Engine{
		logger:  logger,
		ttl:     ttl,
		steps:   make(map[StepID]Handler),
		pending: make(map[int64]*slot),
		locks:   make(map[int64]*sync.Mutex),
	}
}

// Register binds a step id to its handler. Steps are registered once at
// startup.
func (e *Engine) Register(step StepID, h Handler) {
	e.regMu.Lock()
	defer e.regMu.Unlock()
	e.steps[step] = h
}

// OnCancel sets the side effect emitted when a wizard is cancelled or
// expires.
func (e *Engine) OnCancel(fn func(req Request) error) {
	e.onCancel = fn
}

// userLock returns the mutex serializing all wizard work for one user.
func (e *Engine) userLock(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[userID] = l
	}
	return l
}

// Begin arms a wizard entry step, replacing any pending step the user had.
// Button handlers use it to resume a wizard outside the text flow. Callers
// already inside Advance or Serialize hold the user's lock; Begin itself
// only touches the slot map.
func (e *Engine) Begin(userID int64, step StepID, ctx string) {
	e.setSlot(userID, step, ctx)
}

// Apply performs the slot bookkeeping Advance does after a step handler, for
// handlers invoked from a button press instead of an inbound text.
func (e *Engine) Apply(userID int64, res Result) {
	switch res.kind {
	case kindNext:
		e.setSlot(userID, res.next, res.ctx)
	default:
		e.Clear(userID)
	}
}

// Serialize runs fn holding the user's wizard lock, so button handlers that
// read or arm wizard state never interleave with a concurrent Advance for
// the same user.
func (e *Engine) Serialize(userID int64, fn func() error) error {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()
	return fn()
}

// Pending reports the user's armed step, if any.
func (e *Engine) Pending(userID int64) (StepID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.pending[userID]
	if !ok {
		return "", false
	}
	return s.step, true
}

// Clear drops the user's pending step without side effects.
func (e *Engine) Clear(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, userID)
}

func (e *Engine) setSlot(userID int64, step StepID, ctx string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending[userID] = &slot{step: step, ctx: ctx, updatedAt: time.Now()}
}

func (e *Engine) takeSlot(userID int64) (slot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.pending[userID]
	if !ok {
		return slot{}, false
	}
	delete(e.pending, userID)
	return *s, true
}

// Advance feeds one inbound text to the user's pending step. It returns
// false when no step was pending so the caller can fall through to the
// command dispatcher. The cancel input is honored at every step before the
// handler runs.
func (e *Engine) Advance(ctx context.Context, userID int64, text string, r render.Func) (bool, error) {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	s, ok := e.takeSlot(userID)
	if !ok {
		return false, nil
	}

	req := Request{Ctx: ctx, UserID: userID, Input: text, Prior: s.ctx, Render: r}

	if text == CancelInput {
		return true, e.emitCancel(req)
	}

	e.regMu.RLock()
	h, ok := e.steps[s.step]
	e.regMu.RUnlock()
	if !ok {
		return true, fmt.Errorf("no handler registered for step %q", s.step)
	}

	res, err := h(req)
	if err != nil {
		// The slot stays cleared: a failed step must not trap the user in
		// a wizard they cannot leave.
		return true, err
	}

	switch res.kind {
	case kindNext:
		e.setSlot(userID, res.next, res.ctx)
	case kindCancel:
		return true, e.emitCancel(req)
	}
	return true, nil
}

func (e *Engine) emitCancel(req Request) error {
	if e.onCancel == nil {
		return nil
	}
	return e.onCancel(req)
}

// Sweep cancels pending steps untouched for longer than the engine TTL and
// returns how many were dropped. Nothing else reclaims abandoned wizards.
func (e *Engine) Sweep(now time.Time) int {
	e.mu.Lock()
	var stale []int64
	for userID, s := range e.pending {
		if now.Sub(s.updatedAt) > e.ttl {
			stale = append(stale, userID)
		}
	}
	for _, userID := range stale {
		delete(e.pending, userID)
	}
	e.mu.Unlock()

	if len(stale) > 0 {
		e.logger.Info("Expired abandoned wizards", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run sweeps expired wizards periodically until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			e.Sweep(now)
		}
	}
}
