// Package wizard drives multi-step forms: a draft accumulated across steps,
// one validated step at a time, with a terminal submission per branch.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel lets callers raise verbosity, e.g. taistctl -v.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// ErrSubmitInFlight is returned when Next is called while a previous Next
// is still waiting on the network.
var ErrSubmitInFlight = errors.New("wizard: a request is already in progress")

// Step is one screen. Validate gates advancing and must not touch the network.
type Step[D any] interface {
	Name() string
	Validate(d *D) error
}

// Advancer is implemented by steps that do asynchronous work before the
// wizard moves on. hold keeps the wizard on the step.
type Advancer[D any] interface {
	BeforeAdvance(ctx context.Context, d *D) (hold bool, err error)
}

// Flow is the step sequence for one branch and what happens after its last step.
type Flow[D any] struct {
	Steps  []Step[D]
	Finish func(ctx context.Context, d *D) (Route, error)
}

// Route is a navigation instruction for the caller. Replace drops the
// wizard from history.
type Route struct {
	Name    string
	Replace bool
	Params  map[string]any
}

// Outcome reports what a call to Next did.
type Outcome struct {
	// Step is the step shown after the call.
	Step string
	// Route is set once the flow finished.
	Route *Route
	// Held is true when an Advancer kept the wizard on the current step.
	Held bool
}

// Controller owns a draft and the current position. The key may change
// mid-flow only while every step up to the current one is common to both
// flows; Update refuses any other change.
type Controller[D any, K comparable] struct {
	flows map[K]Flow[D]
	key   func(*D) K
	draft D
	pos   int
	busy  atomic.Bool
}

// New starts a controller at step zero.
func New[D any, K comparable](initial D, key func(*D) K, flows map[K]Flow[D]) *Controller[D, K] {
	return &Controller[D, K]{flows: flows, key: key, draft: initial}
}

// Draft returns a copy of the accumulated draft.
func (c *Controller[D, K]) Draft() D {
	return c.draft
}

// Update shallow-merges patches into the draft. If the result selects a
// flow that does not share the steps shown so far, the draft is left as it
// was and Update reports false.
func (c *Controller[D, K]) Update(patches ...draft.Patch[D]) bool {
	before, from := c.draft, c.key(&c.draft)
	draft.Apply(&c.draft, patches...)
	if to := c.key(&c.draft); to != from && !c.sharedThroughCurrent(c.flows[from], c.flows[to]) {
		c.draft = before
		log.WithFields(logrus.Fields{"index": c.pos, "from": from, "to": to}).Warn("Update would switch to a flow missing the current step")
		return false
	}
	return true
}

func (c *Controller[D, K]) sharedThroughCurrent(a, b Flow[D]) bool {
	if c.pos >= len(a.Steps) || c.pos >= len(b.Steps) {
		return false
	}
	for i := 0; i <= c.pos; i++ {
		if a.Steps[i].Name() != b.Steps[i].Name() {
			return false
		}
	}
	return true
}

// Index is the zero-based position in the current flow.
func (c *Controller[D, K]) Index() int {
	return c.pos
}

// Flow is the sequence selected by the draft as it is now.
func (c *Controller[D, K]) Flow() Flow[D] {
	return c.flows[c.key(&c.draft)]
}

// Current returns the step being shown.
func (c *Controller[D, K]) Current() Step[D] {
	steps := c.Flow().Steps
	if c.pos >= len(steps) {
		return nil
	}
	return steps[c.pos]
}

// Busy reports whether a Next call is waiting on the network.
func (c *Controller[D, K]) Busy() bool {
	return c.busy.Load()
}

// Back moves to the previous step. It reports false on the first step.
func (c *Controller[D, K]) Back() bool {
	if c.busy.Load() || c.pos == 0 {
		return false
	}
	c.pos--
	return true
}

// Next validates the current step, runs its Advancer, and either moves on
// or, on the last step, runs the flow's Finish.
func (c *Controller[D, K]) Next(ctx context.Context) (Outcome, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return Outcome{}, ErrSubmitInFlight
	}
	defer c.busy.Store(false)

	flow := c.Flow()
	if c.pos >= len(flow.Steps) {
		return Outcome{}, fmt.Errorf("wizard: position %d outside a %d step flow", c.pos, len(flow.Steps))
	}
	step := flow.Steps[c.pos]
	logger := log.WithFields(logrus.Fields{"step": step.Name(), "index": c.pos})

	if err := step.Validate(&c.draft); err != nil {
		logger.WithField("reason", err.Error()).Debug("Step rejected input")
		return Outcome{Step: step.Name()}, err
	}

	if adv, ok := step.(Advancer[D]); ok {
		hold, err := adv.BeforeAdvance(ctx, &c.draft)
		if err != nil {
			return Outcome{Step: step.Name()}, err
		}
		if hold {
			logger.Debug("Step held")
			return Outcome{Step: step.Name(), Held: true}, nil
		}
	}

	// The key may have changed (e.g. the user type step), so look the flow up again.
	flow = c.Flow()
	if c.pos < len(flow.Steps)-1 {
		c.pos++
		logger.WithField("next", flow.Steps[c.pos].Name()).Debug("Advanced")
		return Outcome{Step: flow.Steps[c.pos].Name()}, nil
	}

	if flow.Finish == nil {
		return Outcome{Step: step.Name()}, fmt.Errorf("wizard: flow ending at %s has no finish", step.Name())
	}
	route, err := flow.Finish(ctx, &c.draft)
	if err != nil {
		logger.WithField("reason", err.Error()).Info("Finish failed")
		return Outcome{Step: step.Name()}, err
	}
	logger.WithField("route", route.Name).Info("Wizard finished")
	return Outcome{Step: step.Name(), Route: &route}, nil
}
