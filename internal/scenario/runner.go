// Package scenario drives page objects through end-to-end workflows. A
// scenario is an ordered list of steps run on one goroutine; the first step
// that fails ends the run and is reported as a *StepError.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/session"
)

// Step is one named action of a scenario.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Run executes steps in order and stops at the first failure.
func Run(ctx context.Context, log logrus.FieldLogger, name string, steps []Step) error {
	log = log.WithField("scenario", name)
	start := time.Now()

	for i, step := range steps {
		entry := log.WithFields(logrus.Fields{"step": step.Name, "index": i + 1})
		if err := ctx.Err(); err != nil {
			return &StepError{Scenario: name, Index: i, Step: step.Name, Err: err}
		}

		stepStart := time.Now()
		if err := step.Run(ctx); err != nil {
			entry.WithError(err).Error("Step failed")
			return &StepError{Scenario: name, Index: i, Step: step.Name, Err: err}
		}
		entry.WithField("duration", time.Since(stepStart)).Debug("Step passed")
	}

	log.WithFields(logrus.Fields{"steps": len(steps), "duration": time.Since(start)}).Info("Scenario passed")
	return nil
}

// Runner holds what every scenario needs: an engine, the target site and,
// optionally, a session store.
type Runner struct {
	Engine browser.Engine
	Target config.TargetConfig
	// Timeout bounds each remote call. Zero means browser.DefaultTimeout.
	Timeout time.Duration
	// Store is where CaptureSession saves the snapshot and where scenarios
	// with ReuseSession set load it from.
	Store        *session.Store
	ReuseSession bool
	Log          logrus.FieldLogger
	// Rand picks the purchased item. Nil uses the global source.
	Rand *rand.Rand
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

func (r *Runner) intN(n int) int {
	if r.Rand == nil {
		return rand.IntN(n)
	}
	return r.Rand.IntN(n)
}

// open creates an isolated context and a document in it. With reuse set the
// context starts from the stored snapshot; a stale snapshot is logged and
// used anyway.
func (r *Runner) open(ctx context.Context, reuse bool) (browser.Context, browser.Document, error) {
	if r.Engine == nil {
		return nil, nil, errors.New("no browser engine configured")
	}

	state := session.Empty()
	if reuse {
		if r.Store == nil {
			return nil, nil, errors.New("session reuse needs a session store")
		}
		loaded, err := r.Store.LoadOrEmpty()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load session state: %w", err)
		}
		log := r.logger().WithField("path", r.Store.Path())
		if stale, reason := loaded.CheckStaleness(time.Now(), r.Store.MaxAge); stale || loaded.Stale {
			log.WithField("reason", reason).Warn("Reusing stale session state; run the auth command to capture a new one")
		}
		if loaded.IsEmpty() {
			log.Warn("No session state captured; the context starts unauthenticated")
		}
		state = loaded
	}

	bctx, err := r.Engine.NewContext(ctx, browser.ContextOptions{State: state, Timeout: r.Timeout})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	doc, err := bctx.NewDocument(ctx)
	if err != nil {
		bctx.Close()
		return nil, nil, fmt.Errorf("failed to open document: %w", err)
	}
	return bctx, doc, nil
}
