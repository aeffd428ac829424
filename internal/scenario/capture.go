package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/pages"
	"github.com/themizzi/shopcheck/internal/session"
)

// CaptureSession logs in once with a fresh context and saves the resulting
// cookies and storage to store.
func CaptureSession(ctx context.Context, engine browser.Engine, store *session.Store, target config.TargetConfig) (*session.State, error) {
	r := &Runner{Engine: engine, Store: store, Target: target}
	return r.CaptureSession(ctx)
}

// CaptureSession is the auth scenario. It is the only scenario that exercises
// the login form when the others reuse its snapshot.
func (r *Runner) CaptureSession(ctx context.Context) (*session.State, error) {
	if r.Store == nil {
		return nil, errors.New("capturing a session needs a session store")
	}

	bctx, doc, err := r.open(ctx, false)
	if err != nil {
		return nil, err
	}
	defer bctx.Close()

	login := pages.NewLoginPage(doc)
	inventory := pages.NewInventoryPage(doc)
	var state *session.State

	err = Run(ctx, r.logger(), "auth", []Step{
		{"open login page", func(ctx context.Context) error {
			return login.Goto(ctx, r.Target.BaseURL)
		}},
		{"log in", func(ctx context.Context) error {
			return login.Login(ctx, r.Target.Username, r.Target.Password)
		}},
		{"reach inventory", func(ctx context.Context) error {
			return reachInventory(ctx, login, inventory)
		}},
		{"capture state", func(ctx context.Context) error {
			captured, err := bctx.StorageState(ctx)
			if err != nil {
				return err
			}
			state = captured
			return nil
		}},
		{"save state", func(ctx context.Context) error {
			if err := r.Store.Save(state); err != nil {
				return fmt.Errorf("failed to save session state: %w", err)
			}
			r.logger().WithFields(logrus.Fields{
				"path":    r.Store.Path(),
				"cookies": len(state.Cookies),
				"origins": len(state.Origins),
			}).Info("Session state saved")
			return nil
		}},
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// reachInventory turns a login that stayed on the login screen into an
// assertion failure carrying the banner text.
func reachInventory(ctx context.Context, login *pages.LoginPage, inventory *pages.InventoryPage) error {
	message, err := login.AwaitOutcome(ctx)
	if err != nil {
		return err
	}
	if message != "" {
		return &AssertionError{What: "login", Want: "inventory", Got: message}
	}
	return inventory.WaitLoaded(ctx)
}
