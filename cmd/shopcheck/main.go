package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	internalcli "github.com/themizzi/shopcheck/internal/cli"
	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/logging"
)

var version = "0.1.0"

// newLogger builds the logger every command shares
func newLogger() (*logrus.Logger, func(), error) {
	logConfig, err := config.LoadLogConfig(os.Getenv)
	if err != nil {
		return nil, nil, err
	}
	logger, out, err := logging.New(logConfig)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { out.Close() }, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the demo shop",
		Action: func(c *cli.Context) error {
			logger, closeLog, err := newLogger()
			if err != nil {
				return err
			}
			defer closeLog()

			serverConfig, err := config.LoadServerConfig(os.Getenv)
			if err != nil {
				return err
			}

			handler, closeStore, err := internalcli.BuildShopHandler(serverConfig, os.Getenv, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig: serverConfig,
				Handler:      handler,
				Logger:       logger,
			})
		},
	}
}

// withScenario loads the browser and target configuration, starts the
// engine and hands a runner to fn. SIGINT and SIGTERM cancel the run.
func withScenario(c *cli.Context, fn func(ctx context.Context, deps internalcli.ScenarioDependencies) error) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	browserConfig, err := config.LoadBrowserConfig(os.Getenv)
	if err != nil {
		return err
	}
	target := config.LoadTargetConfig(os.Getenv)

	engine, err := internalcli.NewEngine(browserConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to start %s engine: %w", browserConfig.Engine, err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close browser engine")
		}
	}()
	logger.WithFields(logrus.Fields{"engine": engine.Name(), "url": target.BaseURL}).Debug("Browser engine started")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, internalcli.ScenarioDependencies{
		Runner: internalcli.NewRunner(engine, browserConfig, target, logger),
		Out:    c.App.Writer,
	})
}

// AuthCommand returns the auth command
func AuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in and save the session for later runs",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "invalidate", Usage: "mark the saved session stale instead of logging in"},
			&cli.BoolFlag{Name: "clear", Usage: "delete the saved session instead of logging in"},
		},
		Action: func(c *cli.Context) error {
			invalidate, remove := c.Bool("invalidate"), c.Bool("clear")
			if invalidate && remove {
				return errors.New("--invalidate and --clear cannot be combined")
			}
			if !invalidate && !remove {
				return withScenario(c, internalcli.RunAuth)
			}

			browserConfig, err := config.LoadBrowserConfig(os.Getenv)
			if err != nil {
				return err
			}
			store := internalcli.NewStateStore(browserConfig)
			if remove {
				return internalcli.RunAuthClear(store, c.App.Writer)
			}
			return internalcli.RunAuthInvalidate(store, c.App.Writer)
		},
	}
}

// CheckoutCommand returns the checkout command
func CheckoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "Buy a random item and verify the order",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "reuse-session", Usage: "start from the session saved by the auth command"},
			&cli.Uint64Flag{Name: "seed", Usage: "seed for the item pick; 0 picks at random"},
		},
		Action: func(c *cli.Context) error {
			return withScenario(c, func(ctx context.Context, deps internalcli.ScenarioDependencies) error {
				deps.Runner.ReuseSession = c.Bool("reuse-session")
				if seed := c.Uint64("seed"); seed != 0 {
					deps.Runner.Rand = rand.New(rand.NewPCG(seed, seed))
				}
				return internalcli.RunCheckout(ctx, deps)
			})
		},
	}
}

// CountriesCommand returns the countries command
func CountriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "countries",
		Usage: "List the countries of the practice table that speak a language",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "language", Value: "Portuguese", Usage: "primary language to filter on"},
		},
		Action: func(c *cli.Context) error {
			return withScenario(c, func(ctx context.Context, deps internalcli.ScenarioDependencies) error {
				return internalcli.RunCountries(ctx, deps, c.String("language"))
			})
		},
	}
}

// SearchCommand returns the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the marketplace and print the result titles",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "site", Usage: "country site to switch to first"},
			&cli.StringFlag{Name: "query", Value: "iphone", Usage: "search terms"},
			&cli.IntFlag{Name: "limit", Usage: "print at most this many titles; 0 prints all"},
			&cli.StringFlag{Name: "home", EnvVars: []string{"SEARCH_URL"}, Usage: "marketplace home page; defaults to /search-home under URL"},
		},
		Action: func(c *cli.Context) error {
			return withScenario(c, func(ctx context.Context, deps internalcli.ScenarioDependencies) error {
				if home := c.String("home"); home != "" {
					deps.Runner.Target.SearchURL = home
				}
				return internalcli.RunSearch(ctx, deps, c.String("site"), c.String("query"), c.Int("limit"))
			})
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "shopcheck",
		Usage:   "Browser-driven checks against a shop, plus a demo shop to run them on",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(),
			AuthCommand(),
			CheckoutCommand(),
			CountriesCommand(),
			SearchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
