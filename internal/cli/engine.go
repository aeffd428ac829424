package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/browser/cdpdriver"
	"github.com/themizzi/shopcheck/internal/browser/htmldoc"
	"github.com/themizzi/shopcheck/internal/browser/pwdriver"
	"github.com/themizzi/shopcheck/internal/config"
)

// NewEngine starts the browser engine cfg selects
func NewEngine(cfg config.BrowserConfig, log logrus.FieldLogger) (browser.Engine, error) {
	switch cfg.Engine {
	case config.EngineHTTP:
		return htmldoc.New(), nil
	case config.EngineChromedp:
		engine, err := cdpdriver.Launch(cdpdriver.Options{
			Headless:  cfg.Headless,
			ExecPath:  cfg.ChromePath,
			NoSandbox: os.Geteuid() == 0,
			Log:       log,
		})
		if err != nil {
			return nil, err
		}
		return engine, nil
	case config.EnginePlaywright, "":
		engine, err := pwdriver.Launch(pwdriver.Options{Headless: cfg.Headless})
		if err != nil {
			return nil, err
		}
		return engine, nil
	}
	return nil, fmt.Errorf("unknown browser engine %q", cfg.Engine)
}
