// Command libctl runs lending operations against the library database from
// the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"libraryapi/internal/app"
	"libraryapi/internal/config"
	"libraryapi/internal/platform/logging"
)

func main() {
	c := &cli{open: openApp}
	err := newRootCmd(c).Execute()
	c.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "libctl: %v\n", err)
		os.Exit(1)
	}
}

func openApp(ctx context.Context) (deps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return deps{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		return deps{}, nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return deps{}, nil, err
	}
	closeFn := func() {
		a.Close()
		_ = logger.Sync()
	}
	return deps{
		lending:         a.Lending,
		books:           a.Books,
		defaultLoanDays: cfg.DefaultLoanDays,
	}, closeFn, nil
}
