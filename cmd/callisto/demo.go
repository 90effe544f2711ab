package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/intercept"
	"mercator-hq/callisto/pkg/pipeline"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the pipeline against the console sink",
	Long: `Wire a full pipeline from the configuration file and push a handful of
intercepted sample calls through it: a success, a failure, and an
asynchronous completion. Useful for checking what a configuration
actually produces.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	p, err := pipeline.New(cfg, pipeline.WithConfigPath(cfgFile))
	if err != nil {
		return err
	}
	if err := p.Start(); err != nil {
		return err
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	ic := p.Interceptor()

	// Successful synchronous call.
	_, _ = ic.Do(ctx, intercept.Invocation{
		TypeName:   "demo.GreeterService",
		MethodName: "Greet",
		Args:       []intercept.Arg{{Name: "name", Value: "world"}},
		Call: func(context.Context) (any, error) {
			return "hello, world", nil
		},
	})

	// Failing synchronous call; the error still reaches the caller.
	_, err = ic.Do(ctx, intercept.Invocation{
		TypeName:   "demo.GreeterService",
		MethodName: "Fail",
		Call: func(context.Context) (any, error) {
			return nil, errors.New("demo failure")
		},
	})
	if err != nil {
		fmt.Printf("call returned error as expected: %v\n", err)
	}

	// Asynchronous call settling after the method returns.
	future := intercept.NewFuture[string]()
	_, _ = ic.Do(ctx, intercept.Invocation{
		TypeName:   "demo.GreeterService",
		MethodName: "GreetLater",
		Call: func(context.Context) (any, error) {
			go func() {
				time.Sleep(50 * time.Millisecond)
				future.Complete("hello, later")
			}()
			return future, nil
		},
	})

	// Give the async completion a moment, then drain.
	time.Sleep(200 * time.Millisecond)

	drainCtx, cancel := context.WithTimeout(ctx, cfg.Queue.DrainTimeout)
	defer cancel()
	return p.Shutdown(drainCtx)
}
