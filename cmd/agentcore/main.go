// Command agentcore is a thin CLI for smoke-testing the runtime: it wires
// an in-process demo LLM provider to a chosen strategy and runs one query.
// There is no real model provider in this core's scope, so
// this is a harness, not a product CLI.
//
// Usage:
//
//	agentcore query --strategy loop "summarize the attached notes"
//	agentcore version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/agentcore/pkg/agentcore"
	"github.com/kadirpekel/agentcore/pkg/checkpoint"
	"github.com/kadirpekel/agentcore/pkg/config"
	"github.com/kadirpekel/agentcore/pkg/logger"
	"github.com/kadirpekel/agentcore/pkg/strategy"
)

// CLI defines the command-line interface: a struct of cmd structs, each
// with its own Run method.
type CLI struct {
	Query   QueryCmd   `cmd:"" help:"Run one query against the demo provider and print the final turn."`
	Watch   WatchCmd   `cmd:"" help:"Watch a strategy config file and print it each time it reloads."`
	Version VersionCmd `cmd:"" help:"Show version information."`

	Config   string `short:"c" help:"Path to a strategy config YAML file." type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`
}

// QueryCmd runs one generate call end to end.
type QueryCmd struct {
	Input        string `arg:"" help:"The input text to send."`
	Strategy     string `help:"Strategy to run (loop, react, plan). Overridden by --config if set." default:"loop"`
	Checkpointed bool   `help:"Persist state snapshots to ./checkpoints."`
}

// strategyFromConfig builds the named strategy with its configured
// options, falling back to fallbackType when cfg is nil.
func strategyFromConfig(cfg *config.Config, fallbackType string) (agentcore.Strategy, error) {
	strategyType := fallbackType
	var loopOpts strategy.LoopOptions
	var reactOpts strategy.ReactOptions
	var planOpts strategy.PlanOptions

	if cfg != nil {
		strategyType = cfg.Strategy.Type
		loopOpts.MaxIterations = cfg.Strategy.Loop.MaxIterations
		reactOpts.MaxSteps = cfg.Strategy.React.MaxSteps
		planOpts.MaxPlanSteps = cfg.Strategy.Plan.MaxPlanSteps
	}

	switch strategyType {
	case "loop":
		return strategy.NewLoop(loopOpts), nil
	case "react":
		return strategy.NewReact(reactOpts), nil
	case "plan":
		return strategy.NewPlan(planOpts), nil
	default:
		return nil, fmt.Errorf("agentcore: unknown strategy %q", strategyType)
	}
}

func (c *QueryCmd) Run(cli *CLI) error {
	var cfg *config.Config
	if cli.Config != "" {
		loaded, err := config.LoadWithEnv(cli.Config)
		if err != nil {
			return fmt.Errorf("agentcore: load config: %w", err)
		}
		cfg = loaded
	}

	strat, err := strategyFromConfig(cfg, c.Strategy)
	if err != nil {
		return err
	}

	var checkpoints checkpoint.Checkpointer
	if c.Checkpointed {
		checkpoints = checkpoint.NewFile("./checkpoints")
	}

	agent := agentcore.New(agentcore.Options{
		System:      "You are a demo agent used for smoke testing.",
		LLM:         newEchoProvider(),
		Strategy:    strat,
		Checkpoints: checkpoints,
	})

	turn, err := agent.Query(context.Background(), c.Input)
	if err != nil {
		return fmt.Errorf("agentcore: query: %w", err)
	}

	fmt.Println(turn.Response.Text)
	return nil
}

// WatchCmd demonstrates the config hot-reload path: it loads a strategy
// config file, then watches it and prints the active strategy/options each
// time a change is reloaded.
type WatchCmd struct {
	Path string        `arg:"" help:"Path to the strategy config YAML file to watch." type:"path"`
	For  time.Duration `help:"Stop watching after this long; zero watches until interrupted." default:"0s"`
}

func (c *WatchCmd) Run(cli *CLI) error {
	provider, err := config.NewFileProvider(c.Path)
	if err != nil {
		return fmt.Errorf("agentcore: open config: %w", err)
	}
	defer provider.Close()

	cfg, err := provider.Load()
	if err != nil {
		return fmt.Errorf("agentcore: load config: %w", err)
	}
	printStrategyConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if c.For > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.For)
		defer cancel()
	}

	updates, err := provider.Watch(ctx)
	if err != nil {
		return fmt.Errorf("agentcore: watch config: %w", err)
	}

	for cfg := range updates {
		printStrategyConfig(cfg)
	}
	return nil
}

func printStrategyConfig(cfg *config.Config) {
	fmt.Printf("strategy=%s loop.maxIterations=%d react.maxSteps=%d plan.maxPlanSteps=%d\n",
		cfg.Strategy.Type, cfg.Strategy.Loop.MaxIterations, cfg.Strategy.React.MaxSteps, cfg.Strategy.Plan.MaxPlanSteps)
}

// VersionCmd prints build version info.
type VersionCmd struct{}

func (c *VersionCmd) Run(cli *CLI) error {
	fmt.Println("agentcore dev")
	return nil
}

func main() {
	cli := CLI{}
	parseCtx := kong.Parse(&cli,
		kong.Name("agentcore"),
		kong.Description("agentcore runtime smoke-test CLI"),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "agentcore: invalid log level: %v\n", err)
		os.Exit(1)
	}
	logger.Init(level, os.Stderr, "text")

	if err := parseCtx.Run(&cli); err != nil {
		slog.Error("agentcore: command failed", "error", err)
		parseCtx.FatalIfErrorf(err)
	}
}
