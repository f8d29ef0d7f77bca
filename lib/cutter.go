package lib

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Cutter runs one cut request end to end: plan, log, and either print the
// command (dry run) or execute it.
type Cutter struct {
	Request CutRequest
}

// Run builds the plan for the configured request and executes it.
// In dry-run mode the exact command is printed and nothing is launched.
func (c *Cutter) Run(ctx context.Context) error {
	if _, err := os.Stat(c.Request.InputPath); err != nil {
		return fmt.Errorf("input file not readable: %w", err)
	}

	plan, err := PlanCut(c.Request)
	if err != nil {
		return err
	}

	slog.Info("ffmpeg command", "cmd", QuoteCommand(plan.Args))
	slog.Info("Output file", "path", plan.OutputPath)

	if c.Request.DryRun {
		fmt.Println(QuoteCommand(plan.Args))
		slog.Info("Dry run, ffmpeg not executed")
		return nil
	}

	if err := RunPlan(ctx, plan, ParseClockSeconds(c.Request.Duration)); err != nil {
		return err
	}

	slog.Info("Cut complete", "output", plan.OutputPath)
	return nil
}

// QuoteCommand renders an argument vector as a copy-pasteable shell line,
// single-quoting anything with whitespace or shell metacharacters.
func QuoteCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n\"'\\$&|;<>()*?[]#~%") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
