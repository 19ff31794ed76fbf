// Command ogma is a thin CLI over internal/bat: it owns flag parsing
// and output only, the way the teacher keeps all decision logic out of
// its own entry points and inside interp.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ogma-lang/ogma/internal/bat"
	"github.com/ogma-lang/ogma/internal/tag"
	"github.com/ogma-lang/ogma/internal/value"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ogma",
		Short: "Run and check ogma batch files",
	}
	root.AddCommand(runCmd(), checkCmd())
	return root
}

func runCmd() *cobra.Command {
	var parallel, failFast, verbose bool
	cmd := &cobra.Command{
		Use:   "run <file.ogma>",
		Short: "Execute every statement in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(args[0], parallel, failFast, verbose)
		},
	}
	cmd.Flags().BoolVar(&parallel, "parallel", false, "run expression statements concurrently")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "cancel not-yet-started statements after the first failure")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log batch-driver diagnostics to stderr")
	return cmd
}

func checkCmd() *cobra.Command {
	var parallel, failFast, verbose bool
	cmd := &cobra.Command{
		Use:   "check <file.ogma>",
		Short: "Compile and run a batch file, reporting outcomes without further action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(args[0], parallel, failFast, verbose)
		},
	}
	cmd.Flags().BoolVar(&parallel, "parallel", false, "run expression statements concurrently")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "cancel not-yet-started statements after the first failure")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log batch-driver diagnostics to stderr")
	return cmd
}

func execute(path string, parallel, failFast, verbose bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	wd, _ := os.Getwd()

	log := logrus.New()
	if !verbose {
		log.SetLevel(logrus.WarnLevel)
	}

	// A SIGINT mid-run closes cancel, which bat.Run checks between every
	// compiled step and surfaces as Outcome: Cancelled for the statements
	// whose evaluation observes it (with --fail-fast, statements not yet
	// started are reported Outstanding).
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)
	cancel := make(chan struct{})
	go func() {
		if _, ok := <-sig; ok {
			close(cancel)
		}
	}()

	results, perr := bat.Run(string(src), tag.File(path), bat.Options{
		Parallelise: parallel,
		FailFast:    failFast,
		WorkingDir:  wd,
		Logger:      log,
		Cancel:      cancel,
	})
	if perr != nil {
		_ = perr.Print(!color.NoColor, os.Stderr)
		return fmt.Errorf("parse failed")
	}

	failed := false
	for i, r := range results {
		switch r.Outcome {
		case bat.Success:
			if _, isNil := r.Value.(value.Nil); !isNil {
				fmt.Printf("[%d] %s\n", i, r.Value)
			}
		case bat.Failed:
			failed = true
			_ = r.Err.Print(!color.NoColor, os.Stderr)
		case bat.Outstanding:
			fmt.Printf("[%d] outstanding (cancelled by an earlier failure)\n", i)
		case bat.Cancelled:
			fmt.Printf("[%d] cancelled\n", i)
		}
	}
	if failed {
		return fmt.Errorf("one or more statements failed")
	}
	return nil
}
