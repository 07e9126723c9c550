// Copyright (c) 2024 The treereduce developers

package main

import (
	"runtime"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	grammarFlag = cli.StringFlag{
		Name:  "grammar",
		Value: "c",
		Usage: "tree-sitter grammar to parse the target with (currently: c)",
	}
	nodeTypesFlag = cli.StringFlag{
		Name:  "node-types",
		Usage: "path to the grammar's node-types.json (required)",
	}
	sourceFlag = cli.StringFlag{
		Name:  "source",
		Usage: "path to the program to reduce (defaults to stdin)",
	}
	outputFlag = cli.StringFlag{
		Name:  "output",
		Value: "treereduce.out",
		Usage: "where to write the reduced program; - for stdout",
	}
	checkJSFlag = cli.StringFlag{
		Name:  "check-js",
		Usage: "path to a JS file defining function interesting(text), run in-process instead of the interestingness command",
	}
	jobsFlag = cli.IntFlag{
		Name:  "jobs",
		Value: runtime.NumCPU(),
		Usage: "worker goroutines per reduction pass",
	}
	onParseErrorFlag = cli.StringFlag{
		Name:  "on-parse-error",
		Value: "warn",
		Usage: "what to do when a rendered candidate fails to reparse cleanly: ignore, warn, or error",
	}
	interestingExitCodeFlag = cli.IntSliceFlag{
		Name:  "interesting-exit-code",
		Value: &cli.IntSlice{0},
		Usage: "exit code the interestingness command must return to count as interesting (repeatable)",
	}
	interestingStdoutFlag = cli.StringFlag{
		Name:  "interesting-stdout",
		Usage: "regexp the check's stdout must match to be interesting",
	}
	interestingStderrFlag = cli.StringFlag{
		Name:  "interesting-stderr",
		Usage: "regexp the check's stderr must match to be interesting",
	}
	uninterestingStdoutFlag = cli.StringFlag{
		Name:  "uninteresting-stdout",
		Usage: "regexp the check's stdout must NOT match to be interesting",
	}
	uninterestingStderrFlag = cli.StringFlag{
		Name:  "uninteresting-stderr",
		Usage: "regexp the check's stderr must NOT match to be interesting",
	}
	inheritStdoutFlag = cli.BoolFlag{
		Name:  "inherit-stdout",
		Usage: "also stream the check's stdout to our own",
	}
	inheritStderrFlag = cli.BoolFlag{
		Name:  "inherit-stderr",
		Usage: "also stream the check's stderr to our own",
	}
	noVerifyFlag = cli.BoolFlag{
		Name:  "no-verify",
		Usage: "skip the initial verification that the unmodified input is itself interesting",
	}
	tempDirFlag = cli.StringFlag{
		Name:  "temp-dir",
		Usage: "directory for @@ temp files the interestingness command reads (defaults to the OS temp dir)",
	}
	timeoutFlag = cli.IntFlag{
		Name:  "timeout",
		Value: 10,
		Usage: "interestingness-check timeout in seconds (0 = no timeout)",
	}
	minReductionFlag = cli.IntFlag{
		Name:  "min-reduction",
		Value: 2,
		Usage: "smallest byte-size task the engine will bother attempting",
	}
	passesFlag = cli.IntFlag{
		Name:  "passes",
		Value: 2,
		Usage: "maximum number of reparse/reduce/render passes",
	}
	fastFlag = cli.BoolFlag{
		Name:  "fast",
		Usage: "alias for --passes 1 --min-reduction 4",
	}
	slowFlag = cli.BoolFlag{
		Name:  "slow",
		Usage: "alias for --stable --min-reduction 1",
	}
	stableFlag = cli.BoolFlag{
		Name:  "stable",
		Usage: "require two consecutive no-progress passes before declaring a fixed point",
	}
	statsFlag = cli.BoolFlag{
		Name:  "stats",
		Usage: "print a tries/successes/retries table by task kind when done",
	}
	cacheFlag = cli.StringFlag{
		Name:  "cache",
		Usage: "path to a sqlite3 file memoizing check results across runs (in-memory only if unset)",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML file whose replacement table is added to the built-in C table (its flag-value keys are not applied)",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "if set, serve Prometheus metrics at http://<addr>/metrics for the run's duration",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
)
