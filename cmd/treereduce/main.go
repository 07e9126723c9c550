// Copyright (c) 2024 The treereduce developers

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/quillparse/treereduce/internal/adapter/treesitter"
	"github.com/quillparse/treereduce/internal/check"
	"github.com/quillparse/treereduce/internal/checkcache"
	"github.com/quillparse/treereduce/internal/co"
	"github.com/quillparse/treereduce/internal/config"
	"github.com/quillparse/treereduce/internal/driver"
	"github.com/quillparse/treereduce/internal/metrics"
	"github.com/quillparse/treereduce/internal/nodetypes"
	"github.com/quillparse/treereduce/internal/reduce"
	"github.com/quillparse/treereduce/internal/stats"
	"github.com/quillparse/treereduce/replacements"
)

var (
	version   string
	gitCommit string
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "treereduce",
		Usage:     "syntax-aware parallel test-case reducer",
		ArgsUsage: "-- CHECK [ARG...]",
		Flags: []cli.Flag{
			grammarFlag,
			nodeTypesFlag,
			sourceFlag,
			outputFlag,
			checkJSFlag,
			jobsFlag,
			onParseErrorFlag,
			interestingExitCodeFlag,
			interestingStdoutFlag,
			interestingStderrFlag,
			uninterestingStdoutFlag,
			uninterestingStderrFlag,
			inheritStdoutFlag,
			inheritStderrFlag,
			noVerifyFlag,
			tempDirFlag,
			timeoutFlag,
			minReductionFlag,
			passesFlag,
			fastFlag,
			slowFlag,
			stableFlag,
			statsFlag,
			cacheFlag,
			configFlag,
			metricsAddrFlag,
			verbosityFlag,
		},
		Action: reduceAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, level, true)
	log.SetDefault(log.NewLogger(handler))
}

// parseOnParseError maps the --on-parse-error flag's string value to a
// driver.OnParseError, per spec.md §6.
func parseOnParseError(s string) (driver.OnParseError, error) {
	switch s {
	case "ignore":
		return driver.ParseErrorIgnore, nil
	case "warn":
		return driver.ParseErrorWarn, nil
	case "error":
		return driver.ParseErrorAbort, nil
	default:
		return 0, errors.Errorf("treereduce: --on-parse-error must be ignore, warn, or error (got %q)", s)
	}
}

func reduceAction(ctx *cli.Context) error {
	initLogger(ctx)

	// runCtx is canceled on the first Ctrl-C so an in-flight interestingness
	// check gets torn down instead of leaking past the CLI's exit (spec.md
	// §4.6.4/§9 Interrupted handling): the driver's pass loop and every
	// in-flight interestingness subprocess (started via
	// exec.CommandContext) observe its cancellation directly.
	runCtx, stopSignal := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignal()

	input, err := readSource(ctx)
	if err != nil {
		return err
	}

	onParseError, err := parseOnParseError(ctx.String(onParseErrorFlag.Name))
	if err != nil {
		return err
	}

	nt, err := loadNodeTypes(ctx)
	if err != nil {
		return err
	}

	chk, err := buildCheck(ctx)
	if err != nil {
		return err
	}
	var cache *checkcache.Cache
	if cachePath := ctx.String(cacheFlag.Name); cachePath != "" {
		cache, err = checkcache.NewPersistent(4096, cachePath)
	} else {
		cache, err = checkcache.New(4096)
	}
	if err != nil {
		return err
	}
	chk = checkcache.Wrap(chk, cache)

	if !ctx.Bool(noVerifyFlag.Name) {
		interesting, err := check.Interesting(runCtx, chk, input)
		if err != nil {
			return errors.Wrap(err, "treereduce: verify original input")
		}
		if !interesting {
			return errors.New("treereduce: the unmodified input is not itself interesting (use --no-verify to skip this check)")
		}
	}

	replacementTable := make(map[string][][]byte, len(replacements.C))
	for kind, alts := range replacements.C {
		replacementTable[kind] = append([][]byte(nil), alts...)
	}
	if configPath := ctx.String(configFlag.Name); configPath != "" {
		f, err := config.Load(configPath)
		if err != nil {
			return err
		}
		for kind, alts := range f.ReplacementTable() {
			replacementTable[kind] = append(replacementTable[kind], alts...)
		}
	}

	var collector *metrics.Collector
	var metricsGoes co.Goes
	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		collector = metrics.NewCollector()
		srv := &http.Server{Addr: addr, Handler: collector.Handler()}
		metricsGoes.Go(func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("metrics server stopped", "err", err)
			}
		})
		defer func() {
			srv.Close()
			metricsGoes.Wait()
		}()
		log.Info("serving metrics", "addr", addr)
	}

	reduceCfg := reduce.Config{
		Check:        chk,
		Jobs:         ctx.Int(jobsFlag.Name),
		MinReduction: ctx.Int(minReductionFlag.Name),
		Replacements: replacementTable,
	}
	if collector != nil {
		reduceCfg.Hooks = collector
	}

	driverCfg := driver.Config{
		Reduce:       reduceCfg,
		MaxPasses:    ctx.Int(passesFlag.Name),
		OnParseError: onParseError,
		Stable:       ctx.Bool(stableFlag.Name),
	}
	driverCfg = driver.ApplyFastSlowPresets(driverCfg, ctx.Bool(fastFlag.Name), ctx.Bool(slowFlag.Name), ctx.IsSet(passesFlag.Name))
	if driverCfg.MaxPasses > 0 {
		driverCfg.Bar = stats.NewBar(driverCfg.MaxPasses)
	}

	parser := treesitter.New(treesitter.C(nt))

	final, run, err := driver.Run(runCtx, parser, nt, input, driverCfg)
	if err != nil {
		return errors.Wrap(err, "treereduce: reduce")
	}

	fmt.Printf(">> reduced %d -> %d bytes across %d passes (-%d total)\n",
		len(input), len(final), len(run.Passes), run.TotalReduced())
	if ctx.Bool(statsFlag.Name) {
		run.WriteByKind(os.Stdout)
	}

	return writeOutput(ctx, final)
}

// readSource reads the program to reduce from --source, or from stdin if
// --source was not given.
func readSource(ctx *cli.Context) ([]byte, error) {
	if path := ctx.String(sourceFlag.Name); path != "" {
		input, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "treereduce: read --source")
		}
		return input, nil
	}
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.Wrap(err, "treereduce: read stdin")
	}
	return input, nil
}

// writeOutput writes final to --output, or to stdout if --output is "-".
func writeOutput(ctx *cli.Context, final []byte) error {
	outPath := ctx.String(outputFlag.Name)
	if outPath == "-" {
		_, err := os.Stdout.Write(final)
		return errors.Wrap(err, "treereduce: write output to stdout")
	}
	if err := os.WriteFile(outPath, final, 0o644); err != nil {
		return errors.Wrap(err, "treereduce: write output")
	}
	return nil
}

func loadNodeTypes(ctx *cli.Context) (nodetypes.NodeTypes, error) {
	path := ctx.String(nodeTypesFlag.Name)
	if path == "" {
		return nodetypes.NodeTypes{}, errors.New("treereduce: --node-types is required")
	}
	return treesitter.LoadNodeTypesFile(path)
}

// buildCheck assembles the interestingness Check from --check-js, or from
// the positional argv after "--" (spec.md §6's documented interestingness
// command).
func buildCheck(ctx *cli.Context) (check.Check, error) {
	if js := ctx.String(checkJSFlag.Name); js != "" {
		source, err := os.ReadFile(js)
		if err != nil {
			return nil, errors.Wrap(err, "treereduce: read --check-js")
		}
		return check.NewJSCheck(string(source))
	}

	argv := []string(ctx.Args())
	if len(argv) == 0 {
		return nil, errors.New("treereduce: an interestingness command is required (pass it after --, or use --check-js)")
	}

	cfg := check.CmdCheckConfig{
		Argv:          argv,
		ExitCodes:     ctx.IntSlice(interestingExitCodeFlag.Name),
		TempDir:       ctx.String(tempDirFlag.Name),
		Timeout:       time.Duration(ctx.Int(timeoutFlag.Name)) * time.Second,
		InheritStdout: ctx.Bool(inheritStdoutFlag.Name),
		InheritStderr: ctx.Bool(inheritStderrFlag.Name),
	}
	if pattern := ctx.String(interestingStdoutFlag.Name); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, "treereduce: compile --interesting-stdout")
		}
		cfg.InterestingStdout = re
	}
	if pattern := ctx.String(interestingStderrFlag.Name); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, "treereduce: compile --interesting-stderr")
		}
		cfg.InterestingStderr = re
	}
	if pattern := ctx.String(uninterestingStdoutFlag.Name); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, "treereduce: compile --uninteresting-stdout")
		}
		cfg.UninterestingStdout = re
	}
	if pattern := ctx.String(uninterestingStderrFlag.Name); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, "treereduce: compile --uninteresting-stderr")
		}
		cfg.UninterestingStderr = re
	}

	return check.NewCmdCheck(cfg)
}
