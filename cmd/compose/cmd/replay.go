package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/go-drift/compose/pkg/core"
	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/metrics"
	"github.com/go-drift/compose/pkg/scenario"
)

func init() {
	RegisterCommand(&Command{
		Name:  "replay",
		Short: "Replay a scenario through the engine",
		Long: `Replay a YAML scenario through the reconciliation engine.

The first frame is mounted as the root. Every following frame is
reconciled against the retained element tree, so elements whose type and
key are unchanged keep their identity and state. After each frame the
element and render trees are printed; at the end the reconciliation
decision totals are printed unless metrics are disabled in compose.yaml.

Flags:
  --quiet    Do not print the trees, only the totals`,
		Usage: "compose replay [--quiet] <scenario.yaml>",
		Run:   runReplay,
	})
}

func runReplay(args []string) (err error) {
	quiet := false
	var path string
	for _, arg := range args {
		switch arg {
		case "--quiet", "-q":
			quiet = true
		default:
			if path != "" {
				return fmt.Errorf("replay takes one scenario file (got %q and %q)", path, arg)
			}
			path = arg
		}
	}
	if path == "" {
		return fmt.Errorf("replay requires a scenario file")
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).
		Level(cfg.LogLevel).
		With().Timestamp().Str("app", cfg.AppName).
		Logger()
	errors.SetHandler(&errors.LogHandler{Verbose: cfg.Verbose, Logger: &logger})
	defer errors.SetHandler(nil)

	registry := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(cfg.AppName, registry)
	if err != nil {
		return err
	}

	ctx := core.NewFrameworkContext(
		core.WithLogger(logger),
		core.WithObserver(collector),
		core.WithSyncRebuild(cfg.SyncRebuild),
	)

	// Fatal engine errors abort the replay; they have already been logged.
	defer func() {
		if r := recover(); r != nil {
			fe, ok := errors.AsFramework(r)
			if !ok {
				panic(r)
			}
			err = fe
		}
	}()

	name := s.Name
	if name == "" {
		name = path
	}
	fmt.Fprintf(stdout, "scenario %s: %d frames\n", name, len(s.Frames))

	err = scenario.Replay(ctx, s, func(index int, frame scenario.Frame, root core.ElementID) error {
		title := fmt.Sprintf("frame %d", index)
		if frame.Name != "" {
			title += " (" + frame.Name + ")"
		}
		fmt.Fprintf(stdout, "\n== %s: root=%s elements=%d render=%d\n", title, root, ctx.Len(), ctx.RenderTree().Len())
		if quiet {
			return nil
		}
		fmt.Fprintln(stdout, "elements:")
		if err := core.DumpElementTree(stdout, ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "render:")
		return core.DumpRenderTree(stdout, ctx)
	})
	if err != nil {
		return err
	}

	if cfg.Metrics {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "decisions:")
		for _, decision := range core.Decisions {
			fmt.Fprintf(stdout, "  %-8s %d\n", decision, int(collector.Decisions(decision)))
		}
		fmt.Fprintln(stdout, "rebuilds:")
		for _, kind := range []core.ViewKind{core.KindStateless, core.KindStateful, core.KindRenderObject} {
			fmt.Fprintf(stdout, "  %-9s %d\n", kind, int(collector.Rebuilds(kind)))
		}
	}
	return nil
}
