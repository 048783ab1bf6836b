// Package app implements the spvbuild use cases.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/spvbuild/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/spvbuild/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/spvbuild/internal/core/domain"
	"go.trai.ch/spvbuild/internal/core/ports"
	"go.trai.ch/spvbuild/internal/engine/runner"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Log formats accepted by ConfigureLogging.
const (
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// DefaultCompilerName is shown by List when no compiler path is given.
const DefaultCompilerName = "glslangValidator"

// App represents the main application logic.
type App struct {
	loader   ports.ConfigLoader
	compiler ports.Compiler
	logger   ports.Logger
	store    ports.BuildInfoStore
	hasher   ports.Hasher
	renderer ports.Renderer
	watcher  ports.Watcher

	out            io.Writer
	debounceWindow time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	compiler ports.Compiler,
	log ports.Logger,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	renderer ports.Renderer,
	fileWatcher ports.Watcher,
) *App {
	return &App{
		loader:         loader,
		compiler:       compiler,
		logger:         log,
		store:          store,
		hasher:         hasher,
		renderer:       renderer,
		watcher:        fileWatcher,
		out:            os.Stdout,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithOutput sets where List writes the plan.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// SetOutput redirects everything the app prints: the plan and compiler
// output to stdout, logs and progress to stderr. Logger and renderer
// implementations that cannot be redirected are left alone.
func (a *App) SetOutput(stdout, stderr io.Writer) {
	a.out = stdout
	if l, ok := a.logger.(interface{ SetOutput(w io.Writer) }); ok {
		l.SetOutput(stderr)
	}
	if r, ok := a.renderer.(interface{ SetOutput(stdout, stderr io.Writer) }); ok {
		r.SetOutput(stdout, stderr)
	}
}

// WithDebounceWindow sets how long watch mode waits for changes to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounceWindow = d
	return a
}

// ConfigureLogging switches the logger between pretty and JSON output.
func (a *App) ConfigureLogging(format string) error {
	var enableJSON bool
	switch format {
	case "", LogFormatPretty:
	case LogFormatJSON:
		enableJSON = true
	default:
		return zerr.With(domain.ErrInvalidLogFormat, "format", format)
	}

	if l, ok := a.logger.(interface{ SetJSON(enable bool) }); ok {
		l.SetJSON(enableJSON)
	}
	return nil
}

// CompileOptions configures Compile.
type CompileOptions struct {
	CompilerPath string
	Dir          string
	Manifest     string
	Incremental  bool
	Watch        bool
}

func (o CompileOptions) toolchain() domain.Toolchain {
	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	return domain.Toolchain{CompilerPath: o.CompilerPath, ShaderDir: dir}
}

// Compile runs every job once. With Watch set it then rebuilds on changes
// until ctx is cancelled.
func (a *App) Compile(ctx context.Context, opts CompileOptions) error {
	tc := opts.toolchain()
	if err := tc.Validate(); err != nil {
		return err
	}

	manifest, err := a.loader.Load(opts.Manifest)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	a.logger.Info("compiling shaders with " + tc.CompilerPath)

	if err := a.build(ctx, tc, manifest, opts.Incremental || opts.Watch); err != nil {
		if !opts.Watch {
			return err
		}
		a.logger.Error(err)
	}

	if !opts.Watch {
		return nil
	}
	return a.watch(ctx, tc, manifest)
}

// build runs the manifest once with the renderer attached.
func (a *App) build(ctx context.Context, tc domain.Toolchain, manifest *domain.Manifest, incremental bool) error {
	tp := setupOTel(telemetry.NewBridge(a.renderer))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()

	tracer := telemetry.NewOTelTracer("spvbuild").WithRenderer(a.renderer)
	r := runner.NewRunner(a.compiler, a.store, a.hasher, tracer, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.renderer.Start(ctx); err != nil {
			return err
		}
		return a.renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = a.renderer.Stop()
		}()

		summary, err := r.Run(ctx, tc, manifest, runner.Options{Incremental: incremental})
		if err != nil {
			return err
		}
		a.logger.Info(summaryMessage(summary))
		return nil
	})

	return g.Wait()
}

func summaryMessage(s runner.Summary) string {
	if s.Cached == 0 {
		return fmt.Sprintf("compiled %d shader(s)", s.Compiled)
	}
	return fmt.Sprintf("compiled %d shader(s), %d unchanged", s.Compiled, s.Cached)
}

// watch rebuilds incrementally after every debounced burst of shader
// changes. Rebuilds never overlap; a failed rebuild is logged and watching
// continues.
func (a *App) watch(ctx context.Context, tc domain.Toolchain, manifest *domain.Manifest) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.watcher.Start(ctx, tc.ShaderDir); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	a.logger.Info("watching " + tc.ShaderDir + " for changes")

	trigger := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func(paths []string) {
		select {
		case trigger <- paths:
		default:
			// A rebuild is already queued and will see these changes.
		}
	})
	defer debouncer.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-trigger:
				a.logger.Info("changed: " + strings.Join(paths, ", "))
				if err := a.build(ctx, tc, manifest, true); err != nil && ctx.Err() == nil {
					a.logger.Error(err)
				}
			}
		}
	})

	return g.Wait()
}

// ListOptions configures List.
type ListOptions struct {
	CompilerPath string
	Dir          string
	Manifest     string
}

// List prints each job with the command line that would compile it.
func (a *App) List(_ context.Context, opts ListOptions) error {
	manifest, err := a.loader.Load(opts.Manifest)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	tc := CompileOptions{CompilerPath: opts.CompilerPath, Dir: opts.Dir}.toolchain()
	if tc.CompilerPath == "" {
		tc.CompilerPath = DefaultCompilerName
	}

	for i, job := range manifest.Jobs() {
		args := a.compiler.CommandLine(tc, job)
		if _, err := fmt.Fprintf(a.out, "%2d  %s\n    %s\n", i+1, job.Name(), strings.Join(args, " ")); err != nil {
			return err
		}
	}
	return nil
}

// CleanOptions configures Clean.
type CleanOptions struct {
	Dir      string
	Manifest string
	// Outputs also removes every job's SPIR-V output.
	Outputs bool
}

// Clean removes the incremental build state and, optionally, the outputs.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	dir := CompileOptions{Dir: opts.Dir}.toolchain().ShaderDir
	var errs error

	stateDir := filepath.Join(dir, domain.StateDirName)
	a.logger.Info("removing " + stateDir)
	if err := os.RemoveAll(stateDir); err != nil {
		errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove build state"), "path", stateDir))
	}

	if !opts.Outputs {
		return errs
	}

	manifest, err := a.loader.Load(opts.Manifest)
	if err != nil {
		return errors.Join(errs, zerr.Wrap(err, "failed to load manifest"))
	}

	removed := 0
	for _, job := range manifest.Jobs() {
		path := filepath.Join(dir, job.OutputPath())
		err := os.Remove(path)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove output"), "path", path))
		}
	}
	a.logger.Info(fmt.Sprintf("removed %d output file(s)", removed))

	return errs
}

// setupOTel installs a tracer provider that reports spans to bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}
