package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/opmodel/extpack/internal/compiler"
	oerrors "github.com/opmodel/extpack/internal/errors"
	"github.com/opmodel/extpack/internal/manifest"
	"github.com/opmodel/extpack/internal/output"
	"github.com/opmodel/extpack/internal/version"
)

// debugSuffix marks debug build directories.
const debugSuffix = "-dbg"

// Orchestrator runs the build stages for one configuration.
type Orchestrator struct {
	cfg      Config
	compiler compiler.Compiler
	resolver version.Resolver
	out      io.Writer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOutput sets where compiler diagnostics and the manifest diff are
// printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.out = w
	}
}

// NewOrchestrator creates an orchestrator. The compiler is only used when
// a compile stage is enabled.
func NewOrchestrator(cfg Config, c compiler.Compiler, r version.Resolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		compiler: c,
		resolver: r,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Target computes the build location for a display name and version.
func (o *Orchestrator) Target(name, ver string) Target {
	dirName := name + "-" + ver
	if o.cfg.Debug {
		dirName += debugSuffix
	}
	dir := filepath.Join(o.cfg.OutputDir, dirName)
	return Target{
		Name:    dirName,
		Dir:     dir,
		Archive: dir + ".zip",
		Version: ver,
	}
}

// Run executes the build.
//
// The version is resolved and the source manifest parsed before anything
// on disk is touched. Stage failures are returned as *StageError; output
// written by earlier stages is left in place.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	ver, err := o.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := manifest.Load(o.cfg.sourcePath(o.cfg.Manifest))
	if err != nil {
		return nil, &StageError{Stage: StageManifest, Err: err}
	}
	if o.cfg.App {
		doc.Kind = manifest.KindApp
	}

	name, err := o.displayName(doc)
	if err != nil {
		return nil, err
	}

	target := o.Target(name, ver)
	result := &Result{Target: target}
	output.Info("building", "target", target.Name, "kind", doc.Kind, "debug", o.cfg.Debug)

	run := func(stage Stage, fn func(*log.Logger) error) error {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: stage, Err: err}
		}
		logger := output.StageLogger(stage.String())
		if err := fn(logger); err != nil {
			return &StageError{Stage: stage, Err: err}
		}
		result.Stages = append(result.Stages, stage)
		return nil
	}

	if err := run(StageClean, func(l *log.Logger) error {
		return clean(target, l)
	}); err != nil {
		return result, err
	}

	if err := run(StageStaticCopy, func(l *log.Logger) error {
		if err := copyFiles(o.cfg.SourceDir, target.Dir, o.cfg.Files, l); err != nil {
			return err
		}
		result.Copied = clone(o.cfg.Files)
		return nil
	}); err != nil {
		return result, err
	}

	var backgroundScripts []string
	if err := run(StageManifest, func(l *log.Logger) error {
		backgroundScripts, err = o.processManifest(doc, name, ver, target, l)
		return err
	}); err != nil {
		return result, err
	}

	if o.cfg.Background.Level.Enabled() && len(backgroundScripts) > 0 {
		if err := run(StageBackgroundCompile, func(l *log.Logger) error {
			return o.compileBackground(ctx, backgroundScripts, target, result, l)
		}); err != nil {
			return result, err
		}
	}

	if pages := o.compiledPages(); len(pages) > 0 {
		if err := run(StagePagesCompile, func(l *log.Logger) error {
			return o.compilePages(ctx, pages, target, result, l)
		}); err != nil {
			return result, err
		}
	}

	if err := run(StageArchive, func(l *log.Logger) error {
		l.Info("archiving", "path", target.Archive)
		return writeArchive(target.Dir, target.Archive, l)
	}); err != nil {
		return result, err
	}

	return result, nil
}

// displayName picks the configured name, falling back to the manifest's.
func (o *Orchestrator) displayName(doc *manifest.Document) (string, error) {
	if o.cfg.Name != "" {
		return o.cfg.Name, nil
	}
	name := doc.Name()
	if name == "" || strings.HasPrefix(name, "__MSG_") {
		return "", oerrors.NewValidationError(
			"no display name configured and the manifest name is not a literal",
			"name",
			"Set name in extpack.yaml.",
		)
	}
	return name, nil
}

// processManifest rewrites name, version and, when the background is
// compiled, the script list. It returns the scripts to compile.
func (o *Orchestrator) processManifest(doc *manifest.Document, name, ver string, target Target, l *log.Logger) ([]string, error) {
	before, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	if o.cfg.LocalizedName {
		doc.SetDisplayName(manifest.LocalizedNameKey)
	} else {
		doc.SetDisplayName(name)
	}
	doc.SetVersion(ver)

	var compiled []string
	if o.cfg.Background.Level.Enabled() {
		var passthrough []string
		compiled, passthrough, err = doc.PartitionBackgroundScripts(o.cfg.Background.Passthrough)
		if err != nil {
			return nil, err
		}
		if len(compiled) == 0 {
			l.Warn("no background scripts to compile", "passthrough", len(passthrough))
		} else {
			scripts := append(passthrough, o.cfg.Background.Bundle)
			if err := doc.SetBackgroundScripts(scripts); err != nil {
				return nil, err
			}
		}
	}

	after, err := doc.Bytes()
	if err != nil {
		return nil, err
	}
	if err := writeFile(target.Dir, o.cfg.Manifest, after); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	l.Info(output.FormatFileLine(o.cfg.Manifest, output.StatusRewritten))

	if o.cfg.ShowManifestDiff {
		diff, err := output.DocumentDiff("source", before, "build", after, output.IsTTY())
		if err != nil {
			l.Warn("could not diff manifest", "error", err)
		} else if diff != "" {
			fmt.Fprintln(o.out, output.IndentDiff(diff, "  "))
		}
	}

	return compiled, nil
}

func (o *Orchestrator) compileBackground(ctx context.Context, scripts []string, target Target, result *Result, l *log.Logger) error {
	bg := o.cfg.Background
	unit := compiler.NewUnit("background", scripts, bg.Bundle, o.cfg.unitOptions(bg.Level, bg.Externs))

	jobs, err := o.compile(ctx, []compiler.Unit{unit}, result, l)
	if err != nil {
		return err
	}
	return writeBundles(target, jobs, l)
}

// pageUnit pairs a page with its compilation unit.
type pageUnit struct {
	page      PageConfig
	rewritten string
}

func (o *Orchestrator) compiledPages() []PageConfig {
	var pages []PageConfig
	for _, p := range o.cfg.Pages {
		if p.Level.Enabled() {
			pages = append(pages, p)
		}
	}
	return pages
}

func (o *Orchestrator) compilePages(ctx context.Context, pages []PageConfig, target Target, result *Result, l *log.Logger) error {
	prepared := make([]pageUnit, 0, len(pages))
	units := make([]compiler.Unit, 0, len(pages))

	for _, p := range pages {
		data, err := os.ReadFile(o.cfg.sourcePath(p.HTML))
		if err != nil {
			if os.IsNotExist(err) {
				return &MissingSourceFileError{Path: p.HTML, Cause: err}
			}
			return err
		}

		region, err := o.cfg.Markers.Locate(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", p.HTML, err)
		}

		scripts, err := pageScripts(p.HTML, region.Scripts)
		if err != nil {
			return err
		}

		rewritten, err := o.cfg.Markers.ReplaceRegion(string(data), pageRelative(p.HTML, p.Bundle))
		if err != nil {
			return fmt.Errorf("%s: %w", p.HTML, err)
		}

		prepared = append(prepared, pageUnit{page: p, rewritten: rewritten})
		units = append(units, compiler.NewUnit(p.HTML, scripts, p.Bundle, o.cfg.unitOptions(p.Level, p.Externs)))
	}

	jobs, err := o.compile(ctx, units, result, l)
	if err != nil {
		return err
	}
	if err := writeBundles(target, jobs, l); err != nil {
		return err
	}

	for _, pu := range prepared {
		if err := writeFile(target.Dir, pu.page.HTML, []byte(pu.rewritten)); err != nil {
			return fmt.Errorf("writing %s: %w", pu.page.HTML, err)
		}
		l.Info(output.FormatFileLine(pu.page.HTML, output.StatusRewritten))
	}
	return nil
}

// compile submits units, prints their diagnostics in unit order and fails
// if any unit reported errors. Nothing is written on failure.
func (o *Orchestrator) compile(ctx context.Context, units []compiler.Unit, result *Result, l *log.Logger) ([]JobResult, error) {
	for _, u := range units {
		paths := u.Paths()
		if u.Options.Externs != "" {
			paths = append(paths, u.Options.Externs)
		}
		if err := checkSources(o.cfg.SourceDir, paths); err != nil {
			return nil, err
		}
		l.Info(output.FormatUnitLine(u.Name, len(u.Files), u.Output))
	}

	var jobs []JobResult
	exec := NewExecutor(o.compiler, o.cfg.Parallelism)
	err := output.RunWithSpinner(ctx, func() error {
		var execErr error
		jobs, execErr = exec.Execute(ctx, units)
		return execErr
	}, output.WithTitle(fmt.Sprintf("Compiling %d unit(s)...", len(units))))

	// diagnostics of finished units are printed even when another unit
	// failed to reach the service
	var firstErr error
	for _, j := range jobs {
		if j.Result == nil {
			continue
		}
		compiler.WriteDiagnostics(o.out, j.Result)
		result.Units = append(result.Units, j.Result)
		result.Warnings += len(j.Result.Warnings)
		if err := j.Result.Err(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return jobs, nil
}

func writeBundles(target Target, jobs []JobResult, l *log.Logger) error {
	for _, j := range jobs {
		if err := writeFile(target.Dir, j.Unit.Output, []byte(j.Result.CompiledCode)); err != nil {
			return fmt.Errorf("writing %s: %w", j.Unit.Output, err)
		}
		l.Info(output.FormatFileLine(j.Unit.Output, output.StatusCompiled))
	}
	return nil
}

// pageScripts resolves script references of a page against the page's
// directory. Root-relative references resolve against the source root.
// Query strings and fragments are dropped.
func pageScripts(html string, srcs []string) ([]string, error) {
	dir := path.Dir(html)
	scripts := make([]string, 0, len(srcs))
	for _, src := range srcs {
		if i := strings.IndexAny(src, "?#"); i >= 0 {
			src = src[:i]
		}
		if strings.Contains(src, "://") || strings.HasPrefix(src, "//") {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("remote script %q cannot be compiled", src),
				html,
				"Move remote scripts outside the <!-- JS --> region.",
			)
		}
		if strings.HasPrefix(src, "/") {
			scripts = append(scripts, strings.TrimPrefix(path.Clean(src), "/"))
			continue
		}
		scripts = append(scripts, path.Join(dir, src))
	}
	return scripts, nil
}

// pageRelative returns the reference to bundle from html's directory.
func pageRelative(html, bundle string) string {
	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(html)), filepath.FromSlash(bundle))
	if err != nil {
		return bundle
	}
	return filepath.ToSlash(rel)
}
