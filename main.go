// backbonelint checks Backbone.js Model, View and Collection definitions in
// JavaScript and TypeScript sources.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"syscall"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/backbonelint/internal/config"
	"github.com/phobologic/backbonelint/internal/discover"
	"github.com/phobologic/backbonelint/internal/lang"
	"github.com/phobologic/backbonelint/internal/lint"
	"github.com/phobologic/backbonelint/internal/model"
	"github.com/phobologic/backbonelint/internal/ranking"
	"github.com/phobologic/backbonelint/internal/report"
	"github.com/phobologic/backbonelint/internal/toon"
	"github.com/phobologic/backbonelint/internal/watch"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

const (
	formatTOON = "toon"
	formatText = "text"
)

// errLintFailed is returned when at least one error-severity diagnostic was
// reported. main exits non-zero without printing it.
var errLintFailed = errors.New("lint errors found")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "init" {
		err = runInit(os.Args[2:], os.Stdout, os.Stderr)
	} else {
		err = run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	}
	if err == nil {
		return
	}
	if !errors.Is(err, errLintFailed) && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	stop()
	os.Exit(1)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("backbonelint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath  string
		format      string
		maxFiles    int
		langs       string
		cachePath   string
		maxFileSize int
		watchMode   bool
		showVersion bool
	)

	fs.StringVar(&configPath, "c", "", "config file (default: .backbonelint.toml or .yaml in the root)")
	fs.StringVar(&configPath, "config", "", "config file (default: .backbonelint.toml or .yaml in the root)")
	fs.StringVar(&format, "f", formatTOON, "output format: toon or text")
	fs.StringVar(&format, "format", formatTOON, "output format: toon or text")
	fs.IntVar(&maxFiles, "n", 0, "maximum number of files to include")
	fs.IntVar(&maxFiles, "max-files", 0, "maximum number of files to include")
	fs.StringVar(&langs, "l", "", "comma-separated languages to include")
	fs.StringVar(&langs, "langs", "", "comma-separated languages to include")
	fs.StringVar(&cachePath, "cache", "", "cache file path (toon format only)")
	fs.IntVar(&maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	fs.BoolVar(&watchMode, "w", false, "re-lint changed files until interrupted")
	fs.BoolVar(&watchMode, "watch", false, "re-lint changed files until interrupted")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "backbonelint %s\n", version)
		return nil
	}

	if format != formatTOON && format != formatText {
		return fmt.Errorf("unsupported format %q (want %s or %s)", format, formatTOON, formatText)
	}
	if cachePath != "" && format != formatTOON {
		return fmt.Errorf("--cache requires --format %s", formatTOON)
	}
	if cachePath != "" && watchMode {
		return fmt.Errorf("--cache cannot be combined with --watch")
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	var langFilter []string
	if langs != "" {
		for _, name := range strings.Split(langs, ",") {
			name = strings.TrimSpace(name)
			if _, ok := lang.Languages[name]; !ok {
				return fmt.Errorf("unsupported language %q (want one of %s)", name, strings.Join(lang.Names(), ", "))
			}
			langFilter = append(langFilter, name)
		}
	}

	cfg, err := loadConfig(root, configPath)
	if err != nil {
		return err
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Discover files
	files, err := discover.Files(root, langFilter, resolved.Ignored)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 && !watchMode {
		return fmt.Errorf("no lintable files found")
	}

	// Check cache freshness
	if cachePath != "" && cacheIsFresh(cachePath, root, files, cfg.Path) {
		data, err := os.ReadFile(cachePath)
		if err == nil {
			if _, errs, _, ok := toon.Summary(string(data)); ok {
				_, _ = stdout.Write(data)
				if errs > 0 {
					return errLintFailed
				}
				return nil
			}
		}
	}

	// Filter by size
	files = filterBySize(root, files, maxFileSize, stderr)
	if len(files) == 0 && !watchMode {
		return fmt.Errorf("no lintable files found (all exceeded size limit)")
	}

	l := &linter{
		root:        root,
		name:        filepath.Base(root),
		cfg:         resolved,
		langFilter:  langFilter,
		maxFiles:    maxFiles,
		maxFileSize: maxFileSize,
		format:      format,
		cachePath:   cachePath,
		stdout:      stdout,
		stderr:      stderr,
		reports:     make(map[string]model.FileReport),
	}

	for _, fr := range lintFilesConcurrent(ctx, root, files, resolved, stderr) {
		l.reports[fr.Path] = fr
	}

	errs, err := l.emit()
	if err != nil {
		return err
	}

	if watchMode {
		return l.watch(ctx, cfg.Watch)
	}
	if errs > 0 {
		return errLintFailed
	}
	return nil
}

func loadConfig(root, path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.LoadDir(root)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func cacheIsFresh(cachePath, root string, files []discover.FileEntry, configPath string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	paths := make([]string, 0, len(files)+1)
	for _, f := range files {
		paths = append(paths, filepath.Join(root, f.Path))
	}
	if configPath != "" {
		paths = append(paths, configPath)
	}

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}

func filterBySize(root string, files []discover.FileEntry, maxSize int, stderr io.Writer) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: skipped (>%d bytes)\n", f.Path, maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func lintFilesConcurrent(ctx context.Context, root string, files []discover.FileEntry, cfg *config.Resolved, stderr io.Writer) []model.FileReport {
	type result struct {
		index  int
		report model.FileReport
		ok     bool
	}

	if len(files) == 0 {
		return nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup
	var stderrMu sync.Mutex

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser per language
			parsers := make(map[string]*sitter.Parser)

			for idx := range work {
				f := files[idx]
				fr, err := lintFile(ctx, parsers, root, f, cfg)
				if err != nil {
					stderrMu.Lock()
					_, _ = fmt.Fprintf(stderr, "Warning: failed to lint %s: %v\n", f.Path, err)
					stderrMu.Unlock()
					continue
				}
				results <- result{index: idx, report: fr, ok: true}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	indexed := make([]model.FileReport, len(files))
	valid := make([]bool, len(files))
	for r := range results {
		indexed[r.index] = r.report
		valid[r.index] = r.ok
	}

	var reports []model.FileReport
	for i, v := range valid {
		if v {
			reports = append(reports, indexed[i])
		}
	}
	return reports
}

// lintFile lints one discovered file, creating its language's parser in
// parsers on first use. parsers must not be shared between goroutines.
func lintFile(ctx context.Context, parsers map[string]*sitter.Parser, root string, f discover.FileEntry, cfg *config.Resolved) (model.FileReport, error) {
	l, ok := lang.Languages[f.Language]
	if !ok {
		return model.FileReport{}, fmt.Errorf("unsupported language %q", f.Language)
	}
	parser, ok := parsers[f.Language]
	if !ok {
		parser = l.NewParser()
		parsers[f.Language] = parser
	}

	source, err := os.ReadFile(filepath.Join(root, f.Path))
	if err != nil {
		return model.FileReport{}, err
	}
	return lint.File(ctx, l, parser, source, filepath.ToSlash(f.Path), cfg)
}

// linter holds the per-file results of a run so watch mode can re-lint only
// the files that changed.
type linter struct {
	root        string
	name        string
	cfg         *config.Resolved
	langFilter  []string
	maxFiles    int
	maxFileSize int
	format      string
	cachePath   string
	stdout      io.Writer
	stderr      io.Writer

	reports map[string]model.FileReport
	parsers map[string]*sitter.Parser
}

// emit writes the current results in the configured format and returns the
// number of error diagnostics across all files.
func (l *linter) emit() (int, error) {
	files := make([]model.FileReport, 0, len(l.reports))
	for _, fr := range l.reports {
		files = append(files, fr)
	}
	ranking.Sort(files)

	rep := &model.Report{Name: l.name, Files: files}
	errs, _ := rep.Totals()

	// Select top N files
	if l.maxFiles > 0 {
		rep = ranking.SelectFiles(rep, l.maxFiles)
	}

	if l.format == formatText {
		return errs, report.Text(l.stdout, rep)
	}

	output := toon.Encode(rep)

	// Write cache
	if l.cachePath != "" {
		_ = os.WriteFile(l.cachePath, []byte(output+"\n"), 0o644)
	}

	_, err := fmt.Fprintln(l.stdout, output)
	return errs, err
}

// watch re-lints changed files and re-emits the report until ctx is done.
func (l *linter) watch(ctx context.Context, wc config.Watch) error {
	logger := slog.New(slog.NewTextHandler(l.stderr, nil))
	l.parsers = make(map[string]*sitter.Parser)

	w, err := watch.New(watch.Options{
		Debounce: wc.Debounce,
		Exclude:  wc.Exclude,
		Accept: func(path string) bool {
			_, ok := l.entry(path)
			return ok
		},
		OnChange: func(paths []string) {
			l.update(ctx, paths, logger)
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	if err := w.Watch([]string{l.root}); err != nil {
		return fmt.Errorf("watching %s: %w", l.root, err)
	}
	logger.Info("watching for changes", "root", l.root)

	<-ctx.Done()
	logger.Info("stopping watcher")
	return nil
}

// entry maps an absolute path to the discover entry it would have produced.
func (l *linter) entry(path string) (discover.FileEntry, bool) {
	rel, err := filepath.Rel(l.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return discover.FileEntry{}, false
	}
	name := discover.Language(rel)
	if name == "" || l.cfg.Ignored(rel) {
		return discover.FileEntry{}, false
	}
	if len(l.langFilter) > 0 && !slices.Contains(l.langFilter, name) {
		return discover.FileEntry{}, false
	}
	return discover.FileEntry{Path: rel, Language: name}, true
}

// update re-lints the changed paths. Callbacks are serialized by the watcher.
func (l *linter) update(ctx context.Context, paths []string, logger *slog.Logger) {
	for _, path := range paths {
		f, ok := l.entry(path)
		if !ok {
			continue
		}
		key := filepath.ToSlash(f.Path)

		fi, err := os.Stat(path)
		if err != nil {
			delete(l.reports, key)
			logger.Info("file removed", "path", key)
			continue
		}
		if fi.Size() > int64(l.maxFileSize) {
			delete(l.reports, key)
			logger.Warn("file skipped", "path", key, "size", fi.Size(), "max", l.maxFileSize)
			continue
		}

		fr, err := lintFile(ctx, l.parsers, l.root, f, l.cfg)
		if err != nil {
			logger.Warn("lint failed", "path", key, "error", err)
			continue
		}
		l.reports[key] = fr
	}

	errs, err := l.emit()
	if err != nil {
		logger.Error("writing report", "error", err)
		return
	}
	logger.Info("re-linted", "changed", len(paths), "files", len(l.reports), "errors", errs)
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-c": true, "--c": true,
	"-config": true, "--config": true,
	"-f": true, "--f": true,
	"-format": true, "--format": true,
	"-n": true, "--n": true,
	"-max-files": true, "--max-files": true,
	"-l": true, "--l": true,
	"-langs": true, "--langs": true,
	"-cache": true, "--cache": true,
	"-max-file-size": true, "--max-file-size": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
