package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phobologic/backbonelint/internal/config"
	"github.com/phobologic/backbonelint/internal/rules"
)

const (
	sentinelStart = "# backbonelint:start"
	sentinelEnd   = "# backbonelint:end"
)

// runInit implements the `backbonelint init` subcommand, which writes (or
// updates) the managed block of a .backbonelint.toml config file.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("backbonelint init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dryRun bool
	fs.BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: backbonelint init [flags] [path-to-config]

Write a default backbonelint configuration block. The block is wrapped in
sentinel comments so it can be updated in place on subsequent runs without
touching surrounding settings. Creates the file if it does not exist.

path-to-config defaults to ./.backbonelint.toml.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	section := generateSection()

	// --dry-run with no path: just print the section itself.
	if dryRun && fs.NArg() == 0 {
		_, _ = fmt.Fprintln(stdout, section)
		return nil
	}

	path := config.FileNames[0]
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote backbonelint config to %s\n", path)
	return nil
}

// generateSection returns the sentinel-wrapped default configuration. It only
// sets top-level keys so that tables following it in the file keep their
// meaning.
func generateSection() string {
	var b strings.Builder
	b.WriteString(sentinelStart + "\n")
	b.WriteString(`# Managed by "backbonelint init"; this block is replaced on re-run.
# Run "backbonelint --help" for all flags.
extends = ["recommended"]

# Paths to skip, as globs relative to this file, e.g. "test/fixtures/**".
ignore = []

# Extra definition bases, checked before Backbone.Model/View/Collection:
#
# [settings.backbone]
# Model = ["App.Model"]
# View = ["App.View", "BaseView"]
# Collection = ["App.Collection"]
#
# Override recommended severities (off, warn, error):
#
# [rules]
`)
	rec := rules.Recommended()
	for _, name := range rules.Names() {
		fmt.Fprintf(&b, "# %q = %q\n", name, rec[name].String())
	}
	b.WriteString(sentinelEnd)
	return b.String()
}

// applySection inserts section into content, replacing an existing sentinel
// block if present. A new block is placed at the top of the file: TOML keys
// after a table header belong to that table. It is a pure function for easy
// testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	if content == "" {
		return section + "\n"
	}
	return section + "\n\n" + content
}
