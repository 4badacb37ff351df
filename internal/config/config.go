// Package config loads backbonelint configuration files and resolves them
// into the set of rules to run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/backbonelint/internal/backbone"
	"github.com/phobologic/backbonelint/internal/rules"
)

// FileNames are the config file names looked up in the lint root, in order.
var FileNames = []string{".backbonelint.toml", ".backbonelint.yaml", ".backbonelint.yml"}

// Recommended is the name of the built-in rule bundle.
const Recommended = "recommended"

const defaultDebounce = 300 * time.Millisecond

// Validation errors returned by Load and Resolve.
var (
	ErrUnknownRule       = errors.New("unknown rule")
	ErrUnknownExtends    = errors.New("unknown extends")
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// Config is a decoded .backbonelint config file.
type Config struct {
	Extends  []string              `toml:"extends" yaml:"extends"`
	Ignore   []string              `toml:"ignore" yaml:"ignore"`
	Settings Settings              `toml:"settings" yaml:"settings"`
	Rules    map[string]RuleConfig `toml:"rules" yaml:"rules"`
	Watch    Watch                 `toml:"watch" yaml:"watch"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// Settings holds shared settings read by the rules.
type Settings struct {
	Backbone backbone.Settings `toml:"backbone" yaml:"backbone"`
}

// Watch configures --watch mode.
type Watch struct {
	Debounce time.Duration `toml:"debounce" yaml:"debounce"`
	Exclude  []string      `toml:"exclude" yaml:"exclude"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{Extends: []string{Recommended}}
	applyDefaults(cfg)
	return cfg
}

// Find returns the path of the first config file present in dir, or "".
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadDir loads the config file found in dir, falling back to Default.
func LoadDir(dir string) (*Config, error) {
	path := Find(dir)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a TOML or YAML config file, chosen by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	cfg.Path = path

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = defaultDebounce
	}
	if len(cfg.Watch.Exclude) == 0 {
		cfg.Watch.Exclude = []string{".git", "node_modules", "bower_components"}
	}
}

func validate(cfg *Config) error {
	for _, ext := range cfg.Extends {
		if ext != Recommended {
			return fmt.Errorf("%w %q", ErrUnknownExtends, ext)
		}
	}
	for name, rc := range cfg.Rules {
		if _, ok := rules.Rules[name]; !ok {
			return fmt.Errorf("%w %q", ErrUnknownRule, name)
		}
		if _, err := rc.severity(); err != nil {
			return fmt.Errorf("rule %s: %w", name, err)
		}
	}
	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("ignore pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// EnabledRule is a rule that runs at a non-off severity.
type EnabledRule struct {
	Rule     *rules.Rule
	Severity rules.Severity
	Options  rules.Options
}

// Resolved is a Config flattened into what the linter needs.
type Resolved struct {
	Settings backbone.Settings
	Rules    []EnabledRule
	ignore   []glob.Glob
}

// Resolve computes the enabled rules: the recommended bundle when extended,
// overlaid with the explicitly configured rules. Rules are sorted by name.
func (c *Config) Resolve() (*Resolved, error) {
	if err := validate(c); err != nil {
		return nil, err
	}

	severities := make(map[string]rules.Severity)
	options := make(map[string]rules.Options)
	for _, ext := range c.Extends {
		if ext == Recommended {
			for name, sev := range rules.Recommended() {
				severities[name] = sev
			}
		}
	}
	for name, rc := range c.Rules {
		sev, _ := rc.severity()
		severities[name] = sev
		options[name] = rc.options()
	}

	r := &Resolved{Settings: c.Settings.Backbone}
	for name, sev := range severities {
		if sev == rules.Off {
			continue
		}
		r.Rules = append(r.Rules, EnabledRule{
			Rule:     rules.Rules[name],
			Severity: sev,
			Options:  options[name],
		})
	}
	sort.Slice(r.Rules, func(i, j int) bool {
		return r.Rules[i].Rule.Name < r.Rules[j].Rule.Name
	})

	for _, pattern := range c.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", pattern, err)
		}
		r.ignore = append(r.ignore, g)
	}
	return r, nil
}

// Ignored reports whether the root-relative path matches an ignore pattern.
func (r *Resolved) Ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range r.ignore {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
