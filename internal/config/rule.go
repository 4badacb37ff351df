package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/backbonelint/internal/rules"
)

// RuleConfig configures one rule. In both formats it may be written as a
// bare severity string ("no-constructor" = "error") or as a table with a
// severity and rule options.
type RuleConfig struct {
	Severity    string   `toml:"severity" yaml:"severity"`
	Identifiers []string `toml:"identifiers" yaml:"identifiers"`
	Allow       []string `toml:"allow" yaml:"allow"`
}

func (rc RuleConfig) severity() (rules.Severity, error) {
	if rc.Severity == "" {
		return rules.Error, nil
	}
	return rules.ParseSeverity(rc.Severity)
}

func (rc RuleConfig) options() rules.Options {
	return rules.Options{Identifiers: rc.Identifiers, Allow: rc.Allow}
}

// UnmarshalTOML implements toml.Unmarshaler.
func (rc *RuleConfig) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		rc.Severity = v
		return nil
	case int64:
		rc.Severity = fmt.Sprint(v)
		return nil
	case map[string]any:
		for key, val := range v {
			switch key {
			case "severity":
				rc.Severity = fmt.Sprint(val)
			case "identifiers":
				list, err := stringList(key, val)
				if err != nil {
					return err
				}
				rc.Identifiers = list
			case "allow":
				list, err := stringList(key, val)
				if err != nil {
					return err
				}
				rc.Allow = list
			default:
				return fmt.Errorf("unknown rule option %q", key)
			}
		}
		return nil
	}
	return fmt.Errorf("rule config must be a severity or a table, got %T", data)
}

func stringList(key string, val any) ([]string, error) {
	items, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (rc *RuleConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		rc.Severity = value.Value
		return nil
	}
	type plain RuleConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*rc = RuleConfig(p)
	return nil
}
