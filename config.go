package apkres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// UnresolvedPolicy decides what happens to flag items whose reference can't be resolved
// when the flag table is written out.
type UnresolvedPolicy int

const (
	// Keep emits the item under its numeric fallback name.
	Keep UnresolvedPolicy = iota
	// Remove drops the item from the output.
	Remove
)

func (p UnresolvedPolicy) String() string {
	switch p {
	case Keep:
		return "keep"
	case Remove:
		return "remove"
	default:
		return fmt.Sprintf("UnresolvedPolicy(%d)", int(p))
	}
}

func (p UnresolvedPolicy) MarshalText() ([]byte, error) {
	switch p {
	case Keep, Remove:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("invalid unresolved policy %d", int(p))
	}
}

func (p *UnresolvedPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "keep", "":
		*p = Keep
	case "remove":
		*p = Remove
	default:
		return fmt.Errorf("invalid unresolved policy %q, expected keep or remove", text)
	}
	return nil
}

// Config holds the settings of a Session.
type Config struct {
	UnresolvedPolicy UnresolvedPolicy `yaml:"unresolved-policy"`

	// Logger receives the unresolved reference diagnostics. Defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger `yaml:"-"`
}

// ParseConfig reads a YAML document into a Config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
