package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cores maps a core name to its connection options.
type Cores map[string]map[string]string

type coresFile struct {
	Cores map[string]map[string]any `yaml:"cores"`
}

// LoadCores reads the cores file at path.
func LoadCores(path string) (Cores, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadingCores, err)
	}
	return ParseCores(data)
}

// ParseCores decodes a cores document. Scalar values of any YAML type are
// stored as strings; ${VAR} references are expanded from the environment.
func ParseCores(data []byte) (Cores, error) {
	var f coresFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrReadingCores, err)
	}
	out := make(Cores, len(f.Cores))
	for name, raw := range f.Cores {
		opts := make(map[string]string, len(raw))
		for k, v := range raw {
			s, err := scalar(v)
			if err != nil {
				return nil, errors.Join(ErrReadingCores, fmt.Errorf("core %q option %q: %w", name, k, err))
			}
			opts[k] = os.ExpandEnv(s)
		}
		out[name] = opts
	}
	return out, nil
}

// CoreOptions returns a copy of the options configured for core.
func (c Cores) CoreOptions(core string) (map[string]string, bool) {
	opts, ok := c[core]
	if !ok {
		return nil, false
	}
	return maps.Clone(opts), true
}

// Names returns the configured core names in sorted order.
func (c Cores) Names() []string {
	return slices.Sorted(maps.Keys(c))
}

func scalar(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(t), nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, err := scalar(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
