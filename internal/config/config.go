// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the standard locations.
const FileName = "pumlcache.yaml"

type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

var Config Type

func init() {
	_, _ = Load()
}

// Load reads the config file and makes it the package-wide Config. The
// optional namespace, typically the subcommand name, is tried before the bare
// key on every lookup.
func Load(namespace ...string) (Type, error) {
	path, err := getConfigPath()
	if err != nil {
		return Type{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{Source: path, Data: data}
	if len(namespace) > 0 {
		Config.Namespace = namespace[0]
	}

	return Config, nil
}

// get resolves a dotted key, <namespace>.<key> first when a namespace is set.
func (cfg *Type) get(kspec string) (any, error) {
	candidates := []string{kspec}
	if cfg.Namespace != "" {
		candidates = append([]string{cfg.Namespace + "." + kspec}, candidates...)
	}

	for _, key := range candidates {
		if v, ok := walk(cfg.Data, strings.Split(key, ".")); ok {
			return v, nil
		}
	}

	return nil, fmt.Errorf("no valid path found among: %v", candidates)
}

func walk(node interface{}, path []string) (interface{}, bool) {
	for _, p := range path {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if node, ok = m[p]; !ok {
			return nil, false
		}
	}
	return node, true
}

// lookup lazily loads the config and converts the value at key. A missing key
// yields the single default when one is given. A present value of the wrong
// kind is always an error.
func lookup[T any](key, kind string, convert func(any) (T, bool), defaultValue []T) (T, error) {
	var zero T

	if len(Config.Data) == 0 {
		_, _ = Load(Config.Namespace)
	}

	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return zero, err
	}

	v, ok := convert(val)
	if !ok {
		return zero, fmt.Errorf("value is not a %s", kind)
	}
	return v, nil
}

// Get returns the raw value at key, or defaultValue when it is missing.
func Get(key string, defaultValue ...any) (any, error) {
	return lookup(key, "value", func(v any) (any, bool) { return v, true }, defaultValue)
}

func GetString(key string, defaultValue ...string) (string, error) {
	return lookup(key, "string", func(v any) (string, bool) {
		s, ok := v.(string)
		return s, ok
	}, defaultValue)
}

func GetInt(key string, defaultValue ...int) (int, error) {
	return lookup(key, "int", func(v any) (int, bool) {
		// YAML numbers may be unmarshaled as int/float64 depending on content.
		switch n := v.(type) {
		case int:
			return n, true
		case int64:
			return int(n), true
		case float64:
			return int(n), true
		}
		return 0, false
	}, defaultValue)
}

func GetBool(key string, defaultValue ...bool) (bool, error) {
	return lookup(key, "bool", func(v any) (bool, bool) {
		b, ok := v.(bool)
		return b, ok
	}, defaultValue)
}

// GetStringSlice returns a list value. Scalars in the list are formatted with
// %v.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	return lookup(key, "list", func(v any) ([]string, bool) {
		items, ok := v.([]interface{})
		if !ok {
			return nil, false
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out, true
	}, defaultValue)
}

// getConfigPath resolves the config file. PUMLCACHE_CFG wins outright;
// otherwise the first pumlcache.yaml found in XDG_CONFIG_HOME, APPDATA or HOME
// is used.
func getConfigPath() (string, error) {
	if p := os.Getenv("PUMLCACHE_CFG"); p != "" {
		fi, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("config file not found: %s", p)
		}
		if fi.IsDir() {
			return "", fmt.Errorf("PUMLCACHE_CFG points to a directory: %s", p)
		}
		return p, nil
	}

	for _, env := range []string{"XDG_CONFIG_HOME", "APPDATA", "HOME"} {
		dir := os.Getenv(env)
		if dir == "" {
			continue
		}
		file := filepath.Join(dir, FileName)
		if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
			log.Debugf("using config file: %s", file)
			return file, nil
		}
	}

	return "", fmt.Errorf("no config file found in standard locations")
}
