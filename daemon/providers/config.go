package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is a validated configuration document. The tree below
// "databases" is kept generic: its shape is only checked for the
// (database, function) pair a query asks for, so a broken entry for one
// function does not take down every other lookup.
type Config struct {
	Debug bool
	doc   map[string]interface{}
}

// Document returns the root object of the configuration.
func (c *Config) Document() map[string]interface{} {
	return c.doc
}

// FunctionsOf returns the set of function names configured for database,
// or nil if the database has no well-formed functions object.
func (c *Config) FunctionsOf(database string) map[string]bool {
	databases, _ := c.doc["databases"].(map[string]interface{})
	db, _ := databases[database].(map[string]interface{})
	fns, ok := db["functions"].(map[string]interface{})
	if !ok {
		return nil
	}
	names := make(map[string]bool, len(fns))
	for name := range fns {
		names[name] = true
	}
	return names
}

// LoadConfig reads and validates the configuration document at path. The
// decoder is picked from the file extension: .yaml/.yml and .toml are
// accepted besides JSON. Configuration is read from disk on every call and
// never cached.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailable("failed to read config file: %w", err)
	}

	doc, err := decodeDocument(path, data)
	if err != nil {
		return nil, unavailable("failed to parse config file %s: %w", path, err)
	}

	return ParseConfig(doc)
}

// ParseConfig validates an already decoded document.
func ParseConfig(doc interface{}) (*Config, error) {
	doc, err := normalize(doc)
	if err != nil {
		return nil, unavailable("config is not usable: %w", err)
	}
	root, ok := doc.(map[string]interface{})
	if !ok {
		return nil, unavailable("config is not an object")
	}
	if len(root) == 0 {
		return nil, unavailable("config is empty")
	}

	cfg := &Config{doc: root}
	if v, exists := root["debug"]; exists {
		debug, ok := v.(bool)
		if !ok {
			return nil, tryAgain("config key debug must be a boolean, got %T", v)
		}
		cfg.Debug = debug
	}

	if _, exists := root["databases"]; !exists {
		return nil, unavailable("no databases in config")
	}

	return cfg, nil
}

func decodeDocument(path string, data []byte) (interface{}, error) {
	var doc interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case ".toml":
		var table map[string]interface{}
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, err
		}
		doc = table
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid JSON")
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// normalize converts the maps produced by the different decoders into
// map[string]interface{} so that the rest of the package sees one shape.
func normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, child := range t {
			n, err := normalize(child)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, child := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v", k)
			}
			n, err := normalize(child)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, child := range t {
			n, err := normalize(child)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, child := range t {
			n, err := normalize(child)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}
