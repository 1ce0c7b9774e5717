// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package conffile loads and saves parser configuration documents as generic
// trees. YAML and TOML are selected by file extension.
package conffile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultSuffix names app-specific config files: "<app>-argonaut.yaml".
const DefaultSuffix = "-argonaut.yaml"

// Load reads a configuration document into a generic tree. YAML rejects
// duplicate mapping keys, so two subcommands with the same name fail here.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree := map[string]any{}
	switch ext(path) {
	case ".toml":
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return tree, nil
}

// Save serializes tree to path in the format its extension names. The write
// goes to a temporary file first and is moved into place, so a crash cannot
// leave a truncated config behind.
func Save(path string, tree map[string]any) error {
	var data []byte
	var err error
	switch ext(path) {
	case ".toml":
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(tree); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		data = []byte(b.String())
	default:
		data, err = yaml.Marshal(tree)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// FindDefault looks for an app-specific config file ("*-argonaut.yaml") in
// dir. When several exist the most recently modified wins.
func FindDefault(dir string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+DefaultSuffix))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	best := ""
	var bestMod int64
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil {
			continue
		}
		if best == "" || fi.ModTime().UnixNano() > bestMod {
			best = m
			bestMod = fi.ModTime().UnixNano()
		}
	}
	return best, best != ""
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
