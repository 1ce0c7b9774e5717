// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"
	"os"
	"os/user"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// LoggingLevels is the choice set produced by the logging_levels resolver.
var LoggingLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

var fileExtensions = []string{".txt", ".json", ".yaml", ".yml", ".toml", ".xml", ".csv", ".log"}

var goVersions = []string{"1.21", "1.22", "1.23", "1.24", "1.25"}

// Builtin returns a registry preloaded with the built-in resolvers.
//
// Choice resolvers: logging_levels, env_vars, file_extensions, go_versions.
// Default resolvers: current_user, current_dir, home_dir, temp_dir.
func Builtin() *Registry {
	r := New()
	r.RegisterChoice("logging_levels", func() ([]string, error) {
		return append([]string{}, LoggingLevels...), nil
	})
	r.RegisterChoice("env_vars", envVarNames)
	r.RegisterChoice("file_extensions", func() ([]string, error) {
		return append([]string{}, fileExtensions...), nil
	})
	r.RegisterChoice("go_versions", sortedGoVersions)
	r.RegisterDefault("current_user", currentUser)
	r.RegisterDefault("current_dir", func() (any, error) {
		return os.Getwd()
	})
	r.RegisterDefault("home_dir", func() (any, error) {
		return os.UserHomeDir()
	})
	r.RegisterDefault("temp_dir", func() (any, error) {
		return os.TempDir(), nil
	})
	return r
}

func envVarNames() ([]string, error) {
	env := os.Environ()
	names := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// sortedGoVersions returns the known release series in semantic version
// order, so the choice set stays ordered however the list is maintained.
func sortedGoVersions() ([]string, error) {
	versions := make(semver.Collection, 0, len(goVersions))
	for _, raw := range goVersions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("bad version %q: %w", raw, err)
		}
		versions = append(versions, v)
	}
	sort.Sort(versions)
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = fmt.Sprintf("%d.%d", v.Major(), v.Minor())
	}
	return out, nil
}

func currentUser() (any, error) {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username, nil
	}
	if name := os.Getenv("USER"); name != "" {
		return name, nil
	}
	if name := os.Getenv("USERNAME"); name != "" {
		return name, nil
	}
	return "unknown", nil
}
