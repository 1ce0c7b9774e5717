// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve maps symbolic "@name" references in configuration
// documents to computed choice sets and default values.
package resolve

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Sigil prefixes a resolver reference in a configuration document.
const Sigil = "@"

// ChoiceFunc produces an ordered choice set. Funcs are evaluated lazily at
// compile time and never cached, so environment-dependent resolvers reflect
// the moment of compilation.
type ChoiceFunc func() ([]string, error)

// DefaultFunc produces a default value.
type DefaultFunc func() (any, error)

// UnknownResolverError reports a resolver reference that names no registered
// resolver.
type UnknownResolverError struct {
	Kind string // "choice" or "default"
	Name string
}

func (e *UnknownResolverError) Error() string {
	return fmt.Sprintf("unknown %s resolver: %s", e.Kind, e.Name)
}

// Registry holds named choice and default resolvers. It is an explicit value
// passed into compilation rather than process-global state, so tests can
// substitute fixed resolvers without touching the environment.
type Registry struct {
	choices  map[string]ChoiceFunc
	defaults map[string]DefaultFunc

	// LookupEnv is consulted for env-sourced argument defaults. It defaults
	// to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		choices:   map[string]ChoiceFunc{},
		defaults:  map[string]DefaultFunc{},
		LookupEnv: os.LookupEnv,
	}
}

// RegisterChoice registers (or replaces) a named choice resolver.
func (r *Registry) RegisterChoice(name string, fn ChoiceFunc) {
	r.choices[name] = fn
}

// RegisterDefault registers (or replaces) a named default resolver.
func (r *Registry) RegisterDefault(name string, fn DefaultFunc) {
	r.defaults[name] = fn
}

// IsChoiceRef reports whether value is a "@name" reference to a registered
// choice resolver.
func (r *Registry) IsChoiceRef(value string) bool {
	name, ok := refName(value)
	if !ok {
		return false
	}
	_, ok = r.choices[name]
	return ok
}

// IsDefaultRef reports whether value is a "@name" reference to a registered
// default resolver.
func (r *Registry) IsDefaultRef(value string) bool {
	name, ok := refName(value)
	if !ok {
		return false
	}
	_, ok = r.defaults[name]
	return ok
}

// ResolveChoices evaluates the named choice resolver.
func (r *Registry) ResolveChoices(name string) ([]string, error) {
	fn, ok := r.choices[name]
	if !ok {
		return nil, &UnknownResolverError{Kind: "choice", Name: name}
	}
	return fn()
}

// ResolveDefault evaluates the named default resolver.
func (r *Registry) ResolveDefault(name string) (any, error) {
	fn, ok := r.defaults[name]
	if !ok {
		return nil, &UnknownResolverError{Kind: "default", Name: name}
	}
	return fn()
}

// ChoiceResolvers returns the registered choice resolver names, sorted.
func (r *Registry) ChoiceResolvers() []string {
	return sortedKeys(r.choices)
}

// DefaultResolvers returns the registered default resolver names, sorted.
func (r *Registry) DefaultResolvers() []string {
	return sortedKeys(r.defaults)
}

// RefName extracts the resolver name from a "@name" reference.
func RefName(value string) (string, bool) {
	return refName(value)
}

func refName(value string) (string, bool) {
	if !strings.HasPrefix(value, Sigil) || len(value) == len(Sigil) {
		return "", false
	}
	return value[len(Sigil):], true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
