// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package treepath navigates a configuration's subcommand tree by dotted
// path expressions like "app.db.migrate". The first segment names the root
// parser (the configured prog); each further segment names a subcommand one
// level deeper.
package treepath

import (
	"fmt"
	"strings"

	"github.com/yeetrun/argonaut/pkg/schema"
)

// PathNotFoundError reports a path segment that could not be located.
type PathNotFoundError struct {
	Path    string
	Segment string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q: segment %q not found", e.Path, e.Segment)
}

// Target is a handle on one node of the subcommand tree, either the root
// scope or a subcommand.
type Target struct {
	cfg  *schema.Config
	node *schema.Subcommand // nil for the root scope
}

// IsRoot reports whether the target is the root parser scope.
func (t *Target) IsRoot() bool { return t.node == nil }

// Node returns the subcommand the target points at, or nil for the root.
func (t *Target) Node() *schema.Subcommand { return t.node }

// Arguments returns the arguments declared at the target scope.
func (t *Target) Arguments() []schema.Argument {
	if t.node == nil {
		return t.cfg.Arguments
	}
	return t.node.Arguments
}

// AddArgument appends an argument at the target scope. A name already
// declared there is rejected; the scope-uniqueness invariant holds per level,
// not across levels.
func (t *Target) AddArgument(a schema.Argument) error {
	for _, existing := range t.Arguments() {
		if existing.Name == a.Name {
			return fmt.Errorf("argument %q already declared at this scope", a.Name)
		}
	}
	if t.node == nil {
		t.cfg.Arguments = append(t.cfg.Arguments, a)
		return nil
	}
	t.node.Arguments = append(t.node.Arguments, a)
	return nil
}

// Locate resolves path to a node, creating missing intermediate subcommands
// as placeholder entries. Auto-creation supports incremental, order
// independent construction: arguments can be added to "app.db.migrate"
// before "app.db" was ever described. The root segment is never created; it
// must match the configured prog name.
func Locate(cfg *schema.Config, path string) (*Target, error) {
	return walk(cfg, path, true)
}

// Find resolves path without creating anything, failing with
// *PathNotFoundError on the first missing segment.
func Find(cfg *schema.Config, path string) (*Target, error) {
	return walk(cfg, path, false)
}

func walk(cfg *schema.Config, path string, create bool) (*Target, error) {
	segments := strings.Split(path, ".")
	if path == "" || len(segments) == 0 {
		return nil, &PathNotFoundError{Path: path, Segment: ""}
	}
	if segments[0] != cfg.Parser.Prog {
		return nil, &PathNotFoundError{Path: path, Segment: segments[0]}
	}
	if len(segments) == 1 {
		return &Target{cfg: cfg}, nil
	}

	sub := cfg.Subcommands
	if sub == nil {
		if !create {
			return nil, &PathNotFoundError{Path: path, Segment: segments[1]}
		}
		sub = &schema.Subcommands{
			Title:    "Available commands",
			Dest:     schema.DefaultDest,
			Commands: map[string]*schema.Subcommand{},
		}
		cfg.Subcommands = sub
	}

	var node *schema.Subcommand
	for i, seg := range segments[1:] {
		if sub.Commands == nil {
			sub.Commands = map[string]*schema.Subcommand{}
		}
		next, ok := sub.Commands[seg]
		if !ok {
			if !create {
				return nil, &PathNotFoundError{Path: path, Segment: seg}
			}
			next = placeholder(seg)
			sub.Commands[seg] = next
		}
		node = next
		if i == len(segments[1:])-1 {
			break
		}
		if node.Subcommands == nil {
			if !create {
				return nil, &PathNotFoundError{Path: path, Segment: segments[i+2]}
			}
			node.Subcommands = &schema.Subcommands{
				Dest:     schema.DefaultDest,
				Commands: map[string]*schema.Subcommand{},
			}
		}
		sub = node.Subcommands
	}
	return &Target{cfg: cfg, node: node}, nil
}

func placeholder(name string) *schema.Subcommand {
	return &schema.Subcommand{
		Description: fmt.Sprintf("%s command", name),
		Help:        fmt.Sprintf("Execute %s operations", name),
	}
}
