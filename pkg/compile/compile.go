// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile turns a normalized configuration into a runnable parser.
// It is the only place resolver references are evaluated and the only place
// the environment is consulted, always through the supplied registry.
package compile

import (
	"fmt"
	"strconv"

	"github.com/yeetrun/argonaut/pkg/engine"
	"github.com/yeetrun/argonaut/pkg/resolve"
	"github.com/yeetrun/argonaut/pkg/schema"
)

// ResolverError reports a resolver reference that could not be satisfied
// while compiling an argument: either the name is unregistered or the
// resolver itself failed.
type ResolverError struct {
	Arg      string // argument name
	Resolver string // resolver name, without the sigil
	Err      error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("argument %s: resolver %s%s: %v", e.Arg, resolve.Sigil, e.Resolver, e.Err)
}

func (e *ResolverError) Unwrap() error { return e.Err }

// Compile builds the hierarchical parser described by cfg. Parent arguments
// are attached at the root and duplicated by value at every subcommand depth,
// ahead of each level's own arguments so that an own declaration with the
// same name shadows the inherited one. Groups attach last, once every member
// exists. Compilation either succeeds completely or fails with the first
// error; there is no partial parser.
func Compile(cfg *schema.Config, reg *resolve.Registry) (*engine.Parser, error) {
	p := engine.New(cfg.Parser.Prog, cfg.Parser.Description, cfg.Parser.Epilog)
	err := attachLevel(p, level{
		parents:   cfg.ParentArguments,
		own:       cfg.Arguments,
		sub:       cfg.Subcommands,
		groups:    cfg.ArgumentGroups,
		exclusive: cfg.MutuallyExclusive,
	}, reg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type level struct {
	parents   []schema.Argument
	own       []schema.Argument
	sub       *schema.Subcommands
	groups    []schema.Group
	exclusive []schema.ExclusiveGroup
}

func attachLevel(p *engine.Parser, lvl level, reg *resolve.Registry) error {
	for _, a := range lvl.parents {
		if err := attachArgument(p, a, reg); err != nil {
			return err
		}
	}
	for _, a := range lvl.own {
		if err := attachArgument(p, a, reg); err != nil {
			return err
		}
	}

	if lvl.sub != nil {
		sp := p.AddSubparsers(lvl.sub.Title, lvl.sub.Description, lvl.sub.Dest)
		for _, name := range lvl.sub.Names() {
			cmd := lvl.sub.Commands[name]
			child := sp.AddParser(name, cmd.Description, cmd.Help)
			err := attachLevel(child, level{
				parents:   lvl.parents,
				own:       cmd.Arguments,
				sub:       cmd.Subcommands,
				groups:    cmd.ArgumentGroups,
				exclusive: cmd.MutuallyExclusive,
			}, reg)
			if err != nil {
				return err
			}
		}
	}

	for _, g := range lvl.groups {
		if err := p.AddGroup(g.Title, g.Description, g.Arguments); err != nil {
			return err
		}
	}
	for _, g := range lvl.exclusive {
		if err := p.AddExclusiveGroup(g.Title, g.Required, g.Arguments); err != nil {
			return err
		}
	}
	return nil
}

func attachArgument(p *engine.Parser, a schema.Argument, reg *resolve.Registry) error {
	choices := a.Choices
	if a.ChoicesFrom != "" {
		name, ok := resolve.RefName(a.ChoicesFrom)
		if !ok {
			return &ResolverError{Arg: a.Name, Resolver: a.ChoicesFrom, Err: fmt.Errorf("malformed resolver reference")}
		}
		resolved, err := reg.ResolveChoices(name)
		if err != nil {
			return &ResolverError{Arg: a.Name, Resolver: name, Err: err}
		}
		choices = resolved
	}

	def := a.Default
	if s, ok := def.(string); ok {
		if name, isRef := resolve.RefName(s); isRef {
			resolved, err := reg.ResolveDefault(name)
			if err != nil {
				return &ResolverError{Arg: a.Name, Resolver: name, Err: err}
			}
			def = resolved
		}
	}

	required := a.Required
	if a.Env != "" {
		if raw, ok := reg.LookupEnv(a.Env); ok {
			v, err := envDefault(a, raw)
			if err != nil {
				return err
			}
			def = v
			// A value supplied by the environment satisfies the argument.
			required = false
		}
	}

	return p.AddArgument(engine.Argument{
		Name:     a.Name,
		Short:    a.Short,
		Type:     a.Type,
		Action:   a.Action,
		Choices:  choices,
		Default:  def,
		Required: required,
		NArgs:    a.NArgs,
		Help:     a.Help,
		Dest:     a.Dest,
		Const:    a.Const,
		Metavar:  a.Metavar,
	})
}

// envDefault converts an environment-sourced default to the argument's
// declared type.
func envDefault(a schema.Argument, raw string) (any, error) {
	switch a.Type {
	case schema.TypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("argument %s: env %s: invalid int value %q: %w", a.Name, a.Env, raw, err)
		}
		return n, nil
	case schema.TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %s: env %s: invalid float value %q: %w", a.Name, a.Env, raw, err)
		}
		return f, nil
	case schema.TypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("argument %s: env %s: invalid bool value %q: %w", a.Name, a.Env, raw, err)
		}
		return b, nil
	default:
		return raw, nil
	}
}
