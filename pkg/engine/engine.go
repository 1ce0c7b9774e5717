// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine binds command-line tokens against a runtime-assembled parser
// specification: positional and optional arguments, typed conversion,
// argparse-style actions, argument groups, mutually exclusive groups, and a
// recursive subcommand tree.
package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Argument actions.
const (
	ActionStore       = "store"
	ActionStoreTrue   = "store_true"
	ActionStoreFalse  = "store_false"
	ActionStoreConst  = "store_const"
	ActionAppend      = "append"
	ActionAppendConst = "append_const"
	ActionCount       = "count"
	ActionHelp        = "help"
	ActionVersion     = "version"
)

// Value type tags.
const (
	TypeStr   = "str"
	TypeInt   = "int"
	TypeFloat = "float"
	TypeBool  = "bool"
)

// ErrHelp is returned by Parse when help was requested. The parser has
// already printed its help text to its output writer.
var ErrHelp = errors.New("help requested")

// ErrVersion is returned by Parse when a version action fired.
var ErrVersion = errors.New("version requested")

// UsageError reports invocation-time misuse: unknown options, bad values,
// missing required arguments, exclusive-group violations.
type UsageError struct {
	Prog string
	Msg  string
	Err  error
}

func (e *UsageError) Error() string {
	if e.Prog != "" {
		return fmt.Sprintf("%s: error: %s", e.Prog, e.Msg)
	}
	return "error: " + e.Msg
}

func (e *UsageError) Unwrap() error { return e.Err }

// Argument is one concrete argument specification. Choices and Default are
// already resolved values; the engine never consults resolvers.
type Argument struct {
	Name     string // "--log-level", "-v", or a positional name
	Short    string // optional short alias ("-l")
	Type     string // str, int, float, bool (default str)
	Action   string // default store
	Choices  []string
	Default  any
	Required bool
	NArgs    string // "", "?", "*", "+", or a decimal count
	Help     string
	Dest     string
	Const    any
	Metavar  string
}

func (a Argument) positional() bool {
	return !strings.HasPrefix(a.Name, "-")
}

func (a Argument) destName() string {
	if a.Dest != "" {
		return a.Dest
	}
	return strings.ReplaceAll(strings.TrimLeft(a.Name, "-"), "-", "_")
}

type argument struct {
	Argument
	dest string
}

// consumesValue reports whether the argument takes a value from the token
// stream.
func (a *argument) consumesValue() bool {
	switch a.Action {
	case ActionStore, ActionAppend, "":
		return true
	}
	return false
}

type displayGroup struct {
	title       string
	description string
	members     []*argument
}

type exclusiveGroup struct {
	title    string
	required bool
	members  []*argument
}

// Parser is a runnable parser specification for one command level.
type Parser struct {
	prog        string
	description string
	epilog      string

	args      []*argument          // attachment order, positionals and optionals interleaved
	byFlag    map[string]*argument // "--name" / "-s" lookup
	byRef     map[string]*argument // declared name / short, for group references and shadowing
	groups    []*displayGroup
	exclusive []*exclusiveGroup
	sub       *Subparsers

	version string // printed by a version action
	out     io.Writer
}

// Subparsers is a subcommand dispatch point.
type Subparsers struct {
	title       string
	description string
	dest        string
	names       []string // attachment order
	parsers     map[string]*Parser
	help        map[string]string // one-line help per subcommand
	owner       *Parser
}

// New returns an empty parser. The prog name is used in usage and error
// text.
func New(prog, description, epilog string) *Parser {
	return &Parser{
		prog:        prog,
		description: description,
		epilog:      epilog,
		byFlag:      map[string]*argument{},
		byRef:       map[string]*argument{},
		out:         os.Stdout,
	}
}

// SetOutput redirects help and version output, for tests.
func (p *Parser) SetOutput(w io.Writer) {
	p.out = w
	if p.sub != nil {
		for _, child := range p.sub.parsers {
			child.SetOutput(w)
		}
	}
}

// Prog returns the parser's program name.
func (p *Parser) Prog() string { return p.prog }

// AddArgument attaches an argument. Re-adding a name that is already attached
// replaces the earlier specification in place, keeping its display position;
// this is how an own argument shadows an inherited one.
func (p *Parser) AddArgument(spec Argument) error {
	if spec.Name == "" {
		return fmt.Errorf("argument must have a name")
	}
	if spec.Type == "" {
		spec.Type = TypeStr
	}
	switch spec.Type {
	case TypeStr, TypeInt, TypeFloat, TypeBool:
	default:
		return fmt.Errorf("argument %s: unknown type %q", spec.Name, spec.Type)
	}
	if spec.Action == "" {
		spec.Action = ActionStore
	}
	switch spec.Action {
	case ActionStore, ActionStoreTrue, ActionStoreFalse, ActionStoreConst,
		ActionAppend, ActionAppendConst, ActionCount, ActionHelp, ActionVersion:
	default:
		return fmt.Errorf("argument %s: unknown action %q", spec.Name, spec.Action)
	}
	switch spec.NArgs {
	case "", "?", "*", "+":
	default:
		if n, err := strconv.Atoi(spec.NArgs); err != nil || n <= 0 {
			return fmt.Errorf("argument %s: bad nargs %q", spec.Name, spec.NArgs)
		}
	}
	if spec.Action == ActionStoreConst || spec.Action == ActionAppendConst {
		if spec.Const == nil {
			return fmt.Errorf("argument %s: action %s requires a const value", spec.Name, spec.Action)
		}
	}
	if spec.positional() && spec.Short != "" {
		return fmt.Errorf("argument %s: positional arguments cannot have a short alias", spec.Name)
	}
	if spec.Action == ActionVersion {
		p.version, _ = spec.Const.(string)
	}

	arg := &argument{Argument: spec, dest: spec.destName()}
	if prev, ok := p.byRef[spec.Name]; ok {
		// Shadowing: swap the specification, keep the slot.
		delete(p.byFlag, prev.Name)
		if prev.Short != "" {
			delete(p.byFlag, prev.Short)
		}
		delete(p.byRef, prev.Name)
		if prev.Short != "" {
			delete(p.byRef, prev.Short)
		}
		*prev = *arg
		arg = prev
	} else {
		p.args = append(p.args, arg)
	}
	p.byRef[arg.Name] = arg
	if arg.Short != "" {
		p.byRef[arg.Short] = arg
	}
	if !arg.positional() {
		p.byFlag[arg.Name] = arg
		if arg.Short != "" {
			p.byFlag[arg.Short] = arg
		}
	}
	return nil
}

// AddGroup declares a titled help section containing the named arguments.
// Every member must already be attached.
func (p *Parser) AddGroup(title, description string, members []string) error {
	g := &displayGroup{title: title, description: description}
	for _, ref := range members {
		arg, ok := p.byRef[ref]
		if !ok {
			return fmt.Errorf("group %q: unknown argument %q", title, ref)
		}
		g.members = append(g.members, arg)
	}
	p.groups = append(p.groups, g)
	return nil
}

// AddExclusiveGroup declares a mutually exclusive constraint over the named
// arguments. Every member must already be attached.
func (p *Parser) AddExclusiveGroup(title string, required bool, members []string) error {
	g := &exclusiveGroup{title: title, required: required}
	for _, ref := range members {
		arg, ok := p.byRef[ref]
		if !ok {
			return fmt.Errorf("mutually exclusive group: unknown argument %q", ref)
		}
		g.members = append(g.members, arg)
	}
	p.exclusive = append(p.exclusive, g)
	return nil
}

// AddSubparsers creates (or returns the existing) subcommand dispatch point.
// The chosen subcommand name is recorded under dest.
func (p *Parser) AddSubparsers(title, description, dest string) *Subparsers {
	if p.sub == nil {
		p.sub = &Subparsers{
			title:       title,
			description: description,
			dest:        dest,
			parsers:     map[string]*Parser{},
			help:        map[string]string{},
			owner:       p,
		}
	}
	return p.sub
}

// AddParser registers a child parser for one subcommand name.
func (s *Subparsers) AddParser(name, description, help string) *Parser {
	child := New(s.owner.prog+" "+name, description, "")
	child.out = s.owner.out
	if _, ok := s.parsers[name]; !ok {
		s.names = append(s.names, name)
	}
	s.parsers[name] = child
	s.help[name] = help
	return child
}

func (p *Parser) positionals() []*argument {
	var out []*argument
	for _, a := range p.args {
		if a.positional() {
			out = append(out, a)
		}
	}
	return out
}

func (p *Parser) optionals() []*argument {
	var out []*argument
	for _, a := range p.args {
		if !a.positional() {
			out = append(out, a)
		}
	}
	return out
}

func (p *Parser) usagef(format string, args ...any) *UsageError {
	return &UsageError{Prog: p.prog, Msg: fmt.Sprintf(format, args...)}
}
