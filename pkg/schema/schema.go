// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema defines the typed configuration model for a declarative
// command-line parser and the normalizer that builds it from a generic
// document tree.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Argument type tags.
const (
	TypeStr   = "str"
	TypeInt   = "int"
	TypeFloat = "float"
	TypeBool  = "bool"
)

// Argument action tags.
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

// DefaultDest is the destination variable used for subcommand dispatch when
// the document does not name one.
const DefaultDest = "command"

// ResolverSigil prefixes a choices or default value that should be resolved
// through a resolver registry instead of being taken literally.
const ResolverSigil = "@"

// ParserInfo is the root parser metadata.
type ParserInfo struct {
	Prog        string
	Description string
	Epilog      string
}

// Argument describes one positional or optional argument. An optional
// argument's Name carries its leading dashes ("--log-level"); a positional's
// does not ("input_file").
type Argument struct {
	Name        string
	Short       string
	Type        string // str, int, float, bool
	Action      string
	Choices     []string
	ChoicesFrom string // "@resolver", kept literal until compile time
	Default     any    // scalar; a "@resolver" string is kept literal
	Required    bool
	NArgs       string // "", "?", "*", "+", or a decimal count
	Help        string
	Dest        string
	Const       any
	Metavar     string
	Env         string // environment variable consulted for the default
}

// IsPositional reports whether the argument is positional (no leading dash).
func (a Argument) IsPositional() bool {
	return !strings.HasPrefix(a.Name, "-")
}

// DestName returns the destination variable the argument binds to: the Dest
// override if set, otherwise the name with leading dashes stripped and
// remaining dashes mapped to underscores.
func (a Argument) DestName() string {
	if a.Dest != "" {
		return a.Dest
	}
	name := strings.TrimLeft(a.Name, "-")
	return strings.ReplaceAll(name, "-", "_")
}

// Group organizes arguments under a titled help section.
type Group struct {
	Title       string
	Description string
	Arguments   []string // references by declared name or short
}

// ExclusiveGroup constrains a set of arguments so that at most one (exactly
// one when Required) may be supplied.
type ExclusiveGroup struct {
	Title     string
	Required  bool
	Arguments []string
}

// Subcommand is one named branch of the dispatch tree. It is a full parser
// scope of its own and may nest further subcommands.
type Subcommand struct {
	Description       string
	Help              string
	Arguments         []Argument
	Subcommands       *Subcommands
	ArgumentGroups    []Group
	MutuallyExclusive []ExclusiveGroup
}

// Subcommands is a dispatch point: a named collection of subcommand parsers
// plus the destination variable that records which one ran.
type Subcommands struct {
	Title       string
	Description string
	Dest        string
	Commands    map[string]*Subcommand
}

// Names returns the subcommand names in sorted order. Commands is a map, so
// document order is not preserved; sorted order keeps compilation and help
// output deterministic.
func (s *Subcommands) Names() []string {
	names := make([]string, 0, len(s.Commands))
	for name := range s.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config is the root of a parser configuration document.
type Config struct {
	Parser            ParserInfo
	ParentArguments   []Argument // inherited by every subcommand at every depth
	Arguments         []Argument
	Subcommands       *Subcommands
	ArgumentGroups    []Group
	MutuallyExclusive []ExclusiveGroup
}

// SchemaError reports a malformed or structurally invalid configuration
// document. Path locates the offending node in the document tree.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func schemaErrf(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

var validTypes = map[string]bool{
	TypeStr:   true,
	TypeInt:   true,
	TypeFloat: true,
	TypeBool:  true,
}

var validActions = map[string]bool{
	ActionStore:       true,
	ActionStoreTrue:   true,
	ActionStoreFalse:  true,
	ActionStoreConst:  true,
	ActionAppend:      true,
	ActionAppendConst: true,
	ActionCount:       true,
	ActionHelp:        true,
	ActionVersion:     true,
}
