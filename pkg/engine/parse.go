// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse binds tokens against the parser specification and returns the bound
// values. Help requests print to the parser's output and return ErrHelp; a
// version action prints and returns ErrVersion; every other failure is a
// *UsageError.
func (p *Parser) Parse(tokens []string) (Values, error) {
	vals, _, err := p.parse(tokens)
	return vals, err
}

// PrintHelp writes the parser's help text to its output.
func (p *Parser) PrintHelp() {
	fmt.Fprint(p.out, p.Help())
}

// parse also reports which destinations were bound from tokens (as opposed
// to defaults), which drives exclusive-group checks and value merging across
// subcommand levels: a child's default never overrides a value the parent
// bound explicitly.
func (p *Parser) parse(tokens []string) (Values, map[string]bool, error) {
	vals := Values{}
	explicit := map[string]bool{}
	positionals := p.positionals()
	posIdx := 0
	afterSep := false

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if !afterSep && tok == "--" {
			afterSep = true
			i++
			continue
		}
		if !afterSep && p.looksLikeFlag(tok) {
			next, err := p.handleFlag(tok, tokens, i, vals, explicit)
			if err != nil {
				return nil, nil, err
			}
			i = next
			continue
		}

		if posIdx < len(positionals) {
			next, err := p.bindPositional(positionals[posIdx], tokens, i, afterSep, vals, explicit)
			if err != nil {
				return nil, nil, err
			}
			posIdx++
			i = next
			continue
		}

		if p.sub != nil {
			child, ok := p.sub.parsers[tok]
			if !ok {
				return nil, nil, p.usagef("argument %s: invalid choice: %q (choose from %s)",
					p.sub.dest, tok, quoteJoin(p.sub.names))
			}
			childVals, childExplicit, err := child.parse(tokens[i+1:])
			if err != nil {
				return nil, nil, err
			}
			if p.sub.dest != "" {
				vals[p.sub.dest] = StringValue(tok)
				explicit[p.sub.dest] = true
			}
			for dest, v := range childVals {
				if childExplicit[dest] || !vals.Has(dest) {
					vals[dest] = v
				}
				if childExplicit[dest] {
					explicit[dest] = true
				}
			}
			i = len(tokens)
			continue
		}

		return nil, nil, p.usagef("unrecognized arguments: %s", tok)
	}

	if err := p.finalize(vals, explicit, positionals, posIdx); err != nil {
		return nil, nil, err
	}
	return vals, explicit, nil
}

// looksLikeFlag distinguishes option tokens from positional values; a lone
// dash and negative numbers are values.
func (p *Parser) looksLikeFlag(tok string) bool {
	if !strings.HasPrefix(tok, "-") || tok == "-" {
		return false
	}
	if _, ok := p.byFlag[flagName(tok)]; ok {
		return true
	}
	if isNegativeNumber(tok) {
		return false
	}
	return true
}

func isNegativeNumber(tok string) bool {
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

// flagName strips an inline "=value" from a flag token.
func flagName(tok string) string {
	if idx := strings.Index(tok, "="); idx != -1 {
		return tok[:idx]
	}
	return tok
}

// handleFlag dispatches one option token. It returns the index of the next
// unconsumed token.
func (p *Parser) handleFlag(tok string, tokens []string, i int, vals Values, explicit map[string]bool) (int, error) {
	name := flagName(tok)
	inline := ""
	hasInline := false
	if idx := strings.Index(tok, "="); idx != -1 {
		inline = tok[idx+1:]
		hasInline = true
	}

	arg := p.byFlag[name]
	if arg == nil && !strings.HasPrefix(name, "--") && len(name) > 2 {
		// Short flag with an attached value: -n5.
		if a := p.byFlag[name[:2]]; a != nil && a.consumesValue() {
			arg = a
			inline = name[2:]
			hasInline = true
			name = name[:2]
		}
	}
	if arg == nil {
		if name == "--help" || name == "-h" {
			p.PrintHelp()
			return 0, ErrHelp
		}
		return 0, p.usagef("unrecognized arguments: %s", name)
	}

	dest := arg.dest
	next := i + 1

	switch arg.Action {
	case ActionStore, ActionAppend:
		values, n, err := p.collectValues(arg, tokens, i, inline, hasInline)
		if err != nil {
			return 0, err
		}
		next = n
		if err := p.bindCollected(arg, values, vals); err != nil {
			return 0, err
		}
	case ActionStoreTrue:
		if hasInline {
			return 0, p.usagef("argument %s: ignored explicit argument %q", arg.Name, inline)
		}
		vals[dest] = BoolValue(true)
	case ActionStoreFalse:
		if hasInline {
			return 0, p.usagef("argument %s: ignored explicit argument %q", arg.Name, inline)
		}
		vals[dest] = BoolValue(false)
	case ActionStoreConst:
		vals[dest] = constValue(arg)
	case ActionAppendConst:
		list, _ := vals.List(dest)
		vals[dest] = ListValue(append(list, constValue(arg).String()))
	case ActionCount:
		n, _ := vals.Int(dest)
		vals[dest] = IntValue(n + 1)
	case ActionHelp:
		p.PrintHelp()
		return 0, ErrHelp
	case ActionVersion:
		fmt.Fprintln(p.out, p.version)
		return 0, ErrVersion
	}
	explicit[dest] = true
	return next, nil
}

// collectValues gathers the value tokens an option consumes per its arity.
// It returns the values and the index of the next unconsumed token.
func (p *Parser) collectValues(arg *argument, tokens []string, i int, inline string, hasInline bool) ([]string, int, error) {
	next := i + 1
	if hasInline {
		// An inline value supplies exactly one token.
		if n, err := strconv.Atoi(arg.NArgs); err == nil && n > 1 {
			return nil, 0, p.usagef("argument %s: expected %d arguments", arg.Name, n)
		}
		return []string{inline}, next, nil
	}
	switch arg.NArgs {
	case "", "?":
		if next < len(tokens) && !p.looksLikeFlag(tokens[next]) && !p.isSubcommand(tokens[next]) {
			return []string{tokens[next]}, next + 1, nil
		}
		if arg.NArgs == "?" {
			return nil, next, nil
		}
		return nil, 0, p.usagef("argument %s: expected one argument", arg.Name)
	case "*", "+":
		var values []string
		for next < len(tokens) && !p.looksLikeFlag(tokens[next]) && !p.isSubcommand(tokens[next]) {
			values = append(values, tokens[next])
			next++
		}
		if arg.NArgs == "+" && len(values) == 0 {
			return nil, 0, p.usagef("argument %s: expected at least one argument", arg.Name)
		}
		return values, next, nil
	default:
		n, _ := strconv.Atoi(arg.NArgs)
		if len(tokens)-next < n {
			return nil, 0, p.usagef("argument %s: expected %d arguments", arg.Name, n)
		}
		values := tokens[next : next+n]
		return values, next + n, nil
	}
}

// bindCollected validates collected values and stores them under the
// argument's destination.
func (p *Parser) bindCollected(arg *argument, values []string, vals Values) error {
	for _, raw := range values {
		if err := p.checkChoice(arg, raw); err != nil {
			return err
		}
	}
	dest := arg.dest

	if arg.Action == ActionAppend {
		if len(values) == 0 {
			return p.usagef("argument %s: expected one argument", arg.Name)
		}
		list, _ := vals.List(dest)
		vals[dest] = ListValue(append(list, values...))
		return nil
	}

	multi := arg.NArgs == "*" || arg.NArgs == "+"
	if n, err := strconv.Atoi(arg.NArgs); err == nil && n > 0 {
		multi = true
	}
	switch {
	case multi:
		vals[dest] = ListValue(values)
	case len(values) == 1:
		v, err := p.convert(arg, values[0])
		if err != nil {
			return err
		}
		vals[dest] = v
	default:
		// nargs "?" with no value: the const stands in when declared.
		if arg.Const != nil {
			vals[dest] = constValue(arg)
		}
	}
	return nil
}

// bindPositional consumes tokens for one positional argument starting at i
// and returns the index of the next unconsumed token.
func (p *Parser) bindPositional(arg *argument, tokens []string, i int, afterSep bool, vals Values, explicit map[string]bool) (int, error) {
	dest := arg.dest
	switch arg.NArgs {
	case "", "?":
		raw := tokens[i]
		if err := p.checkChoice(arg, raw); err != nil {
			return 0, err
		}
		v, err := p.convert(arg, raw)
		if err != nil {
			return 0, err
		}
		vals[dest] = v
		explicit[dest] = true
		return i + 1, nil
	case "*", "+":
		var values []string
		next := i
		for next < len(tokens) && (afterSep || !p.looksLikeFlag(tokens[next])) && !p.isSubcommand(tokens[next]) {
			values = append(values, tokens[next])
			next++
		}
		for _, raw := range values {
			if err := p.checkChoice(arg, raw); err != nil {
				return 0, err
			}
		}
		vals[dest] = ListValue(values)
		explicit[dest] = true
		return next, nil
	default:
		n, _ := strconv.Atoi(arg.NArgs)
		if len(tokens)-i < n {
			return 0, p.usagef("argument %s: expected %d arguments", arg.Name, n)
		}
		values := tokens[i : i+n]
		for _, raw := range values {
			if err := p.checkChoice(arg, raw); err != nil {
				return 0, err
			}
		}
		vals[dest] = ListValue(values)
		explicit[dest] = true
		return i + n, nil
	}
}

func (p *Parser) isSubcommand(tok string) bool {
	if p.sub == nil {
		return false
	}
	_, ok := p.sub.parsers[tok]
	return ok
}

func (p *Parser) checkChoice(arg *argument, raw string) error {
	if len(arg.Choices) == 0 {
		return nil
	}
	for _, c := range arg.Choices {
		if raw == c {
			return nil
		}
	}
	return p.usagef("argument %s: invalid choice: %q (choose from %s)", arg.Name, raw, quoteJoin(arg.Choices))
}

func (p *Parser) convert(arg *argument, raw string) (Value, error) {
	switch arg.Type {
	case TypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, &UsageError{Prog: p.prog, Msg: fmt.Sprintf("argument %s: invalid int value: %q", arg.Name, raw), Err: err}
		}
		return IntValue(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, &UsageError{Prog: p.prog, Msg: fmt.Sprintf("argument %s: invalid float value: %q", arg.Name, raw), Err: err}
		}
		return FloatValue(f), nil
	case TypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, &UsageError{Prog: p.prog, Msg: fmt.Sprintf("argument %s: invalid bool value: %q", arg.Name, raw), Err: err}
		}
		return BoolValue(b), nil
	default:
		return StringValue(raw), nil
	}
}

// finalize checks unfilled positionals, required options and exclusive
// groups, then applies defaults.
func (p *Parser) finalize(vals Values, explicit map[string]bool, positionals []*argument, posIdx int) error {
	var missing []string
	for _, arg := range positionals[posIdx:] {
		switch arg.NArgs {
		case "?":
			// Defaults apply below.
		case "*":
			vals[arg.dest] = ListValue(nil)
		default:
			missing = append(missing, arg.Name)
		}
	}
	for _, arg := range p.optionals() {
		if arg.Required && !explicit[arg.dest] {
			missing = append(missing, arg.Name)
		}
	}
	if len(missing) > 0 {
		return p.usagef("the following arguments are required: %s", strings.Join(missing, ", "))
	}

	for _, g := range p.exclusive {
		var supplied []*argument
		for _, m := range g.members {
			if explicit[m.dest] {
				supplied = append(supplied, m)
			}
		}
		if len(supplied) > 1 {
			return p.usagef("argument %s: not allowed with argument %s", supplied[1].Name, supplied[0].Name)
		}
		if g.required && len(supplied) == 0 {
			var names []string
			for _, m := range g.members {
				names = append(names, m.Name)
			}
			return p.usagef("one of the arguments %s is required", strings.Join(names, " "))
		}
	}

	for _, arg := range p.args {
		if vals.Has(arg.dest) {
			continue
		}
		if v, ok := p.defaultValue(arg); ok {
			vals[arg.dest] = v
		}
	}
	return nil
}

func (p *Parser) defaultValue(arg *argument) (Value, bool) {
	if arg.Default != nil {
		return anyValue(arg.Default), true
	}
	switch arg.Action {
	case ActionStoreTrue:
		return BoolValue(false), true
	case ActionStoreFalse:
		return BoolValue(true), true
	case ActionCount:
		return IntValue(0), true
	}
	return Value{}, false
}

func constValue(arg *argument) Value {
	return anyValue(arg.Const)
}

func anyValue(v any) Value {
	switch tv := v.(type) {
	case string:
		return StringValue(tv)
	case int:
		return IntValue(tv)
	case int64:
		return IntValue(int(tv))
	case float64:
		return FloatValue(tv)
	case bool:
		return BoolValue(tv)
	case []string:
		return ListValue(tv)
	default:
		return StringValue(fmt.Sprint(tv))
	}
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = strconv.Quote(it)
	}
	return strings.Join(quoted, ", ")
}
