// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"fmt"
	"strings"
)

const helpCol = 24

// Help renders the parser's help text: usage line, description, positional
// and option sections, declared argument groups, subcommands, epilog.
// Argument order follows attachment order, so inherited arguments list ahead
// of a level's own arguments.
func (p *Parser) Help() string {
	var b strings.Builder

	b.WriteString("usage: ")
	b.WriteString(p.prog)
	b.WriteString(" [-h]")
	for _, arg := range p.optionals() {
		b.WriteString(" ")
		b.WriteString(p.usageItem(arg))
	}
	for _, arg := range p.positionals() {
		b.WriteString(" ")
		b.WriteString(p.positionalUsage(arg))
	}
	if p.sub != nil {
		fmt.Fprintf(&b, " {%s} ...", strings.Join(p.sub.names, ","))
	}
	b.WriteString("\n")

	if p.description != "" {
		b.WriteString("\n")
		b.WriteString(p.description)
		b.WriteString("\n")
	}

	grouped := map[*argument]bool{}
	for _, g := range p.groups {
		for _, m := range g.members {
			grouped[m] = true
		}
	}

	var positionals []*argument
	for _, arg := range p.positionals() {
		if !grouped[arg] {
			positionals = append(positionals, arg)
		}
	}
	if len(positionals) > 0 || p.sub != nil {
		b.WriteString("\npositional arguments:\n")
		for _, arg := range positionals {
			writeHelpLine(&b, p.metavar(arg), arg.Help)
		}
		if p.sub != nil {
			writeHelpLine(&b, "{"+strings.Join(p.sub.names, ",")+"}", p.sub.description)
		}
	}

	b.WriteString("\noptions:\n")
	writeHelpLine(&b, "-h, --help", "show this help message and exit")
	for _, arg := range p.optionals() {
		if !grouped[arg] {
			writeHelpLine(&b, p.invocation(arg), arg.Help)
		}
	}

	for _, g := range p.groups {
		fmt.Fprintf(&b, "\n%s:\n", g.title)
		if g.description != "" {
			fmt.Fprintf(&b, "  %s\n", g.description)
		}
		for _, arg := range g.members {
			if arg.positional() {
				writeHelpLine(&b, p.metavar(arg), arg.Help)
			} else {
				writeHelpLine(&b, p.invocation(arg), arg.Help)
			}
		}
	}

	if p.sub != nil {
		title := p.sub.title
		if title == "" {
			title = "subcommands"
		}
		fmt.Fprintf(&b, "\n%s:\n", title)
		for _, name := range p.sub.names {
			help := p.sub.help[name]
			if help == "" {
				help = p.sub.parsers[name].description
			}
			writeHelpLine(&b, name, help)
		}
	}

	if p.epilog != "" {
		b.WriteString("\n")
		b.WriteString(p.epilog)
		b.WriteString("\n")
	}
	return b.String()
}

// invocation renders an option for its help line: "--log-level {A,B}, -l {A,B}".
func (p *Parser) invocation(arg *argument) string {
	metavar := p.metavar(arg)
	item := arg.Name
	if metavar != "" {
		item += " " + metavar
	}
	if arg.Short != "" {
		item += ", " + arg.Short
		if metavar != "" {
			item += " " + metavar
		}
	}
	return item
}

// usageItem renders an option for the usage line.
func (p *Parser) usageItem(arg *argument) string {
	item := arg.Name
	if metavar := p.metavar(arg); metavar != "" {
		item += " " + metavar
	}
	if arg.Required {
		return item
	}
	return "[" + item + "]"
}

func (p *Parser) positionalUsage(arg *argument) string {
	name := p.metavar(arg)
	switch arg.NArgs {
	case "?":
		return "[" + name + "]"
	case "*":
		return "[" + name + " ...]"
	case "+":
		return name + " [" + name + " ...]"
	default:
		return name
	}
}

// metavar is the display placeholder for an argument's value: the explicit
// metavar, the choice set, or the upper-cased destination. Options that take
// no value have none.
func (p *Parser) metavar(arg *argument) string {
	if arg.positional() {
		if arg.Metavar != "" {
			return arg.Metavar
		}
		if len(arg.Choices) > 0 {
			return "{" + strings.Join(arg.Choices, ",") + "}"
		}
		return arg.Name
	}
	if !arg.consumesValue() {
		return ""
	}
	if arg.Metavar != "" {
		return arg.Metavar
	}
	if len(arg.Choices) > 0 {
		return "{" + strings.Join(arg.Choices, ",") + "}"
	}
	return strings.ToUpper(arg.dest)
}

func writeHelpLine(b *strings.Builder, item, help string) {
	if help == "" {
		fmt.Fprintf(b, "  %s\n", item)
		return
	}
	if len(item)+2 >= helpCol {
		fmt.Fprintf(b, "  %s\n%s%s\n", item, strings.Repeat(" ", helpCol), help)
		return
	}
	fmt.Fprintf(b, "  %-*s%s\n", helpCol-2, item, help)
}
