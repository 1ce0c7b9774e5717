// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/yeetrun/argonaut/pkg/cmdutil"
	"github.com/yeetrun/argonaut/pkg/conffile"
	"github.com/yeetrun/argonaut/pkg/engine"
	"github.com/yeetrun/argonaut/pkg/resolve"
	"github.com/yeetrun/argonaut/pkg/schema"
	"github.com/yeetrun/argonaut/pkg/treepath"
)

// manager edits one configuration document.
type manager struct {
	path string
	cfg  *schema.Config
}

func (m *manager) save() error {
	return conffile.Save(m.path, schema.ToTree(m.cfg))
}

// seedConfig is the starter document written by setup: parser metadata plus
// a shared --log-level argument wired to the logging_levels resolver.
func seedConfig(appName string) *schema.Config {
	return &schema.Config{
		Parser: schema.ParserInfo{
			Prog:        appName,
			Description: fmt.Sprintf("%s - CLI application", appName),
			Epilog:      fmt.Sprintf("Use '%s --help' for more information", appName),
		},
		ParentArguments: []schema.Argument{
			{
				Name:        "--log-level",
				Short:       "-l",
				Type:        schema.TypeStr,
				Action:      schema.ActionStore,
				ChoicesFrom: "@logging_levels",
				Default:     "INFO",
				Help:        "Set logging level",
			},
		},
	}
}

func (m *manager) setup(appName string) error {
	if _, err := os.Stat(m.path); err == nil {
		ok, err := cmdutil.Confirm(os.Stdin, os.Stdout, fmt.Sprintf("File %s already exists. Overwrite?", m.path))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("aborted")
		}
	}
	m.cfg = seedConfig(appName)
	if err := m.save(); err != nil {
		return err
	}
	color.Green("Created %s for application %q", m.path, appName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add arguments: argonaut add-argument --parser-path=" + appName + " --arg=--verbose --action=store_true")
	fmt.Println("  2. Inspect the result: argonaut list-parsers")
	return nil
}

func (m *manager) listParsers() error {
	prog := m.cfg.Parser.Prog
	if prog == "" {
		prog = "app"
	}
	fmt.Printf("Parser hierarchy for %q:\n", prog)
	fmt.Println(strings.Repeat("=", 50))
	color.New(color.Bold).Printf("%s (main parser)\n", prog)

	if len(m.cfg.ParentArguments) > 0 {
		fmt.Println("  shared arguments:")
		for _, a := range m.cfg.ParentArguments {
			printArgument(a, "    ")
		}
	}
	if len(m.cfg.Arguments) > 0 {
		fmt.Println("  arguments:")
		for _, a := range m.cfg.Arguments {
			printArgument(a, "    ")
		}
	}
	if m.cfg.Subcommands != nil && len(m.cfg.Subcommands.Commands) > 0 {
		fmt.Println("  subcommands:")
		printSubcommands(m.cfg.Subcommands, prog, "    ")
	}
	return nil
}

func printSubcommands(sub *schema.Subcommands, parentPath, indent string) {
	for _, name := range sub.Names() {
		cmd := sub.Commands[name]
		path := parentPath + "." + name
		color.New(color.Bold).Printf("%s%s", indent, name)
		fmt.Printf(" -> %s\n", path)
		for _, a := range cmd.Arguments {
			printArgument(a, indent+"  ")
		}
		if cmd.Subcommands != nil {
			printSubcommands(cmd.Subcommands, path, indent+"  ")
		}
	}
}

func printArgument(a schema.Argument, indent string) {
	display := a.Name
	if a.Short != "" {
		display += "/" + a.Short
	}
	if a.Type != "" && a.Type != schema.TypeStr {
		display += " (" + a.Type + ")"
	}
	fmt.Printf("%s%s %s", indent, color.CyanString("•"), display)
	if a.Required {
		fmt.Printf(" %s", color.YellowString("[required]"))
	}
	fmt.Println()
	if a.Help != "" {
		fmt.Printf("%s  %s\n", indent, a.Help)
	}
}

func (m *manager) addArgument(vals engine.Values) error {
	parserPath, _ := vals.String("parser_path")
	name, _ := vals.String("arg")
	if name == "" {
		return fmt.Errorf("--arg must not be empty")
	}

	arg := schema.Argument{Name: name}
	arg.Short, _ = vals.String("short")
	arg.Type, _ = vals.String("type")
	arg.Action, _ = vals.String("action")
	arg.Help, _ = vals.String("help_text")
	arg.Dest, _ = vals.String("dest")
	arg.Metavar, _ = vals.String("metavar")
	arg.Env, _ = vals.String("env_var")
	arg.NArgs, _ = vals.String("nargs")
	if required, _ := vals.Bool("required"); required {
		arg.Required = true
	}
	if choices, ok := vals.String("choices"); ok && choices != "" {
		if strings.HasPrefix(choices, resolve.Sigil) {
			arg.ChoicesFrom = choices
		} else {
			for _, c := range strings.Split(choices, ",") {
				arg.Choices = append(arg.Choices, strings.TrimSpace(c))
			}
		}
	}
	if def, ok := vals.String("default"); ok && def != "" {
		arg.Default = inferValue(def)
	}
	if c, ok := vals.String("const"); ok && c != "" {
		arg.Const = inferValue(c)
	}

	target, err := treepath.Locate(m.cfg, parserPath)
	if err != nil {
		return err
	}
	if err := target.AddArgument(arg); err != nil {
		return err
	}
	// Re-normalize the mutated tree so invalid combinations are caught
	// before they reach the file.
	if _, err := schema.FromTree(schema.ToTree(m.cfg)); err != nil {
		return err
	}
	if err := m.save(); err != nil {
		return err
	}
	color.Green("Added argument %q to parser %q", name, parserPath)
	return nil
}

func listResolvers(reg *resolve.Registry) error {
	color.New(color.Bold).Println("choice resolvers:")
	for _, name := range reg.ChoiceResolvers() {
		fmt.Printf("  %s%s\n", resolve.Sigil, name)
	}
	color.New(color.Bold).Println("default resolvers:")
	for _, name := range reg.DefaultResolvers() {
		fmt.Printf("  %s%s\n", resolve.Sigil, name)
	}
	return nil
}

// inferValue maps a flag string to the scalar it spells: booleans and
// numbers stay typed, everything else is a string.
func inferValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
