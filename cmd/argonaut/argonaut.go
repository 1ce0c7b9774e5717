// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command argonaut manages declarative CLI configuration documents: it
// creates seed configs, inspects the parser hierarchy, and adds arguments at
// any depth of the subcommand tree. Its own command line is declared as a
// config and compiled with the same machinery it manages.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/yeetrun/argonaut/pkg/compile"
	"github.com/yeetrun/argonaut/pkg/conffile"
	"github.com/yeetrun/argonaut/pkg/engine"
	"github.com/yeetrun/argonaut/pkg/resolve"
	"github.com/yeetrun/argonaut/pkg/schema"
)

var version = "1.0.0"

func cliConfig() *schema.Config {
	return &schema.Config{
		Parser: schema.ParserInfo{
			Prog:        "argonaut",
			Description: "Manage argonaut configuration documents interactively",
			Epilog:      "Use 'argonaut <command> --help' for command details",
		},
		ParentArguments: []schema.Argument{
			{
				Name:  "--config",
				Short: "-c",
				Help:  "Config file path (default: auto-detect *" + conffile.DefaultSuffix + ")",
			},
		},
		Arguments: []schema.Argument{
			{Name: "--version", Action: schema.ActionVersion, Const: "argonaut " + version, Help: "Show version and exit"},
		},
		Subcommands: &schema.Subcommands{
			Title: "Available commands",
			Dest:  "command",
			Commands: map[string]*schema.Subcommand{
				"setup": {
					Description: "Create a new configuration file for an application",
					Help:        "Create a new argonaut config file",
					Arguments: []schema.Argument{
						{Name: "app_name", Help: "Application name"},
					},
				},
				"list-parsers": {
					Description: "Show the hierarchy of parsers and arguments",
					Help:        "Show parser hierarchy",
				},
				"add-argument": {
					Description: "Add an argument to a parser located by dotted path",
					Help:        "Add argument to a parser",
					Arguments: []schema.Argument{
						{Name: "--parser-path", Required: true, Help: "Parser path (e.g. app, app.db, app.db.migrate)"},
						{Name: "--arg", Required: true, Help: "Argument name; use --arg=--name for option arguments"},
						{Name: "--short", Help: "Short alias (e.g. -v)"},
						{Name: "--type", Choices: []string{schema.TypeStr, schema.TypeInt, schema.TypeFloat, schema.TypeBool}, Help: "Argument type"},
						{Name: "--action", Choices: []string{
							schema.ActionStore, schema.ActionStoreTrue, schema.ActionStoreFalse,
							schema.ActionStoreConst, schema.ActionAppend, schema.ActionAppendConst,
							schema.ActionCount, schema.ActionHelp, schema.ActionVersion,
						}, Help: "Action taken when the argument is encountered"},
						{Name: "--choices", Help: "Valid choices (comma-separated or @resolver)"},
						{Name: "--default", Help: "Default value"},
						{Name: "--required", Action: schema.ActionStoreTrue, Help: "Make the argument required"},
						{Name: "--nargs", Help: "Arity (?, *, + or a count)"},
						{Name: "--help-text", Help: "Help text for the argument"},
						{Name: "--dest", Help: "Destination variable name"},
						{Name: "--const", Help: "Constant for store_const/append_const"},
						{Name: "--metavar", Help: "Display name in usage messages"},
						{Name: "--env-var", Help: "Environment variable consulted for the default"},
					},
				},
				"list-resolvers": {
					Description: "List the registered choice and default resolvers",
					Help:        "List available @resolvers",
				},
			},
		},
	}
}

func main() {
	log.SetFlags(0)
	reg := resolve.Builtin()
	parser, err := compile.Compile(cliConfig(), reg)
	if err != nil {
		log.Fatalf("argonaut: broken built-in CLI config: %v", err)
	}

	vals, err := parser.Parse(os.Args[1:])
	if errors.Is(err, engine.ErrHelp) || errors.Is(err, engine.ErrVersion) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmd, ok := vals.String("command")
	if !ok {
		parser.PrintHelp()
		os.Exit(1)
	}

	if err := run(cmd, vals, reg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd string, vals engine.Values, reg *resolve.Registry) error {
	switch cmd {
	case "setup":
		appName, ok := vals.String("app_name")
		if !ok || appName == "" {
			return fmt.Errorf("setup requires an application name")
		}
		m := &manager{path: appName + conffile.DefaultSuffix}
		return m.setup(appName)
	case "list-parsers":
		m, err := loadManager(vals)
		if err != nil {
			return err
		}
		return m.listParsers()
	case "add-argument":
		m, err := loadManager(vals)
		if err != nil {
			return err
		}
		return m.addArgument(vals)
	case "list-resolvers":
		return listResolvers(reg)
	}
	return fmt.Errorf("unhandled command %q", cmd)
}

// configPath picks the config file: the --config flag when given, otherwise
// the most recently modified *-argonaut.yaml in the working directory.
func configPath(vals engine.Values) (string, error) {
	if path, ok := vals.String("config"); ok && path != "" {
		return path, nil
	}
	if path, ok := conffile.FindDefault("."); ok {
		fmt.Printf("Using config file: %s\n", path)
		return path, nil
	}
	return "", fmt.Errorf("no configuration found; run 'argonaut setup <app_name>' first")
}

func loadManager(vals engine.Values) (*manager, error) {
	path, err := configPath(vals)
	if err != nil {
		return nil, err
	}
	tree, err := conffile.Load(path)
	if err != nil {
		return nil, err
	}
	cfg, err := schema.FromTree(tree)
	if err != nil {
		return nil, err
	}
	return &manager{path: path, cfg: cfg}, nil
}
