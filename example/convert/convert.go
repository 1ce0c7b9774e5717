// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command convert demonstrates compiling a parser from a YAML document:
// a positional input file, a shared --log-level argument resolved through
// @logging_levels, and a "convert" subcommand with a required --to-format.
//
// Try:
//
//	go run ./example/convert data.txt --log-level DEBUG convert --to-format yaml
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/yeetrun/argonaut/pkg/compile"
	"github.com/yeetrun/argonaut/pkg/conffile"
	"github.com/yeetrun/argonaut/pkg/engine"
	"github.com/yeetrun/argonaut/pkg/resolve"
	"github.com/yeetrun/argonaut/pkg/schema"
)

func main() {
	tree, err := conffile.Load("example/convert/config.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := schema.FromTree(tree)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	parser, err := compile.Compile(cfg, resolve.Builtin())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	vals, err := parser.Parse(os.Args[1:])
	if errors.Is(err, engine.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	dests := make([]string, 0, len(vals))
	for dest := range vals {
		dests = append(dests, dest)
	}
	sort.Strings(dests)
	for _, dest := range dests {
		fmt.Printf("%s = %v\n", dest, vals[dest].Interface())
	}

	if cmd, ok := vals.String("command"); ok {
		fmt.Printf("subcommand %q ran\n", cmd)
	}
}
