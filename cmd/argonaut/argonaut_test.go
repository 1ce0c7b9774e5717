// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/yeetrun/argonaut/pkg/compile"
	"github.com/yeetrun/argonaut/pkg/resolve"
	"github.com/yeetrun/argonaut/pkg/schema"
)

func TestCLIConfigCompiles(t *testing.T) {
	p, err := compile.Compile(cliConfig(), resolve.Builtin())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	vals, err := p.Parse([]string{"setup", "myapp"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd, _ := vals.String("command"); cmd != "setup" {
		t.Errorf("command = %q, want setup", cmd)
	}
	if name, _ := vals.String("app_name"); name != "myapp" {
		t.Errorf("app_name = %q, want myapp", name)
	}

	// Option-style names are passed inline so they are not read as flags.
	vals, err = p.Parse([]string{"add-argument", "--parser-path", "myapp.db", "--arg=--url", "--required"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if path, _ := vals.String("parser_path"); path != "myapp.db" {
		t.Errorf("parser_path = %q, want myapp.db", path)
	}
	if arg, _ := vals.String("arg"); arg != "--url" {
		t.Errorf("arg = %q, want --url", arg)
	}
	if required, _ := vals.Bool("required"); !required {
		t.Error("required = false, want true")
	}

	if _, err := p.Parse([]string{"add-argument"}); err == nil {
		t.Error("add-argument without required flags succeeded, want error")
	}
}

func TestSeedConfigValid(t *testing.T) {
	cfg := seedConfig("myapp")
	normalized, err := schema.FromTree(schema.ToTree(cfg))
	if err != nil {
		t.Fatalf("seed config does not survive normalization: %v", err)
	}
	if _, err := compile.Compile(normalized, resolve.Builtin()); err != nil {
		t.Fatalf("seed config does not compile: %v", err)
	}
	if normalized.Parser.Prog != "myapp" {
		t.Errorf("Prog = %q, want myapp", normalized.Parser.Prog)
	}
}

func TestInferValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"False", false},
		{"42", 42},
		{"0.5", 0.5},
		{"hello", "hello"},
	}
	for _, tt := range tests {
		if got := inferValue(tt.in); got != tt.want {
			t.Errorf("inferValue(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}
