// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"

	"github.com/yeetrun/argonaut/pkg/conffile"
	"github.com/yeetrun/argonaut/pkg/engine"
	"github.com/yeetrun/argonaut/pkg/schema"
)

func TestSetupAndAddArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "myapp"+conffile.DefaultSuffix)
	m := &manager{path: path}
	if err := m.setup("myapp"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	vals := engine.Values{
		"parser_path": engine.StringValue("myapp.db.migrate"),
		"arg":         engine.StringValue("--dry-run"),
		"action":      engine.StringValue(schema.ActionStoreTrue),
		"help_text":   engine.StringValue("Do not apply changes"),
	}
	if err := m.addArgument(vals); err != nil {
		t.Fatalf("addArgument: %v", err)
	}

	// The saved document reflects the change, including the auto-created
	// intermediate subcommands.
	tree, err := conffile.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg, err := schema.FromTree(tree)
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	db, ok := cfg.Subcommands.Commands["db"]
	if !ok {
		t.Fatal("db subcommand not created")
	}
	migrate, ok := db.Subcommands.Commands["migrate"]
	if !ok {
		t.Fatal("migrate subcommand not created")
	}
	if len(migrate.Arguments) != 1 || migrate.Arguments[0].Name != "--dry-run" {
		t.Fatalf("migrate arguments = %v, want --dry-run", migrate.Arguments)
	}
	if migrate.Arguments[0].Action != schema.ActionStoreTrue {
		t.Errorf("action = %q, want store_true", migrate.Arguments[0].Action)
	}
}

func TestAddArgumentRejectsInvalid(t *testing.T) {
	m := &manager{
		path: filepath.Join(t.TempDir(), "myapp"+conffile.DefaultSuffix),
		cfg:  seedConfig("myapp"),
	}

	// required together with a default is contradictory and must not reach
	// the file.
	vals := engine.Values{
		"parser_path": engine.StringValue("myapp"),
		"arg":         engine.StringValue("--out"),
		"required":    engine.BoolValue(true),
		"default":     engine.StringValue("x"),
	}
	if err := m.addArgument(vals); err == nil {
		t.Error("addArgument accepted required+default, want error")
	}
}

func TestAddArgumentChoices(t *testing.T) {
	m := &manager{
		path: filepath.Join(t.TempDir(), "myapp"+conffile.DefaultSuffix),
		cfg:  seedConfig("myapp"),
	}
	vals := engine.Values{
		"parser_path": engine.StringValue("myapp"),
		"arg":         engine.StringValue("--format"),
		"choices":     engine.StringValue("json, yaml"),
	}
	if err := m.addArgument(vals); err != nil {
		t.Fatalf("addArgument: %v", err)
	}
	var added *schema.Argument
	for i := range m.cfg.Arguments {
		if m.cfg.Arguments[i].Name == "--format" {
			added = &m.cfg.Arguments[i]
		}
	}
	if added == nil {
		t.Fatal("--format not added")
	}
	if len(added.Choices) != 2 || added.Choices[0] != "json" || added.Choices[1] != "yaml" {
		t.Errorf("choices = %v, want [json yaml]", added.Choices)
	}

	vals = engine.Values{
		"parser_path": engine.StringValue("myapp"),
		"arg":         engine.StringValue("--level"),
		"choices":     engine.StringValue("@logging_levels"),
	}
	if err := m.addArgument(vals); err != nil {
		t.Fatalf("addArgument: %v", err)
	}
	for _, a := range m.cfg.Arguments {
		if a.Name == "--level" && a.ChoicesFrom != "@logging_levels" {
			t.Errorf("ChoicesFrom = %q, want @logging_levels", a.ChoicesFrom)
		}
	}
}
