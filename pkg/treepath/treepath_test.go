// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package treepath

import (
	"errors"
	"testing"

	"github.com/yeetrun/argonaut/pkg/schema"
)

func appConfig() *schema.Config {
	return &schema.Config{
		Parser: schema.ParserInfo{Prog: "app"},
		Arguments: []schema.Argument{
			{Name: "--verbose", Action: schema.ActionStoreTrue},
		},
		Subcommands: &schema.Subcommands{
			Dest: schema.DefaultDest,
			Commands: map[string]*schema.Subcommand{
				"db": {
					Description: "Database ops",
					Arguments:   []schema.Argument{{Name: "--url"}},
				},
			},
		},
	}
}

func TestLocateRoot(t *testing.T) {
	cfg := appConfig()
	target, err := Locate(cfg, "app")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !target.IsRoot() {
		t.Error("IsRoot = false, want true")
	}
	if len(target.Arguments()) != 1 || target.Arguments()[0].Name != "--verbose" {
		t.Errorf("Arguments = %v, want root arguments", target.Arguments())
	}
}

func TestLocateExistingSubcommand(t *testing.T) {
	cfg := appConfig()
	target, err := Locate(cfg, "app.db")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if target.IsRoot() {
		t.Error("IsRoot = true, want false")
	}
	if target.Node().Description != "Database ops" {
		t.Errorf("Description = %q, want Database ops", target.Node().Description)
	}
}

func TestLocateAutoCreatesIntermediates(t *testing.T) {
	cfg := appConfig()
	target, err := Locate(cfg, "app.db.migrate.up")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if target.IsRoot() {
		t.Fatal("IsRoot = true, want a subcommand node")
	}

	db := cfg.Subcommands.Commands["db"]
	if db.Subcommands == nil {
		t.Fatal("db.Subcommands not created")
	}
	migrate, ok := db.Subcommands.Commands["migrate"]
	if !ok {
		t.Fatal("migrate not created")
	}
	if migrate.Description != "migrate command" {
		t.Errorf("placeholder description = %q, want %q", migrate.Description, "migrate command")
	}
	up, ok := migrate.Subcommands.Commands["up"]
	if !ok {
		t.Fatal("up not created")
	}
	if target.Node() != up {
		t.Error("target does not point at the created node")
	}
	// The existing db entry is untouched.
	if db.Description != "Database ops" {
		t.Errorf("db description = %q, want Database ops", db.Description)
	}
}

func TestLocateWrongRoot(t *testing.T) {
	cfg := appConfig()
	_, err := Locate(cfg, "other.db")
	var pe *PathNotFoundError
	if !errors.As(err, &pe) {
		t.Fatalf("Locate = %v, want *PathNotFoundError", err)
	}
	if pe.Segment != "other" {
		t.Errorf("Segment = %q, want other", pe.Segment)
	}
}

func TestFindDoesNotCreate(t *testing.T) {
	cfg := appConfig()
	_, err := Find(cfg, "app.db.migrate")
	var pe *PathNotFoundError
	if !errors.As(err, &pe) {
		t.Fatalf("Find = %v, want *PathNotFoundError", err)
	}
	if pe.Segment != "migrate" {
		t.Errorf("Segment = %q, want migrate", pe.Segment)
	}
	if cfg.Subcommands.Commands["db"].Subcommands != nil {
		t.Error("Find created a subcommand tree")
	}

	if _, err := Find(cfg, "app.db"); err != nil {
		t.Errorf("Find(app.db) = %v, want nil", err)
	}
}

func TestAddArgument(t *testing.T) {
	cfg := appConfig()
	target, err := Locate(cfg, "app.db")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if err := target.AddArgument(schema.Argument{Name: "--timeout", Type: schema.TypeInt}); err != nil {
		t.Fatalf("AddArgument: %v", err)
	}
	args := cfg.Subcommands.Commands["db"].Arguments
	if len(args) != 2 || args[1].Name != "--timeout" {
		t.Errorf("db arguments = %v, want --url then --timeout", args)
	}

	// The same name is rejected at the same scope.
	if err := target.AddArgument(schema.Argument{Name: "--url"}); err == nil {
		t.Error("duplicate AddArgument succeeded, want error")
	}
	// But is fine at a different scope.
	root, err := Locate(cfg, "app")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if err := root.AddArgument(schema.Argument{Name: "--url"}); err != nil {
		t.Errorf("AddArgument at root = %v, want nil", err)
	}
}

func TestLocateEmptyPath(t *testing.T) {
	cfg := appConfig()
	if _, err := Locate(cfg, ""); err == nil {
		t.Error("Locate(\"\") succeeded, want error")
	}
}
