// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromTreeFullDocument(t *testing.T) {
	tree := map[string]any{
		"parser": map[string]any{
			"prog":        "convert",
			"description": "Convert files",
			"epilog":      "See docs",
		},
		"parent_arguments": []any{
			map[string]any{
				"name":    "--log-level",
				"short":   "-l",
				"choices": "@logging_levels",
				"default": "INFO",
				"help":    "Set logging level",
			},
		},
		"arguments": []any{
			map[string]any{"name": "input_file", "help": "Input file"},
		},
		"subcommands": map[string]any{
			"title": "Available commands",
			"commands": map[string]any{
				"convert": map[string]any{
					"description": "Convert the input",
					"help":        "Convert input",
					"arguments": []any{
						map[string]any{
							"name":     "--to-format",
							"choices":  []any{"json", "yaml"},
							"required": true,
						},
					},
				},
			},
		},
	}

	cfg, err := FromTree(tree)
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	want := &Config{
		Parser: ParserInfo{Prog: "convert", Description: "Convert files", Epilog: "See docs"},
		ParentArguments: []Argument{{
			Name:        "--log-level",
			Short:       "-l",
			Type:        TypeStr,
			Action:      ActionStore,
			ChoicesFrom: "@logging_levels",
			Default:     "INFO",
			Help:        "Set logging level",
		}},
		Arguments: []Argument{{
			Name:   "input_file",
			Type:   TypeStr,
			Action: ActionStore,
			Help:   "Input file",
		}},
		Subcommands: &Subcommands{
			Title: "Available commands",
			Dest:  DefaultDest,
			Commands: map[string]*Subcommand{
				"convert": {
					Description: "Convert the input",
					Help:        "Convert input",
					Arguments: []Argument{{
						Name:     "--to-format",
						Type:     TypeStr,
						Action:   ActionStore,
						Choices:  []string{"json", "yaml"},
						Required: true,
					}},
				},
			},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestFromTreeDefaults(t *testing.T) {
	cfg, err := FromTree(map[string]any{
		"arguments": []any{map[string]any{"name": "--x"}},
	})
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	arg := cfg.Arguments[0]
	if arg.Type != TypeStr {
		t.Errorf("Type = %q, want %q", arg.Type, TypeStr)
	}
	if arg.Action != ActionStore {
		t.Errorf("Action = %q, want %q", arg.Action, ActionStore)
	}
	if arg.Required {
		t.Error("Required = true, want false")
	}
}

func TestFromTreeErrors(t *testing.T) {
	tests := []struct {
		name   string
		tree   map[string]any
		errSub string
	}{
		{
			name:   "missing name",
			tree:   map[string]any{"arguments": []any{map[string]any{"help": "x"}}},
			errSub: `missing required key "name"`,
		},
		{
			name:   "unknown type",
			tree:   map[string]any{"arguments": []any{map[string]any{"name": "--x", "type": "complex"}}},
			errSub: `unknown type "complex"`,
		},
		{
			name:   "unknown action",
			tree:   map[string]any{"arguments": []any{map[string]any{"name": "--x", "action": "explode"}}},
			errSub: `unknown action "explode"`,
		},
		{
			name: "duplicate names",
			tree: map[string]any{"arguments": []any{
				map[string]any{"name": "--x"},
				map[string]any{"name": "--x"},
			}},
			errSub: "already declared",
		},
		{
			name:   "required with default",
			tree:   map[string]any{"arguments": []any{map[string]any{"name": "--x", "required": true, "default": "y"}}},
			errSub: "cannot be required and carry a default",
		},
		{
			name:   "required on positional",
			tree:   map[string]any{"arguments": []any{map[string]any{"name": "x", "required": true}}},
			errSub: `cannot carry "required"`,
		},
		{
			name:   "bad nargs",
			tree:   map[string]any{"arguments": []any{map[string]any{"name": "--x", "nargs": "-2"}}},
			errSub: "positive count",
		},
		{
			name:   "bad choices shape",
			tree:   map[string]any{"arguments": []any{map[string]any{"name": "--x", "choices": 7}}},
			errSub: "expected a string or a sequence",
		},
		{
			name:   "arguments not a sequence",
			tree:   map[string]any{"arguments": "nope"},
			errSub: "expected a sequence",
		},
		{
			name: "group references unknown argument",
			tree: map[string]any{
				"arguments":       []any{map[string]any{"name": "--x"}},
				"argument_groups": []any{map[string]any{"title": "io", "arguments": []any{"--missing"}}},
			},
			errSub: `references unknown argument "--missing"`,
		},
		{
			name: "exclusive group references unknown argument",
			tree: map[string]any{
				"mutually_exclusive": []any{map[string]any{"arguments": []any{"--missing"}}},
			},
			errSub: `unknown argument "--missing"`,
		},
		{
			name: "group missing title",
			tree: map[string]any{
				"argument_groups": []any{map[string]any{"arguments": []any{}}},
			},
			errSub: `missing required key "title"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTree(tt.tree)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("FromTree = %v, want *SchemaError", err)
			}
			if !strings.Contains(se.Error(), tt.errSub) {
				t.Errorf("error = %q, want it to contain %q", se.Error(), tt.errSub)
			}
		})
	}
}

func TestFromTreeGroupRefsInheritedParent(t *testing.T) {
	// A subcommand-level group may name an inherited parent argument: parent
	// arguments are attached at every depth, so the reference is valid.
	tree := map[string]any{
		"parent_arguments": []any{
			map[string]any{"name": "--log-level", "short": "-l"},
		},
		"subcommands": map[string]any{
			"commands": map[string]any{
				"convert": map[string]any{
					"arguments": []any{
						map[string]any{"name": "--to-format"},
					},
					"argument_groups": []any{
						map[string]any{"title": "output", "arguments": []any{"--to-format", "--log-level"}},
					},
					"mutually_exclusive": []any{
						map[string]any{"arguments": []any{"-l", "--to-format"}},
					},
					"subcommands": map[string]any{
						"commands": map[string]any{
							"fast": map[string]any{
								"argument_groups": []any{
									map[string]any{"title": "logging", "arguments": []any{"--log-level"}},
								},
							},
						},
					},
				},
			},
		},
	}
	if _, err := FromTree(tree); err != nil {
		t.Fatalf("FromTree: %v", err)
	}

	// A name that exists nowhere in scope still fails.
	tree["subcommands"].(map[string]any)["commands"].(map[string]any)["convert"].(map[string]any)["argument_groups"] = []any{
		map[string]any{"title": "output", "arguments": []any{"--missing"}},
	}
	if _, err := FromTree(tree); err == nil {
		t.Fatal("FromTree accepted a group reference to an undeclared argument")
	}
}

func TestFromTreePositionalRequiredFalse(t *testing.T) {
	cfg, err := FromTree(map[string]any{
		"arguments": []any{map[string]any{"name": "input", "required": false}},
	})
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if cfg.Arguments[0].Required {
		t.Error("Required = true, want false")
	}
}

func TestFromTreeGroupRefsByShortAlias(t *testing.T) {
	_, err := FromTree(map[string]any{
		"arguments": []any{map[string]any{"name": "--verbose", "short": "-v"}},
		"argument_groups": []any{
			map[string]any{"title": "output", "arguments": []any{"-v"}},
		},
	})
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
}

func TestFromTreeInterfaceKeyedMaps(t *testing.T) {
	cfg, err := FromTree(map[string]any{
		"parser": map[any]any{"prog": "app"},
	})
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if cfg.Parser.Prog != "app" {
		t.Errorf("Prog = %q, want app", cfg.Parser.Prog)
	}
}

func TestFromTreeScalarNormalization(t *testing.T) {
	cfg, err := FromTree(map[string]any{
		"arguments": []any{
			map[string]any{"name": "--retries", "type": "int", "default": int64(3)},
			map[string]any{"name": "--ratio", "type": "float", "default": 0.5},
			map[string]any{"name": "--single", "choices": "one"},
			map[string]any{"name": "--count", "nargs": 2},
		},
	})
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if got := cfg.Arguments[0].Default; got != 3 {
		t.Errorf("int64 default = %v (%T), want int 3", got, got)
	}
	if got := cfg.Arguments[1].Default; got != 0.5 {
		t.Errorf("float default = %v, want 0.5", got)
	}
	if got := cfg.Arguments[2].Choices; !cmp.Equal(got, []string{"one"}) {
		t.Errorf("bare string choices = %v, want [one]", got)
	}
	if got := cfg.Arguments[3].NArgs; got != "2" {
		t.Errorf("numeric nargs = %q, want \"2\"", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tree := map[string]any{
		"parser": map[string]any{"prog": "app", "description": "An app"},
		"parent_arguments": []any{
			map[string]any{"name": "--log-level", "short": "-l", "choices": "@logging_levels", "default": "INFO"},
		},
		"arguments": []any{
			map[string]any{"name": "input", "help": "Input"},
			map[string]any{"name": "--workers", "type": "int", "default": 4, "metavar": "N"},
		},
		"subcommands": map[string]any{
			"dest": "command",
			"commands": map[string]any{
				"db": map[string]any{
					"description": "Database ops",
					"subcommands": map[string]any{
						"commands": map[string]any{
							"migrate": map[string]any{
								"arguments": []any{
									map[string]any{"name": "--dry-run", "action": "store_true"},
								},
							},
						},
					},
				},
			},
		},
		"argument_groups": []any{
			map[string]any{"title": "io", "arguments": []any{"input"}},
		},
	}
	cfg, err := FromTree(tree)
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	again, err := FromTree(ToTree(cfg))
	if err != nil {
		t.Fatalf("FromTree(ToTree): %v", err)
	}
	if diff := cmp.Diff(cfg, again); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestDestName(t *testing.T) {
	tests := []struct {
		arg  Argument
		want string
	}{
		{Argument{Name: "--log-level"}, "log_level"},
		{Argument{Name: "-v"}, "v"},
		{Argument{Name: "input_file"}, "input_file"},
		{Argument{Name: "--out", Dest: "output"}, "output"},
	}
	for _, tt := range tests {
		if got := tt.arg.DestName(); got != tt.want {
			t.Errorf("DestName(%q) = %q, want %q", tt.arg.Name, got, tt.want)
		}
	}
}

func TestSubcommandNamesSorted(t *testing.T) {
	sub := &Subcommands{Commands: map[string]*Subcommand{
		"zeta": {}, "alpha": {}, "mid": {},
	}}
	want := []string{"alpha", "mid", "zeta"}
	if diff := cmp.Diff(want, sub.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}
