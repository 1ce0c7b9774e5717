// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// FromTree converts a generic document tree (as produced by a YAML or TOML
// decoder) into a validated Config. Optional fields take their documented
// defaults: type str, action store, required false, dispatch dest "command".
// Resolver references ("@name") are preserved literally; they are only
// resolved at compile time. All failures are *SchemaError values carrying a
// path into the tree.
func FromTree(tree map[string]any) (*Config, error) {
	cfg := &Config{}

	if v, ok := tree["parser"]; ok && v != nil {
		m, err := asMap(v, "parser")
		if err != nil {
			return nil, err
		}
		if cfg.Parser.Prog, err = optString(m, "prog", "parser"); err != nil {
			return nil, err
		}
		if cfg.Parser.Description, err = optString(m, "description", "parser"); err != nil {
			return nil, err
		}
		if cfg.Parser.Epilog, err = optString(m, "epilog", "parser"); err != nil {
			return nil, err
		}
	}

	var err error
	if cfg.ParentArguments, err = argumentList(tree["parent_arguments"], "parent_arguments"); err != nil {
		return nil, err
	}
	if cfg.Arguments, err = argumentList(tree["arguments"], "arguments"); err != nil {
		return nil, err
	}
	if cfg.Subcommands, err = subcommandsFromTree(tree["subcommands"], "subcommands", cfg.ParentArguments); err != nil {
		return nil, err
	}
	if cfg.ArgumentGroups, err = groupList(tree["argument_groups"], "argument_groups"); err != nil {
		return nil, err
	}
	if cfg.MutuallyExclusive, err = exclusiveList(tree["mutually_exclusive"], "mutually_exclusive"); err != nil {
		return nil, err
	}

	scope := append(append([]Argument{}, cfg.ParentArguments...), cfg.Arguments...)
	if err := checkGroupRefs(cfg.ArgumentGroups, cfg.MutuallyExclusive, scope, ""); err != nil {
		return nil, err
	}
	return cfg, nil
}

// subcommandsFromTree normalizes a dispatch point. Parent arguments are
// inherited at every depth, so they are part of the scope a subcommand's
// group references may name.
func subcommandsFromTree(v any, path string, parents []Argument) (*Subcommands, error) {
	if v == nil {
		return nil, nil
	}
	m, err := asMap(v, path)
	if err != nil {
		return nil, err
	}
	sub := &Subcommands{Commands: map[string]*Subcommand{}}
	if sub.Title, err = optString(m, "title", path); err != nil {
		return nil, err
	}
	if sub.Description, err = optString(m, "description", path); err != nil {
		return nil, err
	}
	if sub.Dest, err = optString(m, "dest", path); err != nil {
		return nil, err
	}
	if sub.Dest == "" {
		sub.Dest = DefaultDest
	}

	cmds, ok := m["commands"]
	if !ok || cmds == nil {
		return sub, nil
	}
	cmdMap, err := asMap(cmds, path+".commands")
	if err != nil {
		return nil, err
	}
	for name, raw := range cmdMap {
		cmdPath := path + ".commands." + name
		if name == "" {
			return nil, schemaErrf(cmdPath, "subcommand name must not be empty")
		}
		cm, err := asMap(raw, cmdPath)
		if err != nil {
			return nil, err
		}
		cmd := &Subcommand{}
		if cmd.Description, err = optString(cm, "description", cmdPath); err != nil {
			return nil, err
		}
		if cmd.Help, err = optString(cm, "help", cmdPath); err != nil {
			return nil, err
		}
		if cmd.Arguments, err = argumentList(cm["arguments"], cmdPath+".arguments"); err != nil {
			return nil, err
		}
		if cmd.Subcommands, err = subcommandsFromTree(cm["subcommands"], cmdPath+".subcommands", parents); err != nil {
			return nil, err
		}
		if cmd.ArgumentGroups, err = groupList(cm["argument_groups"], cmdPath+".argument_groups"); err != nil {
			return nil, err
		}
		if cmd.MutuallyExclusive, err = exclusiveList(cm["mutually_exclusive"], cmdPath+".mutually_exclusive"); err != nil {
			return nil, err
		}
		scope := append(append([]Argument{}, parents...), cmd.Arguments...)
		if err := checkGroupRefs(cmd.ArgumentGroups, cmd.MutuallyExclusive, scope, cmdPath); err != nil {
			return nil, err
		}
		sub.Commands[name] = cmd
	}
	return sub, nil
}

func argumentList(v any, path string) ([]Argument, error) {
	if v == nil {
		return nil, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, schemaErrf(path, "expected a sequence of argument entries, got %T", v)
	}
	args := make([]Argument, 0, len(seq))
	seen := map[string]int{}
	for i, entry := range seq {
		entryPath := fmt.Sprintf("%s[%d]", path, i)
		arg, err := argumentFromTree(entry, entryPath)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[arg.Name]; dup {
			return nil, schemaErrf(entryPath, "argument %q already declared at %s[%d]", arg.Name, path, prev)
		}
		seen[arg.Name] = i
		args = append(args, arg)
	}
	return args, nil
}

func argumentFromTree(v any, path string) (Argument, error) {
	m, err := asMap(v, path)
	if err != nil {
		return Argument{}, err
	}
	var arg Argument
	if arg.Name, err = optString(m, "name", path); err != nil {
		return Argument{}, err
	}
	if arg.Name == "" {
		return Argument{}, schemaErrf(path, "argument entry is missing required key \"name\"")
	}
	if arg.Short, err = optString(m, "short", path); err != nil {
		return Argument{}, err
	}
	if arg.Type, err = optString(m, "type", path); err != nil {
		return Argument{}, err
	}
	if arg.Type == "" {
		arg.Type = TypeStr
	}
	if !validTypes[arg.Type] {
		return Argument{}, schemaErrf(path, "unknown type %q", arg.Type)
	}
	if arg.Action, err = optString(m, "action", path); err != nil {
		return Argument{}, err
	}
	if arg.Action == "" {
		arg.Action = ActionStore
	}
	if !validActions[arg.Action] {
		return Argument{}, schemaErrf(path, "unknown action %q", arg.Action)
	}

	if c, ok := m["choices"]; ok && c != nil {
		switch cv := c.(type) {
		case string:
			if strings.HasPrefix(cv, ResolverSigil) {
				arg.ChoicesFrom = cv
			} else {
				// A bare string is a single-choice list.
				arg.Choices = []string{cv}
			}
		case []any:
			choices := make([]string, 0, len(cv))
			for j, cc := range cv {
				s, ok := scalarString(cc)
				if !ok {
					return Argument{}, schemaErrf(fmt.Sprintf("%s.choices[%d]", path, j), "expected a scalar, got %T", cc)
				}
				choices = append(choices, s)
			}
			arg.Choices = choices
		default:
			return Argument{}, schemaErrf(path+".choices", "expected a string or a sequence of strings, got %T", c)
		}
	}

	if d, ok := m["default"]; ok && d != nil {
		dv, err := scalarValue(d, path+".default")
		if err != nil {
			return Argument{}, err
		}
		arg.Default = dv
	}

	if r, ok := m["required"]; ok && r != nil {
		b, ok := r.(bool)
		if !ok {
			return Argument{}, schemaErrf(path+".required", "expected a boolean, got %T", r)
		}
		arg.Required = b
	}

	if n, ok := m["nargs"]; ok && n != nil {
		nargs, err := nargsString(n, path+".nargs")
		if err != nil {
			return Argument{}, err
		}
		arg.NArgs = nargs
	}

	if arg.Help, err = optString(m, "help", path); err != nil {
		return Argument{}, err
	}
	if arg.Dest, err = optString(m, "dest", path); err != nil {
		return Argument{}, err
	}
	if c, ok := m["const"]; ok && c != nil {
		cv, err := scalarValue(c, path+".const")
		if err != nil {
			return Argument{}, err
		}
		arg.Const = cv
	}
	if arg.Metavar, err = optString(m, "metavar", path); err != nil {
		return Argument{}, err
	}
	if arg.Env, err = optString(m, "env", path); err != nil {
		return Argument{}, err
	}

	if arg.Required && arg.Default != nil {
		return Argument{}, schemaErrf(path, "argument %q cannot be required and carry a default", arg.Name)
	}
	// Positionals are inherently required unless their arity permits zero;
	// an explicit required: false is a harmless no-op.
	if arg.IsPositional() && arg.Required {
		return Argument{}, schemaErrf(path, "positional argument %q cannot carry \"required\"", arg.Name)
	}
	return arg, nil
}

func groupList(v any, path string) ([]Group, error) {
	if v == nil {
		return nil, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, schemaErrf(path, "expected a sequence of group entries, got %T", v)
	}
	groups := make([]Group, 0, len(seq))
	for i, entry := range seq {
		entryPath := fmt.Sprintf("%s[%d]", path, i)
		m, err := asMap(entry, entryPath)
		if err != nil {
			return nil, err
		}
		var g Group
		if g.Title, err = optString(m, "title", entryPath); err != nil {
			return nil, err
		}
		if g.Title == "" {
			return nil, schemaErrf(entryPath, "argument group is missing required key \"title\"")
		}
		if g.Description, err = optString(m, "description", entryPath); err != nil {
			return nil, err
		}
		if g.Arguments, err = stringList(m["arguments"], entryPath+".arguments"); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func exclusiveList(v any, path string) ([]ExclusiveGroup, error) {
	if v == nil {
		return nil, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, schemaErrf(path, "expected a sequence of group entries, got %T", v)
	}
	groups := make([]ExclusiveGroup, 0, len(seq))
	for i, entry := range seq {
		entryPath := fmt.Sprintf("%s[%d]", path, i)
		m, err := asMap(entry, entryPath)
		if err != nil {
			return nil, err
		}
		var g ExclusiveGroup
		if g.Title, err = optString(m, "title", entryPath); err != nil {
			return nil, err
		}
		if r, ok := m["required"]; ok && r != nil {
			b, ok := r.(bool)
			if !ok {
				return nil, schemaErrf(entryPath+".required", "expected a boolean, got %T", r)
			}
			g.Required = b
		}
		if g.Arguments, err = stringList(m["arguments"], entryPath+".arguments"); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// checkGroupRefs verifies that every group member names an argument declared
// in the given scope, by long name or short alias.
func checkGroupRefs(groups []Group, exclusive []ExclusiveGroup, scope []Argument, path string) error {
	known := map[string]bool{}
	for _, a := range scope {
		known[a.Name] = true
		if a.Short != "" {
			known[a.Short] = true
		}
	}
	prefix := "argument_groups"
	if path != "" {
		prefix = path + ".argument_groups"
	}
	for i, g := range groups {
		for _, ref := range g.Arguments {
			if !known[ref] {
				return schemaErrf(fmt.Sprintf("%s[%d]", prefix, i), "group %q references unknown argument %q", g.Title, ref)
			}
		}
	}
	prefix = "mutually_exclusive"
	if path != "" {
		prefix = path + ".mutually_exclusive"
	}
	for i, g := range exclusive {
		for _, ref := range g.Arguments {
			if !known[ref] {
				return schemaErrf(fmt.Sprintf("%s[%d]", prefix, i), "mutually exclusive group references unknown argument %q", ref)
			}
		}
	}
	return nil
}

func asMap(v any, path string) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		// Older YAML decoders produce interface-keyed maps.
		out := make(map[string]any, len(m))
		for k, vv := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, schemaErrf(path, "expected string keys, got %T", k)
			}
			out[ks] = vv
		}
		return out, nil
	default:
		return nil, schemaErrf(path, "expected a mapping, got %T", v)
	}
}

func optString(m map[string]any, key, path string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", schemaErrf(path+"."+key, "expected a string, got %T", v)
	}
	return s, nil
}

func stringList(v any, path string) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, schemaErrf(path, "expected a sequence of strings, got %T", v)
	}
	out := make([]string, 0, len(seq))
	for i, entry := range seq {
		s, ok := entry.(string)
		if !ok {
			return nil, schemaErrf(fmt.Sprintf("%s[%d]", path, i), "expected a string, got %T", entry)
		}
		out = append(out, s)
	}
	return out, nil
}

// scalarValue normalizes a decoded scalar. YAML decodes integers as int and
// floats as float64; TOML decodes integers as int64. Everything else is
// rejected.
func scalarValue(v any, path string) (any, error) {
	switch sv := v.(type) {
	case string, bool, int, float64:
		return sv, nil
	case int64:
		return int(sv), nil
	case float32:
		return float64(sv), nil
	default:
		return nil, schemaErrf(path, "expected a scalar, got %T", v)
	}
}

func scalarString(v any) (string, bool) {
	switch sv := v.(type) {
	case string:
		return sv, true
	case bool:
		return strconv.FormatBool(sv), true
	case int:
		return strconv.Itoa(sv), true
	case int64:
		return strconv.FormatInt(sv, 10), true
	case float64:
		return strconv.FormatFloat(sv, 'g', -1, 64), true
	default:
		return "", false
	}
}

func nargsString(v any, path string) (string, error) {
	switch nv := v.(type) {
	case string:
		switch nv {
		case "?", "*", "+":
			return nv, nil
		}
		if n, err := strconv.Atoi(nv); err == nil && n > 0 {
			return nv, nil
		}
		return "", schemaErrf(path, "expected \"?\", \"*\", \"+\" or a positive count, got %q", nv)
	case int:
		if nv <= 0 {
			return "", schemaErrf(path, "expected a positive count, got %d", nv)
		}
		return strconv.Itoa(nv), nil
	case int64:
		if nv <= 0 {
			return "", schemaErrf(path, "expected a positive count, got %d", nv)
		}
		return strconv.FormatInt(nv, 10), nil
	default:
		return "", schemaErrf(path, "expected \"?\", \"*\", \"+\" or a positive count, got %T", v)
	}
}
