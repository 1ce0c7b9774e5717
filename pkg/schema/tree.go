// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// ToTree converts a Config back into a generic document tree suitable for
// serialization. For any normalized Config, FromTree(ToTree(cfg)) reproduces
// cfg field for field; resolver references stay literal.
func ToTree(cfg *Config) map[string]any {
	tree := map[string]any{}
	parser := map[string]any{}
	setNonEmpty(parser, "prog", cfg.Parser.Prog)
	setNonEmpty(parser, "description", cfg.Parser.Description)
	setNonEmpty(parser, "epilog", cfg.Parser.Epilog)
	if len(parser) > 0 {
		tree["parser"] = parser
	}
	if len(cfg.ParentArguments) > 0 {
		tree["parent_arguments"] = argumentsToTree(cfg.ParentArguments)
	}
	if len(cfg.Arguments) > 0 {
		tree["arguments"] = argumentsToTree(cfg.Arguments)
	}
	if cfg.Subcommands != nil {
		tree["subcommands"] = subcommandsToTree(cfg.Subcommands)
	}
	if len(cfg.ArgumentGroups) > 0 {
		tree["argument_groups"] = groupsToTree(cfg.ArgumentGroups)
	}
	if len(cfg.MutuallyExclusive) > 0 {
		tree["mutually_exclusive"] = exclusiveToTree(cfg.MutuallyExclusive)
	}
	return tree
}

func argumentsToTree(args []Argument) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		m := map[string]any{"name": a.Name}
		setNonEmpty(m, "short", a.Short)
		setNonEmpty(m, "type", a.Type)
		setNonEmpty(m, "action", a.Action)
		if a.ChoicesFrom != "" {
			m["choices"] = a.ChoicesFrom
		} else if len(a.Choices) > 0 {
			choices := make([]any, len(a.Choices))
			for i, c := range a.Choices {
				choices[i] = c
			}
			m["choices"] = choices
		}
		if a.Default != nil {
			m["default"] = a.Default
		}
		if a.Required {
			m["required"] = true
		}
		setNonEmpty(m, "nargs", a.NArgs)
		setNonEmpty(m, "help", a.Help)
		setNonEmpty(m, "dest", a.Dest)
		if a.Const != nil {
			m["const"] = a.Const
		}
		setNonEmpty(m, "metavar", a.Metavar)
		setNonEmpty(m, "env", a.Env)
		out = append(out, m)
	}
	return out
}

func subcommandsToTree(sub *Subcommands) map[string]any {
	m := map[string]any{}
	setNonEmpty(m, "title", sub.Title)
	setNonEmpty(m, "description", sub.Description)
	setNonEmpty(m, "dest", sub.Dest)
	commands := map[string]any{}
	for name, cmd := range sub.Commands {
		cm := map[string]any{}
		setNonEmpty(cm, "description", cmd.Description)
		setNonEmpty(cm, "help", cmd.Help)
		if len(cmd.Arguments) > 0 {
			cm["arguments"] = argumentsToTree(cmd.Arguments)
		}
		if cmd.Subcommands != nil {
			cm["subcommands"] = subcommandsToTree(cmd.Subcommands)
		}
		if len(cmd.ArgumentGroups) > 0 {
			cm["argument_groups"] = groupsToTree(cmd.ArgumentGroups)
		}
		if len(cmd.MutuallyExclusive) > 0 {
			cm["mutually_exclusive"] = exclusiveToTree(cmd.MutuallyExclusive)
		}
		commands[name] = cm
	}
	if len(commands) > 0 {
		m["commands"] = commands
	}
	return m
}

func groupsToTree(groups []Group) []any {
	out := make([]any, 0, len(groups))
	for _, g := range groups {
		m := map[string]any{"title": g.Title}
		setNonEmpty(m, "description", g.Description)
		if len(g.Arguments) > 0 {
			m["arguments"] = stringsToTree(g.Arguments)
		}
		out = append(out, m)
	}
	return out
}

func exclusiveToTree(groups []ExclusiveGroup) []any {
	out := make([]any, 0, len(groups))
	for _, g := range groups {
		m := map[string]any{}
		setNonEmpty(m, "title", g.Title)
		if g.Required {
			m["required"] = true
		}
		if len(g.Arguments) > 0 {
			m["arguments"] = stringsToTree(g.Arguments)
		}
		out = append(out, m)
	}
	return out
}

func stringsToTree(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func setNonEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
