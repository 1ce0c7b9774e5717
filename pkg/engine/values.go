// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "strconv"

// Kind tags the concrete type held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
)

// Value is one bound argument value. Absence of a destination is represented
// by a missing Values entry, not by a Value state.
type Value struct {
	Kind  Kind
	Str   string
	Int   int
	Float float64
	Bool  bool
	List  []string
}

// Interface returns the underlying value for display.
func (v Value) Interface() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	case KindList:
		return v.List
	default:
		return v.Str
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		return "[" + join(v.List, " ") + "]"
	default:
		return v.Str
	}
}

// StringValue wraps s.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IntValue wraps i.
func IntValue(i int) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue wraps f.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// ListValue wraps items.
func ListValue(items []string) Value { return Value{Kind: KindList, List: items} }

// Values maps destination names to bound values. A destination that is absent
// was neither supplied nor defaulted; presence of a dispatch destination
// indicates which subcommand branch ran.
type Values map[string]Value

// Has reports whether dest was bound.
func (vs Values) Has(dest string) bool {
	_, ok := vs[dest]
	return ok
}

// String returns the string bound to dest.
func (vs Values) String(dest string) (string, bool) {
	v, ok := vs[dest]
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// Int returns the integer bound to dest.
func (vs Values) Int(dest string) (int, bool) {
	v, ok := vs[dest]
	if !ok || v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// Float returns the float bound to dest.
func (vs Values) Float(dest string) (float64, bool) {
	v, ok := vs[dest]
	if !ok || v.Kind != KindFloat {
		return 0, false
	}
	return v.Float, true
}

// Bool returns the boolean bound to dest.
func (vs Values) Bool(dest string) (bool, bool) {
	v, ok := vs[dest]
	if !ok || v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// List returns the string list bound to dest.
func (vs Values) List(dest string) ([]string, bool) {
	v, ok := vs[dest]
	if !ok || v.Kind != KindList {
		return nil, false
	}
	return v.List, true
}

func join(items []string, sep string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += sep
		}
		out += it
	}
	return out
}
