// Package table holds the columnar in-memory representation of a query
// result: the tagged Value union, Row and Table types, the filter and
// sort view Transforms that derive one Table from another without ever
// mutating the base table, and Pin, which builds a column-reordered copy.
package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind tags the concrete type carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindInternedString
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindInternedString:
		return "string"
	case KindBool:
		return "bool"
	case KindTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Value is a tagged sum type over the cell types the evaluator and
// renderer need to distinguish. Only the field matching Kind is valid.
type Value struct {
	Kind   Kind
	Int    int64
	Float  float64
	Str    string
	Bool   bool
	Time   time.Time
	Interned *internedString
}

// EpsilonFloat is the relative tolerance used when comparing two
// KindFloat values for equality, resolved in DESIGN.md's Open Questions.
const EpsilonFloat = 1e-9

func Null() Value                  { return Value{Kind: KindNull} }
func Int(v int64) Value            { return Value{Kind: KindInt, Int: v} }
func Float(v float64) Value        { return Value{Kind: KindFloat, Float: v} }
func Str(v string) Value           { return Value{Kind: KindString, Str: v} }
func Bool(v bool) Value            { return Value{Kind: KindBool, Bool: v} }
func Time(v time.Time) Value       { return Value{Kind: KindTime, Time: v} }

// Interned returns a Value backed by the package-level interner for col,
// used for low-cardinality columns where many rows repeat the same text.
func Interned(col, v string) Value {
	s := internFor(col, v)
	return Value{Kind: KindInternedString, Str: s.text, Interned: s}
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value the way it should appear in the result grid
// and in exported/copied text.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString, KindInternedString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindTime:
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Equal reports whether two values compare equal under the dialect's
// coercion rules: numeric Kinds compare numerically with EpsilonFloat
// tolerance, everything else compares on its String() form.
func (v Value) Equal(other Value) bool {
	if v.IsNull() || other.IsNull() {
		return v.IsNull() && other.IsNull()
	}
	if vf, vok := v.asFloat(); vok {
		if of, ook := other.asFloat(); ook {
			return math.Abs(vf-of) <= EpsilonFloat*math.Max(1, math.Abs(vf))
		}
	}
	return v.String() == other.String()
}

func (v Value) asFloat() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	case KindString, KindInternedString:
		f, err := strconv.ParseFloat(v.Str, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Compare orders two values for ORDER BY / column sort. Nulls sort
// last ascending (first when the caller reverses for DESC).
func (v Value) Compare(other Value) int {
	if v.IsNull() && other.IsNull() {
		return 0
	}
	if v.IsNull() {
		return 1
	}
	if other.IsNull() {
		return -1
	}
	if vf, vok := v.asFloat(); vok {
		if of, ook := other.asFloat(); ook {
			switch {
			case vf < of:
				return -1
			case vf > of:
				return 1
			default:
				return 0
			}
		}
	}
	a, b := v.String(), other.String()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v Value) GoString() string {
	return fmt.Sprintf("Value{%s %q}", v.Kind, v.String())
}
