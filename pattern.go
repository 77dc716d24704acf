package corelc

import (
	"github.com/samber/lo"
)

// Pattern is the IR pattern sum type of spec.md §3.
type Pattern interface {
	isPattern()
	Equal(Pattern) bool
}

// WildCard matches anything and binds nothing.
type WildCard struct{}

func (WildCard) isPattern()        {}
func (WildCard) Equal(o Pattern) bool {
	_, ok := o.(WildCard)
	return ok
}

// PatLiteral matches a scrutinee equal to Val.
type PatLiteral struct {
	Val Lit
}

func (PatLiteral) isPattern() {}
func (p PatLiteral) Equal(o Pattern) bool {
	q, ok := o.(PatLiteral)
	return ok && p.Val.Equal(q.Val)
}

// Var binds the scrutinee to slot Name, a non-negative index into the
// branch's bound-variable array.
type Var struct {
	Name int
}

func (Var) isPattern() {}
func (p Var) Equal(o Pattern) bool {
	q, ok := o.(Var)
	return ok && p.Name == q.Name
}

// Named binds Name and recurses into Inner.
type Named struct {
	Name  int
	Inner Pattern
}

func (Named) isPattern() {}
func (p Named) Equal(o Pattern) bool {
	q, ok := o.(Named)
	return ok && p.Name == q.Name && p.Inner.Equal(q.Inner)
}

// ListPart is one element of a ListPat: either a positional Item or
// the (at most one) Splice binding the list's remainder.
type ListPart interface {
	isListPart()
}

type Splice struct {
	Name *int // nil means an unnamed splice
}

func (Splice) isListPart() {}

type Item struct {
	Pat Pattern
}

func (Item) isListPart() {}

// ListPat matches a cons-list (Struct(0,[])=nil, Struct(1,[h,t])=cons)
// with positional items on either side of at most one Splice.
type ListPat struct {
	Parts []ListPart
}

func (ListPat) isPattern() {}

// NewListPat constructs a ListPat, enforcing the at-most-one-splice
// invariant at construction time (spec.md §7 InvalidPattern).
func NewListPat(parts []ListPart) (ListPat, error) {
	n := lo.CountBy(parts, func(p ListPart) bool {
		_, ok := p.(Splice)
		return ok
	})
	if n > 1 {
		return ListPat{}, &CoreError{Kind: InvalidPattern, Msg: "ListPat: more than one splice"}
	}
	return ListPat{Parts: parts}, nil
}

func (p ListPat) Equal(o Pattern) bool {
	q, ok := o.(ListPat)
	if !ok || len(p.Parts) != len(q.Parts) {
		return false
	}
	for i := range p.Parts {
		if !listPartEqual(p.Parts[i], q.Parts[i]) {
			return false
		}
	}
	return true
}

func listPartEqual(a, b ListPart) bool {
	switch a := a.(type) {
	case Splice:
		b, ok := b.(Splice)
		if !ok {
			return false
		}
		if (a.Name == nil) != (b.Name == nil) {
			return false
		}
		return a.Name == nil || *a.Name == *b.Name
	case Item:
		b, ok := b.(Item)
		return ok && a.Pat.Equal(b.Pat)
	default:
		return false
	}
}

// PositionalStruct matches a data constructor application. Tag nil
// matches any constructor of Family (a single-constructor struct);
// Tag non-nil requires that exact constructor index.
type PositionalStruct struct {
	Tag    *int
	Params []Pattern
	Family DataFamily
}

func (PositionalStruct) isPattern() {}
func (p PositionalStruct) Equal(o Pattern) bool {
	q, ok := o.(PositionalStruct)
	if !ok || p.Family != q.Family || len(p.Params) != len(q.Params) {
		return false
	}
	if (p.Tag == nil) != (q.Tag == nil) {
		return false
	}
	if p.Tag != nil && *p.Tag != *q.Tag {
		return false
	}
	for i := range p.Params {
		if !p.Params[i].Equal(q.Params[i]) {
			return false
		}
	}
	return true
}

// Union tries Head, then each of Rest in order (first match wins).
// All arms must bind the same names by construction; VarCount uses
// only Head.
type Union struct {
	Head Pattern
	Rest []Pattern
}

func (Union) isPattern() {}

// NewUnion constructs a Union, flattening nested Unions and enforcing
// a nonempty Rest (spec.md §7 InvalidPattern).
func NewUnion(head Pattern, rest []Pattern) (Union, error) {
	if len(rest) == 0 {
		return Union{}, &CoreError{Kind: InvalidPattern, Msg: "Union: empty tail"}
	}
	arms := flattenUnion(head)
	for _, r := range rest {
		arms = append(arms, flattenUnion(r)...)
	}
	return Union{Head: arms[0], Rest: arms[1:]}, nil
}

func flattenUnion(p Pattern) []Pattern {
	if u, ok := p.(Union); ok {
		arms := append([]Pattern{u.Head}, u.Rest...)
		var out []Pattern
		for _, a := range arms {
			out = append(out, flattenUnion(a)...)
		}
		return out
	}
	return []Pattern{p}
}

func (p Union) Equal(o Pattern) bool {
	q, ok := o.(Union)
	if !ok || !p.Head.Equal(q.Head) || len(p.Rest) != len(q.Rest) {
		return false
	}
	for i := range p.Rest {
		if !p.Rest[i].Equal(q.Rest[i]) {
			return false
		}
	}
	return true
}

// StrPart is one fragment of a StrPat.
type StrPart interface {
	isStrPart()
}

type WildStr struct{}

func (WildStr) isStrPart() {}

type NamedStr struct {
	Name int
}

func (NamedStr) isStrPart() {}

type LitStr struct {
	Val string
}

func (LitStr) isStrPart() {}

// StrPat is matched uniformly as NotProvable by this core's matcher
// (spec.md §4.4, §9 open question); a later phase decides it.
type StrPat struct {
	Parts []StrPart
}

func (StrPat) isPattern() {}

// NewStrPat constructs a StrPat, requiring a nonempty Parts (spec.md
// §7 InvalidPattern).
func NewStrPat(parts []StrPart) (StrPat, error) {
	if len(parts) == 0 {
		return StrPat{}, &CoreError{Kind: InvalidPattern, Msg: "StrPat: empty parts"}
	}
	return StrPat{Parts: parts}, nil
}

func (p StrPat) Equal(o Pattern) bool {
	q, ok := o.(StrPat)
	if !ok || len(p.Parts) != len(q.Parts) {
		return false
	}
	for i := range p.Parts {
		if !strPartEqual(p.Parts[i], q.Parts[i]) {
			return false
		}
	}
	return true
}

func strPartEqual(a, b StrPart) bool {
	switch a := a.(type) {
	case WildStr:
		_, ok := b.(WildStr)
		return ok
	case NamedStr:
		b, ok := b.(NamedStr)
		return ok && a.Name == b.Name
	case LitStr:
		b, ok := b.(LitStr)
		return ok && a.Val == b.Val
	default:
		return false
	}
}

// VarCount returns the pattern's bound-variable count: the converter
// maps surface names to the dense range [0, VarCount(pattern)) via
// names.indexOf(name), so this is max(0, 1+name) over every Var/Named
// (and NamedStr) name appearing in the pattern.
func VarCount(p Pattern) int {
	switch p := p.(type) {
	case WildCard, PatLiteral:
		return 0
	case Var:
		return max(0, 1+p.Name)
	case Named:
		inner := VarCount(p.Inner)
		return max(inner, 1+p.Name)
	case ListPat:
		n := 0
		for _, part := range p.Parts {
			switch part := part.(type) {
			case Splice:
				if part.Name != nil {
					n = max(n, 1+*part.Name)
				}
			case Item:
				n = max(n, VarCount(part.Pat))
			}
		}
		return n
	case PositionalStruct:
		n := 0
		for _, sub := range p.Params {
			n = max(n, VarCount(sub))
		}
		return n
	case Union:
		// All arms bind the same names by construction; only Head
		// need be consulted.
		return VarCount(p.Head)
	case StrPat:
		n := 0
		for _, part := range p.Parts {
			if ns, ok := part.(NamedStr); ok {
				n = max(n, 1+ns.Name)
			}
		}
		return n
	default:
		panic("corelc: VarCount: unknown Pattern kind")
	}
}
