// Package corelc implements the let-free intermediate representation,
// normal-order rewriter, and pattern matcher for a small pure
// functional language's middle-end.
package corelc

import "math/big"

// DataFamily tags a Struct-constructed term with an advisory hint for
// downstream consumers. It never affects reduction.
type DataFamily int

const (
	Enum DataFamily = iota
	StructFamily
	Nat
)

func (f DataFamily) String() string {
	switch f {
	case Enum:
		return "Enum"
	case StructFamily:
		return "Struct"
	case Nat:
		return "Nat"
	default:
		return "DataFamily(?)"
	}
}

// Lit is the literal payload carried by Expr.Literal and Pattern.Literal.
type Lit interface {
	isLit()
	Equal(Lit) bool
}

// Integer is an arbitrary-precision integer literal.
type Integer struct {
	Val *big.Int
}

func NewInteger(i int64) Integer {
	return Integer{Val: big.NewInt(i)}
}

func (Integer) isLit() {}

func (a Integer) Equal(o Lit) bool {
	b, ok := o.(Integer)
	return ok && a.Val.Cmp(b.Val) == 0
}

// String is a unicode string literal.
type String struct {
	Val string
}

func (String) isLit() {}

func (a String) Equal(o Lit) bool {
	b, ok := o.(String)
	return ok && a.Val == b.Val
}

// PackageName and Identifier name an external binding's origin.
type PackageName string
type Identifier string

// Expr is the let-free IR sum type described in spec.md §3.
type Expr interface {
	isExpr()

	// MaxLambdaVar returns the largest free LambdaVar index in this
	// term, or nil for "no free lambda var" (−∞).
	MaxLambdaVar() *int

	// VarSet returns the set of free de Bruijn indices.
	VarSet() map[int]struct{}

	// Equal reports structural (value) equality.
	Equal(Expr) bool
}

// App is function application.
type App struct {
	Fn  Expr
	Arg Expr
}

func (App) isExpr() {}

// ExternalVar references a name defined outside the current binding.
type ExternalVar struct {
	Pack PackageName
	Name Identifier
	Typ  string // TypeRef, opaque to the core
}

func (ExternalVar) isExpr() {}

// Branch is one arm of a Match.
type Branch struct {
	Pat  Pattern
	Body Expr
}

// Match is a pattern-matching expression over a nonempty branch list.
type Match struct {
	Scrutinee Expr
	Branches  []Branch
}

func (Match) isExpr() {}

// LambdaVar is a de Bruijn index; 0 is the nearest enclosing binder.
type LambdaVar int

func (LambdaVar) isExpr() {}

// Lambda is a single-argument binder; curried functions nest Lambdas.
type Lambda struct {
	Body Expr
}

func (Lambda) isExpr() {}

// Struct is a tagged, fixed-arity data constructor application.
type Struct struct {
	Tag    int
	Args   []Expr
	Family DataFamily
}

func (Struct) isExpr() {}

// Literal wraps a Lit as an Expr.
type Literal struct {
	Val Lit
}

func (Literal) isExpr() {}

// Recursion is the fixpoint operator; Inner is expected to be a Lambda
// in well-formed input.
type Recursion struct {
	Inner Expr
}

func (Recursion) isExpr() {}

// ---- MaxLambdaVar ----

func maxInt(a, b *int) *int {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a >= *b:
		return a
	default:
		return b
	}
}

func some(i int) *int { return &i }

func (e App) MaxLambdaVar() *int {
	return maxInt(e.Fn.MaxLambdaVar(), e.Arg.MaxLambdaVar())
}

func (e ExternalVar) MaxLambdaVar() *int { return nil }

// Match.Body fields are already wrapped in VarCount(pattern) nested
// Lambdas by the converter (§4.7), so the index shift a branch
// introduces falls out of recursing into Body directly: no separate
// shift is applied here.
func (e Match) MaxLambdaVar() *int {
	m := e.Scrutinee.MaxLambdaVar()
	for _, b := range e.Branches {
		m = maxInt(m, b.Body.MaxLambdaVar())
	}
	return m
}

// shiftMaxDown accounts for k binders introduced between a subterm and
// the enclosing term (Lambda uses k=1): a free index i in the subterm
// corresponds to free index i-k in the surrounding term, and indices
// < k are bound.
func shiftMaxDown(m *int, k int) *int {
	if m == nil {
		return nil
	}
	v := *m - k
	if v < 0 {
		return nil
	}
	return &v
}

func (e LambdaVar) MaxLambdaVar() *int { return some(int(e)) }

func (e Lambda) MaxLambdaVar() *int {
	return shiftMaxDown(e.Body.MaxLambdaVar(), 1)
}

func (e Struct) MaxLambdaVar() *int {
	var m *int
	for _, a := range e.Args {
		m = maxInt(m, a.MaxLambdaVar())
	}
	return m
}

func (e Literal) MaxLambdaVar() *int { return nil }

func (e Recursion) MaxLambdaVar() *int { return e.Inner.MaxLambdaVar() }

// ---- VarSet ----

func shiftSetDown(s map[int]struct{}, k int) map[int]struct{} {
	out := make(map[int]struct{}, len(s))
	for i := range s {
		if i-k >= 0 {
			out[i-k] = struct{}{}
		}
	}
	return out
}

func union(sets ...map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{})
	for _, s := range sets {
		for i := range s {
			out[i] = struct{}{}
		}
	}
	return out
}

func (e App) VarSet() map[int]struct{} {
	return union(e.Fn.VarSet(), e.Arg.VarSet())
}

func (e ExternalVar) VarSet() map[int]struct{} { return map[int]struct{}{} }

func (e Match) VarSet() map[int]struct{} {
	sets := []map[int]struct{}{e.Scrutinee.VarSet()}
	for _, b := range e.Branches {
		sets = append(sets, b.Body.VarSet())
	}
	return union(sets...)
}

func (e LambdaVar) VarSet() map[int]struct{} {
	return map[int]struct{}{int(e): {}}
}

func (e Lambda) VarSet() map[int]struct{} {
	return shiftSetDown(e.Body.VarSet(), 1)
}

func (e Struct) VarSet() map[int]struct{} {
	sets := make([]map[int]struct{}, len(e.Args))
	for i, a := range e.Args {
		sets[i] = a.VarSet()
	}
	return union(sets...)
}

func (e Literal) VarSet() map[int]struct{} { return map[int]struct{}{} }

func (e Recursion) VarSet() map[int]struct{} { return e.Inner.VarSet() }

// ---- Equal ----

func (e App) Equal(o Expr) bool {
	b, ok := o.(App)
	return ok && e.Fn.Equal(b.Fn) && e.Arg.Equal(b.Arg)
}

func (e ExternalVar) Equal(o Expr) bool {
	b, ok := o.(ExternalVar)
	return ok && e.Pack == b.Pack && e.Name == b.Name && e.Typ == b.Typ
}

func (e Match) Equal(o Expr) bool {
	b, ok := o.(Match)
	if !ok || !e.Scrutinee.Equal(b.Scrutinee) || len(e.Branches) != len(b.Branches) {
		return false
	}
	for i := range e.Branches {
		if !e.Branches[i].Pat.Equal(b.Branches[i].Pat) || !e.Branches[i].Body.Equal(b.Branches[i].Body) {
			return false
		}
	}
	return true
}

func (e LambdaVar) Equal(o Expr) bool {
	b, ok := o.(LambdaVar)
	return ok && e == b
}

func (e Lambda) Equal(o Expr) bool {
	b, ok := o.(Lambda)
	return ok && e.Body.Equal(b.Body)
}

func (e Struct) Equal(o Expr) bool {
	b, ok := o.(Struct)
	if !ok || e.Tag != b.Tag || e.Family != b.Family || len(e.Args) != len(b.Args) {
		return false
	}
	for i := range e.Args {
		if !e.Args[i].Equal(b.Args[i]) {
			return false
		}
	}
	return true
}

func (e Literal) Equal(o Expr) bool {
	b, ok := o.(Literal)
	return ok && e.Val.Equal(b.Val)
}

func (e Recursion) Equal(o Expr) bool {
	b, ok := o.(Recursion)
	return ok && e.Inner.Equal(b.Inner)
}

// IsClosed reports whether e has no free LambdaVar, i.e. max_lambda_var
// is None or a negative index (spec.md §3 rationale for MaxLambdaVar).
func IsClosed(e Expr) bool {
	m := e.MaxLambdaVar()
	return m == nil || *m < 0
}
