package corelc

// SynthesizeConstructor builds the eta-expanded lambda term for a data
// constructor of the given tag, arity, and family, per spec.md §4.6:
//
//	Lambda^arity( Struct(tag, [LambdaVar(arity-1), ..., LambdaVar(0)], family) )
//
// A zero-arity constructor is just Struct(tag, [], family). Grounded
// on the same "build n wrapper nodes around a core term" shape as
// fullsimple.go's addBinding/prepend context-list builders, applied
// here to nested Lambda construction instead of list construction.
func SynthesizeConstructor(tag, arity int, family DataFamily) Expr {
	args := make([]Expr, arity)
	for i := 0; i < arity; i++ {
		args[i] = LambdaVar(arity - 1 - i)
	}
	body := Expr(Struct{Tag: tag, Args: args, Family: family})
	for i := 0; i < arity; i++ {
		body = Lambda{Body: body}
	}
	return body
}

// NatZero and NatSucc are convenience constructors for the Peano-style
// naturals convention used by the Nat family (spec.md §3's DataFamily
// includes Nat as an advisory marker; this is a thin helper on top of
// the general synthesis above, not a new semantics).
func NatZero() Expr {
	return Struct{Tag: 0, Args: nil, Family: Nat}
}

func NatSucc(n Expr) Expr {
	return Struct{Tag: 1, Args: []Expr{n}, Family: Nat}
}

// ListNil and ListCons mirror the List convention spec.md §8 uses in
// its worked examples (Nil=0, Cons=1, family Enum).
func ListNil() Expr {
	return Struct{Tag: 0, Args: nil, Family: Enum}
}

func ListCons(head, tail Expr) Expr {
	return Struct{Tag: 1, Args: []Expr{head, tail}, Family: Enum}
}
