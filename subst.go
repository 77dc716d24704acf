package corelc

// Substitute implements the capture-avoiding substitution required by
// beta reduction and the fixpoint unfold: every free LambdaVar(idx) in
// expr is replaced by replacement (when present), and every free
// LambdaVar(i) with i > idx is compressed to LambdaVar(i-1).
//
// Grounded on smasher164-tapl's untyped.go subst(j, s, t)/substStop,
// generalized to an optional replacement (for the fixpoint None case
// of §4.1) and to the full Expr grammar. replacement is nil only when
// the caller (the fixpoint rule) has already established that index
// idx does not occur free in expr.
func Substitute(expr Expr, replacement Expr, idx int) Expr {
	switch e := expr.(type) {
	case LambdaVar:
		switch {
		case int(e) == idx:
			if replacement == nil {
				panic("corelc: Substitute: LambdaVar occurs but replacement is nil")
			}
			return replacement
		case int(e) > idx:
			return LambdaVar(int(e) - 1)
		default:
			return e
		}
	case ExternalVar:
		return e
	case Literal:
		return e
	case Lambda:
		var inner Expr
		if replacement != nil {
			inner = Shift(replacement, 0)
		}
		return Lambda{Body: Substitute(e.Body, inner, idx+1)}
	case App:
		return App{Fn: Substitute(e.Fn, replacement, idx), Arg: Substitute(e.Arg, replacement, idx)}
	case Struct:
		args := make([]Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = Substitute(a, replacement, idx)
		}
		return Struct{Tag: e.Tag, Args: args, Family: e.Family}
	case Recursion:
		return Recursion{Inner: Substitute(e.Inner, replacement, idx)}
	case Match:
		branches := make([]Branch, len(e.Branches))
		for i, b := range e.Branches {
			// Pattern binders are accounted for by the converter,
			// which wraps each branch body in its own Lambdas (§4.7);
			// the same idx and replacement apply here unchanged.
			branches[i] = Branch{Pat: b.Pat, Body: Substitute(b.Body, replacement, idx)}
		}
		return Match{Scrutinee: Substitute(e.Scrutinee, replacement, idx), Branches: branches}
	default:
		panic("corelc: Substitute: unknown Expr kind")
	}
}
