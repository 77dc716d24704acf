package corelc

// Shift returns expr with every free LambdaVar(i) where i >= cutoff
// replaced by LambdaVar(i+1). Grounded on smasher164-tapl's untyped.go
// shift(d, c, t), generalized from a fixed ±1 and three term kinds to
// shift-by-one over the full Expr grammar.
//
// Branch bodies already carry their own Lambda wrapping (§4.7), so a
// Match recurses with the same cutoff into each branch body; the
// nested Lambdas account for the pattern's bound-variable count as
// the recursion passes through them.
func Shift(expr Expr, cutoff int) Expr {
	switch e := expr.(type) {
	case LambdaVar:
		if int(e) < cutoff {
			return e
		}
		return LambdaVar(int(e) + 1)
	case ExternalVar:
		return e
	case Literal:
		return e
	case Lambda:
		return Lambda{Body: Shift(e.Body, cutoff+1)}
	case App:
		return App{Fn: Shift(e.Fn, cutoff), Arg: Shift(e.Arg, cutoff)}
	case Struct:
		args := make([]Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = Shift(a, cutoff)
		}
		return Struct{Tag: e.Tag, Args: args, Family: e.Family}
	case Recursion:
		return Recursion{Inner: Shift(e.Inner, cutoff)}
	case Match:
		branches := make([]Branch, len(e.Branches))
		for i, b := range e.Branches {
			branches[i] = Branch{Pat: b.Pat, Body: Shift(b.Body, cutoff)}
		}
		return Match{Scrutinee: Shift(e.Scrutinee, cutoff), Branches: branches}
	default:
		panic("corelc: Shift: unknown Expr kind")
	}
}
