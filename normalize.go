package corelc

import "go.uber.org/zap"

// Normalize computes the normal form of e under budget, per the
// head-then-children-then-repeat loop of spec.md §4.3. Grounded on
// smasher164-tapl's untyped.go evalBigStep (recursive-descent
// evaluator), generalized with an explicit step budget — the
// teacher's toy programs always terminate, so it has no equivalent
// safeguard.
//
// The outer loop is iterative, but the descent into children recurses
// on the call stack rather than using an explicit work list, so stack
// depth grows with the nesting depth of the term.
func Normalize(e Expr, budget *Budget, logger *zap.Logger) (Expr, error) {
	logger = orNop(logger)
	for {
		e1, err := HeadReduce(e, budget)
		if err != nil {
			return nil, err
		}

		e2, err := normalizeChildren(e1, budget, logger)
		if err != nil {
			return nil, err
		}

		if !e2.Equal(e1) {
			logger.Debug("normalize: re-entering after child reduction changed head", zap.Int("budget_remaining", budget.Remaining))
			e = e2
			continue
		}
		return e2, nil
	}
}

func normalizeChildren(e Expr, budget *Budget, logger *zap.Logger) (Expr, error) {
	switch e := e.(type) {
	case App:
		fn, err := Normalize(e.Fn, budget, logger)
		if err != nil {
			return nil, err
		}
		arg, err := Normalize(e.Arg, budget, logger)
		if err != nil {
			return nil, err
		}
		return App{Fn: fn, Arg: arg}, nil

	case Match:
		scrutinee, err := Normalize(e.Scrutinee, budget, logger)
		if err != nil {
			return nil, err
		}
		branches := make([]Branch, len(e.Branches))
		for i, b := range e.Branches {
			body, err := Normalize(b.Body, budget, logger)
			if err != nil {
				return nil, err
			}
			branches[i] = Branch{Pat: b.Pat, Body: body}
		}
		return Match{Scrutinee: scrutinee, Branches: branches}, nil

	case Lambda:
		body, err := Normalize(e.Body, budget, logger)
		if err != nil {
			return nil, err
		}
		return Lambda{Body: body}, nil

	case Recursion:
		inner, err := Normalize(e.Inner, budget, logger)
		if err != nil {
			return nil, err
		}
		return Recursion{Inner: inner}, nil

	case Struct:
		args := make([]Expr, len(e.Args))
		for i, a := range e.Args {
			n, err := Normalize(a, budget, logger)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		return Struct{Tag: e.Tag, Args: args, Family: e.Family}, nil

	case Literal, LambdaVar, ExternalVar:
		return e, nil

	default:
		panic("corelc: normalizeChildren: unknown Expr kind")
	}
}
