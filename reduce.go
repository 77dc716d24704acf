package corelc

// Budget tracks the reduction-step counter of spec.md §4.3/§5: it must
// be decremented before each head-reduction rewrite step, and an
// exceeded budget fails with RewriteBudgetExceeded. The zero Budget
// is exhausted; use NewBudget.
type Budget struct {
	Remaining int
}

// DefaultBudget is the default rewrite step budget the Converter gives
// each of its Normalize calls.
const DefaultBudget = 10000

func NewBudget(steps int) *Budget {
	return &Budget{Remaining: steps}
}

func (b *Budget) consume() error {
	if b.Remaining <= 0 {
		return &CoreError{Kind: RewriteBudgetExceeded, Msg: "normalize exceeded the configured step budget"}
	}
	b.Remaining--
	return nil
}

// HeadReduce performs the left-outermost rewrite repeatedly, in the
// fixed order beta, match, fixpoint, eta (§4.2), terminating when the
// head stops changing. Grounded on smasher164-tapl's untyped.go eval1
// (single-redex search at the head) and fullsimple.go's If/Case/Fix
// handling, generalized into the fixed four-rule ordering spec.md
// prescribes.
func HeadReduce(e Expr, budget *Budget) (Expr, error) {
	for {
		next, changed, err := headReduceStep(e, budget)
		if err != nil {
			return nil, err
		}
		if !changed {
			return e, nil
		}
		e = next
	}
}

func headReduceStep(e Expr, budget *Budget) (Expr, bool, error) {
	if r, ok := tryBeta(e); ok {
		if err := budget.consume(); err != nil {
			return nil, false, err
		}
		return r, true, nil
	}
	if r, ok := tryMatch(e); ok {
		if err := budget.consume(); err != nil {
			return nil, false, err
		}
		return r, true, nil
	}
	if r, ok := tryFixpoint(e); ok {
		if err := budget.consume(); err != nil {
			return nil, false, err
		}
		return r, true, nil
	}
	if r, ok := tryEta(e); ok {
		if err := budget.consume(); err != nil {
			return nil, false, err
		}
		return r, true, nil
	}
	return e, false, nil
}

// tryBeta: App(Lambda(b), a) -> substitute(b, a, 0).
func tryBeta(e Expr) (Expr, bool) {
	app, ok := e.(App)
	if !ok {
		return nil, false
	}
	lam, ok := app.Fn.(Lambda)
	if !ok {
		return nil, false
	}
	return Substitute(lam.Body, app.Arg, 0), true
}

// tryMatch: Match(arg, branches) -> solve_match(env, body) when
// FindMatch decides a branch; the Match is left untouched when no
// branch is decidable (an earlier branch was NotProvable, or every
// branch was NoMatch — spec.md §7's NonExhaustivePatternMatch case,
// which the rewriter surfaces as "no change" rather than an error).
func tryMatch(e Expr) (Expr, bool) {
	m, ok := e.(Match)
	if !ok {
		return nil, false
	}
	pat, env, body, found := FindMatch(ExprValueOps, m.Scrutinee, m.Branches)
	if !found {
		return nil, false
	}
	return SolveMatch(env, body, VarCount(pat)), true
}

// tryFixpoint: Recursion(Lambda(inner)) -> substitute(inner, None, 0)
// only if max_lambda_var(inner) < 0 (no outer free variables escape
// under the fixpoint). max_lambda_var(inner) is evaluated on inner as
// HeadReduce receives it; Normalize calls HeadReduce again after
// normalizing children changed the term, so the check is then repeated
// on the normalized body (see DESIGN.md's "Eta under Recursion").
func tryFixpoint(e Expr) (Expr, bool) {
	rec, ok := e.(Recursion)
	if !ok {
		return nil, false
	}
	lam, ok := rec.Inner.(Lambda)
	if !ok {
		return nil, false
	}
	if !IsClosed(lam.Body) {
		return nil, false
	}
	return Substitute(lam.Body, nil, 0), true
}

// tryEta: Lambda(App(inner, LambdaVar(0))) -> substitute(inner,
// LambdaVar(0), 0), only if max_lambda_var(inner) < 0. inner is
// closed relative to the Lambda it sits under, so this substitution
// never actually fires a replacement — its effect is purely to
// reinterpret inner one binder shallower, which is sound precisely
// because inner never references that binder.
func tryEta(e Expr) (Expr, bool) {
	lam, ok := e.(Lambda)
	if !ok {
		return nil, false
	}
	app, ok := lam.Body.(App)
	if !ok {
		return nil, false
	}
	if v, ok := app.Arg.(LambdaVar); !ok || v != 0 {
		return nil, false
	}
	if !IsClosed(app.Fn) {
		return nil, false
	}
	return Substitute(app.Fn, LambdaVar(0), 0), true
}
