package corelc

import (
	"github.com/samber/lo"
	"slices"
)

// MatchOutcome is the three-valued result of matching a pattern
// against a value: Matches means the value definitely matches,
// NoMatch means it definitely does not, NotProvable means the matcher
// cannot decide (typically because the value is opaque at its head).
type MatchOutcome int

const (
	Matches MatchOutcome = iota
	NoMatch
	NotProvable
)

// Env binds pattern slot indices to matched substructures of type V.
type Env[V any] map[int]V

// PatternMatch is the tagged result of MatchOne: Outcome discriminates
// which variant applies, and Bound only has meaning when Outcome ==
// Matches.
type PatternMatch[V any] struct {
	Outcome MatchOutcome
	Bound   Env[V]
}

func matchesResult[V any](env Env[V]) PatternMatch[V] {
	return PatternMatch[V]{Outcome: Matches, Bound: env}
}

func noMatchResult[V any]() PatternMatch[V] {
	return PatternMatch[V]{Outcome: NoMatch}
}

func notProvableResult[V any]() PatternMatch[V] {
	return PatternMatch[V]{Outcome: NotProvable}
}

// ValueOps is the set of capability hooks spec.md §6 requires so the
// matcher is reusable against both IR terms and runtime values.
type ValueOps[V any] struct {
	AsLiteral func(v V) (Lit, bool)
	AsStruct  func(v V, family DataFamily) (tag int, args []V, ok bool)
	AsList    func(v V) ([]V, bool)
	FromList  func(items []V) V
}

// MatchOne matches pattern against value under env, per the rule
// table of spec.md §4.4. Grounded on that table directly; no teacher
// chapter has a three-valued matcher, so this is new construction in
// the teacher's per-node-kind-switch idiom (cf. fullsimple.go's Case
// evaluation, the closest analogue: find the first matching arm).
func MatchOne[V any](ops ValueOps[V], pattern Pattern, value V, env Env[V]) PatternMatch[V] {
	switch p := pattern.(type) {
	case WildCard:
		return matchesResult(env)

	case PatLiteral:
		lit, ok := ops.AsLiteral(value)
		if !ok {
			return notProvableResult[V]()
		}
		if lit.Equal(p.Val) {
			return matchesResult(env)
		}
		return noMatchResult[V]()

	case Var:
		next := cloneEnv(env)
		next[p.Name] = value
		return matchesResult(next)

	case Named:
		r := MatchOne(ops, p.Inner, value, env)
		if r.Outcome != Matches {
			return r
		}
		next := cloneEnv(r.Bound)
		next[p.Name] = value
		return matchesResult(next)

	case PositionalStruct:
		tag, args, ok := ops.AsStruct(value, p.Family)
		if !ok {
			return notProvableResult[V]()
		}
		if p.Tag != nil && tag != *p.Tag {
			return noMatchResult[V]()
		}
		return matchPositional(ops, p.Params, args, env)

	case ListPat:
		return matchList(ops, p.Parts, value, env)

	case Union:
		arms := append([]Pattern{p.Head}, p.Rest...)
		for _, arm := range arms {
			r := MatchOne(ops, arm, value, env)
			if r.Outcome != NoMatch {
				return r
			}
		}
		return noMatchResult[V]()

	case StrPat:
		return notProvableResult[V]()

	default:
		panic("corelc: MatchOne: unknown Pattern kind")
	}
}

func cloneEnv[V any](env Env[V]) Env[V] {
	next := make(Env[V], len(env)+1)
	for k, v := range env {
		next[k] = v
	}
	return next
}

// positionalAcc is the running state lo.Reduce threads through
// matchPositional's fold.
type positionalAcc[V any] struct {
	env     Env[V]
	outcome MatchOutcome
}

// matchPositional folds left over (pattern_i, value_i) with lo.Reduce,
// accumulating env. A NoMatch at any position makes the whole result
// NoMatch even if later positions are NotProvable; NotProvable
// downgrades the final answer but scanning continues so a subsequent
// NoMatch can still prove rejection (§4.4 composition rule). Grounded
// on fullsimple.go/simplebool.go's use of lo for per-element sequence
// folds, generalized here from lo.Map to lo.Reduce for the
// accumulating three-valued fold this composition rule needs.
func matchPositional[V any](ops ValueOps[V], pats []Pattern, vals []V, env Env[V]) PatternMatch[V] {
	if len(pats) != len(vals) {
		return noMatchResult[V]()
	}
	result := lo.Reduce(pats, func(acc positionalAcc[V], p Pattern, i int) positionalAcc[V] {
		if acc.outcome == NoMatch {
			return acc
		}
		r := MatchOne(ops, p, vals[i], acc.env)
		switch r.Outcome {
		case NoMatch:
			return positionalAcc[V]{outcome: NoMatch}
		case NotProvable:
			return positionalAcc[V]{env: acc.env, outcome: NotProvable}
		default:
			return positionalAcc[V]{env: r.Bound, outcome: acc.outcome}
		}
	}, positionalAcc[V]{env: env, outcome: Matches})

	switch result.outcome {
	case NoMatch:
		return noMatchResult[V]()
	case NotProvable:
		return notProvableResult[V]()
	default:
		return matchesResult(result.env)
	}
}

func matchList[V any](ops ValueOps[V], parts []ListPart, value V, env Env[V]) PatternMatch[V] {
	if len(parts) == 0 {
		tag, _, ok := ops.AsStruct(value, Enum)
		if !ok {
			return notProvableResult[V]()
		}
		if tag == 0 {
			return matchesResult(env)
		}
		return noMatchResult[V]()
	}

	head := parts[0]
	if splice, ok := head.(Splice); ok {
		rest := parts[1:]
		if len(rest) == 0 {
			// Tail splice: matches the rest of the value unconditionally.
			next := env
			if splice.Name != nil {
				next = cloneEnv(env)
				next[*splice.Name] = value
			}
			return matchesResult(next)
		}
		items, ok := ops.AsList(value)
		if !ok {
			return notProvableResult[V]()
		}
		if len(items) < len(rest) {
			return noMatchResult[V]()
		}
		prefixLen := len(items) - len(rest)
		prefix := items[:prefixLen]
		tail := items[prefixLen:]
		// matchExactList walks its args outermost-first, so the
		// (already positional) tail parts and values are each cloned
		// and reversed to line back up — slices.Reverse over a cloned
		// slice rather than a manual index-swapping loop, in the same
		// slices idiom untyped.go uses for its context list.
		tailParts := slices.Clone(rest)
		slices.Reverse(tailParts)
		reversedTail := slices.Clone(tail)
		slices.Reverse(reversedTail)
		tailResult := matchExactList(ops, tailParts, reversedTail, env)
		if tailResult.Outcome != Matches {
			return tailResult
		}
		next := tailResult.Bound
		if splice.Name != nil {
			next = cloneEnv(next)
			next[*splice.Name] = ops.FromList(prefix)
		}
		return matchesResult(next)
	}

	item := head.(Item)
	tag, args, ok := ops.AsStruct(value, Enum)
	if !ok {
		return notProvableResult[V]()
	}
	if tag != 1 {
		if tag == 0 {
			return noMatchResult[V]()
		}
		return notProvableResult[V]()
	}
	h, t := args[0], args[1]
	r := MatchOne(ops, item.Pat, h, env)
	if r.Outcome != Matches {
		return r
	}
	return matchList(ops, parts[1:], t, r.Bound)
}

// matchExactList matches a fixed-length, already-materialized slice of
// values (built while peeling off a splice's exact tail) against the
// reversed-back list of non-splice ListParts.
func matchExactList[V any](ops ValueOps[V], parts []ListPart, vals []V, env Env[V]) PatternMatch[V] {
	if len(parts) != len(vals) {
		return noMatchResult[V]()
	}
	cur := env
	for i, part := range parts {
		item := part.(Item)
		r := MatchOne(ops, item.Pat, vals[i], cur)
		if r.Outcome != Matches {
			return r
		}
		cur = r.Bound
	}
	return matchesResult(cur)
}

// FindMatch iterates branches in order: Matches stops and returns the
// matching (pattern, env, body); NoMatch moves to the next branch;
// NotProvable stops with found=false — deciding earlier branches is
// required before later ones may be tested (§4.4).
func FindMatch[V any](ops ValueOps[V], scrutinee V, branches []Branch) (pat Pattern, env Env[V], body Expr, found bool) {
	for _, b := range branches {
		r := MatchOne(ops, b.Pat, scrutinee, Env[V]{})
		switch r.Outcome {
		case Matches:
			return b.Pat, r.Bound, b.Body, true
		case NoMatch:
			continue
		case NotProvable:
			return nil, nil, nil, false
		}
	}
	return nil, nil, nil, false
}

// SolveMatch builds the nested-application term that drives the k
// betas binding a matched branch's names: body is already wrapped in
// k = VarCount(pattern) nested Lambdas by the converter (§4.7), whose
// outermost Lambda binds the highest-indexed slot (k-1) and whose
// innermost Lambda — closest to the real branch body — binds slot 0.
// env maps 0..k-1 to matched Expr substructures.
//
// The result is App(...App(body, env[k-1])..., env[0]): the first,
// innermost application feeds slot k-1 to body's (already a Lambda)
// outermost binder, and each successive outer application feeds the
// next lower slot, so the last (outermost) application feeds slot 0
// to what is by then body's innermost binder (§4.4).
func SolveMatch(env Env[Expr], body Expr, k int) Expr {
	result := body
	for idx := k - 1; idx >= 0; idx-- {
		result = App{Fn: result, Arg: env[idx]}
	}
	return result
}
