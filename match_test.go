package corelc

import (
	"testing"

	"github.com/samber/lo"
)

// intList builds a fixture list value from a slice of ints with lo.Map,
// the same per-element fixture-building style fullsimple.go/simplebool.go
// use for their own test terms.
func intList(vals []int) Expr {
	items := lo.Map(vals, func(v int, _ int) Expr {
		return Literal{Val: NewInteger(int64(v))}
	})
	list := ListNil()
	for i := len(items) - 1; i >= 0; i-- {
		list = ListCons(items[i], list)
	}
	return list
}

func TestMatchOneWildCard(t *testing.T) {
	r := MatchOne[Expr](ExprValueOps, WildCard{}, Literal{Val: NewInteger(1)}, Env[Expr]{})
	if r.Outcome != Matches {
		t.Fatalf("Outcome = %v, want Matches", r.Outcome)
	}
}

func TestMatchOneLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value Expr
		want  MatchOutcome
	}{
		{"equal literal matches", Literal{Val: NewInteger(5)}, Matches},
		{"unequal literal is a definite no", Literal{Val: NewInteger(6)}, NoMatch},
		{"opaque var is not provable", LambdaVar(0), NotProvable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := MatchOne[Expr](ExprValueOps, PatLiteral{Val: NewInteger(5)}, tc.value, Env[Expr]{})
			if r.Outcome != tc.want {
				t.Errorf("Outcome = %v, want %v", r.Outcome, tc.want)
			}
		})
	}
}

func TestMatchOneVarBinds(t *testing.T) {
	val := Literal{Val: NewInteger(42)}
	r := MatchOne[Expr](ExprValueOps, Var{Name: 0}, val, Env[Expr]{})
	if r.Outcome != Matches {
		t.Fatalf("Outcome = %v, want Matches", r.Outcome)
	}
	if !r.Bound[0].Equal(val) {
		t.Errorf("Bound[0] = %v, want %v", r.Bound[0], val)
	}
}

func TestMatchOnePositionalStructWrongFamilyIsNotProvable(t *testing.T) {
	val := Struct{Tag: 0, Family: Nat}
	r := MatchOne[Expr](ExprValueOps, PositionalStruct{Family: Enum}, val, Env[Expr]{})
	if r.Outcome != NotProvable {
		t.Fatalf("Outcome = %v, want NotProvable (Family mismatch is advisory, not a proof)", r.Outcome)
	}
}

func TestMatchOnePositionalStructTagMismatch(t *testing.T) {
	tag1 := 1
	val := Struct{Tag: 0, Family: Enum}
	r := MatchOne[Expr](ExprValueOps, PositionalStruct{Tag: &tag1, Family: Enum}, val, Env[Expr]{})
	if r.Outcome != NoMatch {
		t.Fatalf("Outcome = %v, want NoMatch", r.Outcome)
	}
}

func TestMatchOneListPatSpliceBindsRemainder(t *testing.T) {
	list := intList([]int{1, 2})
	restSlot := 0
	pat, err := NewListPat([]ListPart{
		Item{Pat: WildCard{}},
		Splice{Name: &restSlot},
	})
	if err != nil {
		t.Fatalf("NewListPat: %v", err)
	}
	r := MatchOne[Expr](ExprValueOps, pat, list, Env[Expr]{})
	if r.Outcome != Matches {
		t.Fatalf("Outcome = %v, want Matches", r.Outcome)
	}
	want := intList([]int{2})
	if !r.Bound[0].Equal(want) {
		t.Errorf("Bound[0] = %v, want %v", Serialize(r.Bound[0]), Serialize(want))
	}
}

func TestMatchOneListPatLeadingSplice(t *testing.T) {
	list := intList([]int{1, 2, 3})
	prefixSlot := 0
	pat, err := NewListPat([]ListPart{
		Splice{Name: &prefixSlot},
		Item{Pat: PatLiteral{Val: NewInteger(3)}},
	})
	if err != nil {
		t.Fatalf("NewListPat: %v", err)
	}
	r := MatchOne[Expr](ExprValueOps, pat, list, Env[Expr]{})
	if r.Outcome != Matches {
		t.Fatalf("Outcome = %v, want Matches", r.Outcome)
	}
	want := intList([]int{1, 2})
	if !r.Bound[0].Equal(want) {
		t.Errorf("Bound[0] = %v, want %v", Serialize(r.Bound[0]), Serialize(want))
	}
}

func TestMatchOneUnionFirstMatchWins(t *testing.T) {
	u := mustUnion(t, PatLiteral{Val: NewInteger(1)}, PatLiteral{Val: NewInteger(2)})
	r := MatchOne[Expr](ExprValueOps, u, Literal{Val: NewInteger(2)}, Env[Expr]{})
	if r.Outcome != Matches {
		t.Fatalf("Outcome = %v, want Matches", r.Outcome)
	}
}

func TestMatchOneStrPatAlwaysNotProvable(t *testing.T) {
	pat, err := NewStrPat([]StrPart{LitStr{Val: "x"}})
	if err != nil {
		t.Fatalf("NewStrPat: %v", err)
	}
	r := MatchOne[Expr](ExprValueOps, pat, Literal{Val: String{Val: "x"}}, Env[Expr]{})
	if r.Outcome != NotProvable {
		t.Fatalf("Outcome = %v, want NotProvable (deferred per the open question)", r.Outcome)
	}
}

func TestFindMatchStopsOnNotProvable(t *testing.T) {
	branches := []Branch{
		{Pat: PatLiteral{Val: NewInteger(1)}, Body: Literal{Val: NewInteger(100)}},
		{Pat: PatLiteral{Val: NewInteger(2)}, Body: Literal{Val: NewInteger(200)}},
	}
	_, _, _, found := FindMatch[Expr](ExprValueOps, LambdaVar(0), branches)
	if found {
		t.Fatal("expected found=false: an opaque scrutinee makes the first branch NotProvable")
	}
}

func TestFindMatchSkipsDefiniteNoMatch(t *testing.T) {
	branches := []Branch{
		{Pat: PatLiteral{Val: NewInteger(1)}, Body: Literal{Val: NewInteger(100)}},
		{Pat: WildCard{}, Body: Literal{Val: NewInteger(999)}},
	}
	_, _, body, found := FindMatch[Expr](ExprValueOps, Literal{Val: NewInteger(2)}, branches)
	if !found {
		t.Fatal("expected found=true: the second branch is a catch-all")
	}
	if !body.Equal(Literal{Val: NewInteger(999)}) {
		t.Errorf("body = %v, want Literal(999)", Serialize(body))
	}
}

func TestSolveMatchAppliesInDescendingSlotOrder(t *testing.T) {
	// Body is wrapped as Lambda(Lambda(App(LambdaVar(1), LambdaVar(0))))
	// by the converter for a two-slot pattern; solving should feed
	// slot 1 in first (innermost), then slot 0 (outermost).
	body := Lambda{Body: Lambda{Body: App{Fn: LambdaVar(1), Arg: LambdaVar(0)}}}
	env := Env[Expr]{0: Literal{Val: NewInteger(10)}, 1: Literal{Val: NewInteger(20)}}
	got := SolveMatch(env, body, 2)
	budget := NewBudget(10)
	normalized, err := Normalize(got, budget, nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := App{Fn: Literal{Val: NewInteger(20)}, Arg: Literal{Val: NewInteger(10)}}
	if !normalized.Equal(want) {
		t.Errorf("normalized = %v, want %v", Serialize(normalized), Serialize(want))
	}
}
