package corelc

import "testing"

func TestSubstitute(t *testing.T) {
	replacement := Literal{Val: NewInteger(9)}

	tests := []struct {
		name string
		expr Expr
		want Expr
	}{
		{"hits the target index", LambdaVar(0), replacement},
		{"above target compresses", LambdaVar(1), LambdaVar(0)},
		{"app substitutes the target and compresses an index above it", App{Fn: LambdaVar(0), Arg: LambdaVar(2)}, App{Fn: replacement, Arg: LambdaVar(1)}},
		{"lambda shifts the replacement and bumps idx", Lambda{Body: LambdaVar(1)}, Lambda{Body: replacement}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Substitute(tc.expr, replacement, 0)
			if !got.Equal(tc.want) {
				t.Errorf("Substitute(%v, _, 0) = %v, want %v", Serialize(tc.expr), Serialize(got), Serialize(tc.want))
			}
		})
	}
}

func TestSubstituteBetaReduceCurriedConst(t *testing.T) {
	// (\x. \y. x) 7 8  -->  (\y. 7) 8  -->  7
	id2 := Lambda{Body: Lambda{Body: LambdaVar(1)}}
	app1 := App{Fn: id2, Arg: Literal{Val: NewInteger(7)}}
	step1 := Substitute(id2.Body, app1.Arg, 0)
	want1 := Lambda{Body: Literal{Val: NewInteger(7)}}
	if !step1.Equal(want1) {
		t.Fatalf("step1 = %v, want %v", Serialize(step1), Serialize(want1))
	}
	step2 := Substitute(step1.(Lambda).Body, Literal{Val: NewInteger(8)}, 0)
	if !step2.Equal(Literal{Val: NewInteger(7)}) {
		t.Fatalf("step2 = %v, want Literal(7)", Serialize(step2))
	}
}

func TestSubstituteNilReplacementRequiresClosedTarget(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic substituting nil replacement for an occurring index")
		}
	}()
	Substitute(LambdaVar(0), nil, 0)
}

func TestSubstituteMatchBranchSameIdx(t *testing.T) {
	m := Match{
		Scrutinee: LambdaVar(0),
		Branches: []Branch{
			{Pat: Var{Name: 0}, Body: Lambda{Body: LambdaVar(1)}},
		},
	}
	got := Substitute(m, Literal{Val: NewInteger(5)}, 0).(Match)
	want := Lambda{Body: Literal{Val: NewInteger(5)}}
	if !got.Branches[0].Body.Equal(want) {
		t.Errorf("branch body = %v, want %v", Serialize(got.Branches[0].Body), Serialize(want))
	}
}
