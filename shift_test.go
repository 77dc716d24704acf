package corelc

import "testing"

func TestShift(t *testing.T) {
	tests := []struct {
		name   string
		expr   Expr
		cutoff int
		want   Expr
	}{
		{"below cutoff untouched", LambdaVar(0), 1, LambdaVar(0)},
		{"at cutoff shifts up", LambdaVar(1), 1, LambdaVar(2)},
		{"lambda raises the cutoff for its body", Lambda{Body: LambdaVar(0)}, 0, Lambda{Body: LambdaVar(0)}},
		{"lambda shifts an escaping free var", Lambda{Body: LambdaVar(1)}, 0, Lambda{Body: LambdaVar(2)}},
		{"literal is inert", Literal{Val: NewInteger(7)}, 0, Literal{Val: NewInteger(7)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Shift(tc.expr, tc.cutoff)
			if !got.Equal(tc.want) {
				t.Errorf("Shift(%v, %d) = %v, want %v", Serialize(tc.expr), tc.cutoff, Serialize(got), Serialize(tc.want))
			}
		})
	}
}

func TestShiftMatchBranchUsesSameCutoff(t *testing.T) {
	// The branch body is already Lambda-wrapped by the converter, so a
	// Match must thread the same cutoff into each branch, not
	// cutoff+VarCount(pattern).
	m := Match{
		Scrutinee: LambdaVar(0),
		Branches: []Branch{
			{Pat: Var{Name: 0}, Body: Lambda{Body: LambdaVar(1)}},
		},
	}
	got := Shift(m, 0).(Match)
	want := Lambda{Body: LambdaVar(2)}
	if !got.Branches[0].Body.Equal(want) {
		t.Errorf("branch body = %v, want %v", Serialize(got.Branches[0].Body), Serialize(want))
	}
	if !got.Scrutinee.Equal(LambdaVar(1)) {
		t.Errorf("scrutinee = %v, want LambdaVar(1)", Serialize(got.Scrutinee))
	}
}
