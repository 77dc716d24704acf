package corelc

import "testing"

func TestSynthesizeConstructorArity0(t *testing.T) {
	got := SynthesizeConstructor(0, 0, Enum)
	want := Struct{Tag: 0, Family: Enum}
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", Serialize(got), Serialize(want))
	}
}

func TestSynthesizeConstructorArity2(t *testing.T) {
	got := SynthesizeConstructor(1, 2, Enum)
	want := Lambda{Body: Lambda{Body: Struct{
		Tag:    1,
		Family: Enum,
		Args:   []Expr{LambdaVar(1), LambdaVar(0)},
	}}}
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", Serialize(got), Serialize(want))
	}
}

func TestSynthesizedConstructorAppliesInOrder(t *testing.T) {
	ctor := SynthesizeConstructor(1, 2, Enum)
	applied := App{Fn: App{Fn: ctor, Arg: Literal{Val: NewInteger(10)}}, Arg: Literal{Val: NewInteger(20)}}
	got, err := Normalize(applied, NewBudget(100), nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := Struct{Tag: 1, Family: Enum, Args: []Expr{Literal{Val: NewInteger(10)}, Literal{Val: NewInteger(20)}}}
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", Serialize(got), Serialize(want))
	}
}

func TestNatAndListHelpers(t *testing.T) {
	if !NatZero().Equal((Struct{Tag: 0, Family: Nat})) {
		t.Error("NatZero mismatch")
	}
	succ := NatSucc(NatZero())
	if !succ.Equal((Struct{Tag: 1, Family: Nat, Args: []Expr{NatZero()}})) {
		t.Error("NatSucc mismatch")
	}
	list := ListCons(Literal{Val: NewInteger(1)}, ListNil())
	want := Struct{Tag: 1, Family: Enum, Args: []Expr{Literal{Val: NewInteger(1)}, Struct{Tag: 0, Family: Enum}}}
	if !list.Equal(want) {
		t.Error("ListCons/ListNil mismatch")
	}
}
