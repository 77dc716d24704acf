package corelc

import "testing"

func TestNormalizeReducesChildrenAfterHead(t *testing.T) {
	// App(id, App(id, 5)) should normalize to Literal(5): the outer beta
	// moves the inner redex to the head, where head reduction fires it
	// too.
	id := Lambda{Body: LambdaVar(0)}
	e := App{Fn: id, Arg: App{Fn: id, Arg: Literal{Val: NewInteger(5)}}}
	got, err := Normalize(e, NewBudget(100), nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !got.Equal(Literal{Val: NewInteger(5)}) {
		t.Errorf("got %v, want Literal(5)", Serialize(got))
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	e := App{Fn: Lambda{Body: LambdaVar(0)}, Arg: Literal{Val: NewInteger(2)}}
	once, err := Normalize(e, NewBudget(100), nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	twice, err := Normalize(once, NewBudget(100), nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !once.Equal(twice) {
		t.Errorf("Normalize is not idempotent: %v != %v", Serialize(once), Serialize(twice))
	}
}

func TestNormalizeStructArgs(t *testing.T) {
	e := Struct{
		Tag:    1,
		Family: Enum,
		Args: []Expr{
			App{Fn: Lambda{Body: LambdaVar(0)}, Arg: Literal{Val: NewInteger(1)}},
			App{Fn: Lambda{Body: LambdaVar(0)}, Arg: Literal{Val: NewInteger(2)}},
		},
	}
	got, err := Normalize(e, NewBudget(100), nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := Struct{Tag: 1, Family: Enum, Args: []Expr{Literal{Val: NewInteger(1)}, Literal{Val: NewInteger(2)}}}
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", Serialize(got), Serialize(want))
	}
}
