package corelc

import (
	"strings"
	"testing"
)

func TestSerializeRoundTripExpr(t *testing.T) {
	one := 1
	pat, err := NewListPat([]ListPart{Item{Pat: Var{Name: 0}}, Splice{Name: &one}})
	if err != nil {
		t.Fatalf("NewListPat: %v", err)
	}
	exprs := []Expr{
		Literal{Val: NewInteger(42)},
		Literal{Val: String{Val: "hello 'world'\\!"}},
		LambdaVar(3),
		Lambda{Body: App{Fn: LambdaVar(0), Arg: LambdaVar(0)}},
		ExternalVar{Pack: "pkg", Name: "f", Typ: "Int -> Int"},
		Struct{Tag: 1, Family: Nat, Args: []Expr{Literal{Val: NewInteger(1)}}},
		Recursion{Inner: Lambda{Body: LambdaVar(0)}},
		Match{
			Scrutinee: LambdaVar(0),
			Branches: []Branch{
				{Pat: pat, Body: Lambda{Body: Lambda{Body: LambdaVar(0)}}},
			},
		},
	}
	for _, e := range exprs {
		t.Run(Serialize(e), func(t *testing.T) {
			s := Serialize(e)
			got, err := Parse(s)
			if err != nil {
				t.Fatalf("Parse(%q): %v", s, err)
			}
			if !got.Equal(e) {
				t.Errorf("round trip mismatch: Parse(Serialize(e)) = %v, want %v", Serialize(got), s)
			}
		})
	}
}

func TestSerializeRoundTripPattern(t *testing.T) {
	tag := 2
	patterns := []Pattern{
		WildCard{},
		PatLiteral{Val: NewInteger(7)},
		Var{Name: 1},
		Named{Name: 0, Inner: Var{Name: 0}},
		mustListPat(t, Item{Pat: WildCard{}}, Splice{}),
		PositionalStruct{Tag: &tag, Family: Nat, Params: []Pattern{WildCard{}}},
		PositionalStruct{Family: StructFamily, Params: []Pattern{Var{Name: 0}}},
		mustUnion(t, PatLiteral{Val: NewInteger(1)}, PatLiteral{Val: NewInteger(2)}),
		mustStrPat(t, WildStr{}, NamedStr{Name: 0}, LitStr{Val: "tail"}),
	}
	for _, p := range patterns {
		var b strings.Builder
		writePattern(&b, p)
		s := b.String()
		got, err := ParsePattern(s)
		if err != nil {
			t.Fatalf("ParsePattern(%q): %v", s, err)
		}
		if !got.Equal(p) {
			t.Errorf("round trip mismatch for %q: got %v", s, got)
		}
	}
}

func mustStrPat(t *testing.T, parts ...StrPart) StrPat {
	t.Helper()
	p, err := NewStrPat(parts)
	if err != nil {
		t.Fatalf("NewStrPat: %v", err)
	}
	return p
}

func TestQuoteEscapesDelimitersAndBackslash(t *testing.T) {
	s := quote(`it's a \test`)
	got, err := (&parser{s: s}).parseQuoted()
	if err != nil {
		t.Fatalf("parseQuoted: %v", err)
	}
	if got != `it's a \test` {
		t.Errorf("got %q", got)
	}
}
