package corelc

// ExprValueOps implements ValueOps[Expr], letting the pattern matcher
// of match.go inspect IR terms directly. Grounded on the teacher's
// isVal-style head inspection (untyped.go's isVal checks whether a
// Term is an Abs before permitting a beta); here the inspection is
// generalized from "is this an Abs" to the three capability hooks
// spec.md §6 names.
var ExprValueOps = ValueOps[Expr]{
	AsLiteral: func(v Expr) (Lit, bool) {
		lit, ok := v.(Literal)
		if !ok {
			return nil, false
		}
		return lit.Val, true
	},

	// A Struct whose Family does not match the requested family is
	// reported as NotProvable rather than NoMatch: DataFamily is only
	// an advisory marker (spec.md §3), so a mismatch does not let the
	// matcher soundly rule out every constructor of the requested
	// family.
	AsStruct: func(v Expr, family DataFamily) (int, []Expr, bool) {
		s, ok := v.(Struct)
		if !ok || s.Family != family {
			return 0, nil, false
		}
		return s.Tag, s.Args, true
	},

	AsList: func(v Expr) ([]Expr, bool) {
		var items []Expr
		for {
			s, ok := v.(Struct)
			if !ok || s.Family != Enum {
				return nil, false
			}
			switch s.Tag {
			case 0:
				return items, true
			case 1:
				items = append(items, s.Args[0])
				v = s.Args[1]
			default:
				return nil, false
			}
		}
	},

	FromList: func(items []Expr) Expr {
		result := Expr(Struct{Tag: 0, Args: nil, Family: Enum})
		for i := len(items) - 1; i >= 0; i-- {
			result = Struct{Tag: 1, Args: []Expr{items[i], result}, Family: Enum}
		}
		return result
	},
}
