package corelc

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Serialize produces the deterministic S-expression-like textual
// encoding of spec.md §4.8, used only as a cache key: any
// implementation producing byte-identical output for a given Expr is
// conformant. Grounded on the teacher's own delimited-string escaping
// convention in untyped.go/fullsimple.go's token scanners, adapted to
// single-quote-delimited strings with backslash-escaping of `'`/`\`.
func Serialize(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case App:
		b.WriteString("App(")
		writeExpr(b, e.Fn)
		b.WriteByte(',')
		writeExpr(b, e.Arg)
		b.WriteByte(')')

	case ExternalVar:
		fmt.Fprintf(b, "ExternalVar(%s,%s,%s)", quote(string(e.Pack)), quote(string(e.Name)), quote(e.Typ))

	case Match:
		b.WriteString("Match(")
		writeExpr(b, e.Scrutinee)
		for _, br := range e.Branches {
			b.WriteByte(',')
			writePattern(b, br.Pat)
			b.WriteByte(',')
			writeExpr(b, br.Body)
		}
		b.WriteByte(')')

	case LambdaVar:
		fmt.Fprintf(b, "LambdaVar(%d)", int(e))

	case Lambda:
		b.WriteString("Lambda(")
		writeExpr(b, e.Body)
		b.WriteByte(')')

	case Struct:
		// spec.md §4.8's grammar writes Struct(<tag>,<arg1>,...) with
		// no family field; DataFamily is round-tripped here as an
		// extra leading integer so Parse(Serialize(e)) == e holds for
		// P7 even for non-Enum families (see DESIGN.md).
		fmt.Fprintf(b, "Struct(%d,%d", e.Tag, int(e.Family))
		for _, a := range e.Args {
			b.WriteByte(',')
			writeExpr(b, a)
		}
		b.WriteByte(')')

	case Literal:
		writeLit(b, e.Val)

	case Recursion:
		b.WriteString("Recursion(")
		writeExpr(b, e.Inner)
		b.WriteByte(')')

	default:
		panic("corelc: writeExpr: unknown Expr kind")
	}
}

func writeLit(b *strings.Builder, l Lit) {
	switch l := l.(type) {
	case Integer:
		fmt.Fprintf(b, "Literal(%s)", l.Val.String())
	case String:
		fmt.Fprintf(b, "Literal(%s)", quote(l.Val))
	default:
		panic("corelc: writeLit: unknown Lit kind")
	}
}

func writePattern(b *strings.Builder, p Pattern) {
	switch p := p.(type) {
	case WildCard:
		b.WriteString("WildCard")

	case PatLiteral:
		writeLit(b, p.Val)

	case Var:
		fmt.Fprintf(b, "Var(%d)", p.Name)

	case Named:
		fmt.Fprintf(b, "Named(%d,", p.Name)
		writePattern(b, p.Inner)
		b.WriteByte(')')

	case ListPat:
		b.WriteString("ListPat(")
		for i, part := range p.Parts {
			if i > 0 {
				b.WriteByte(',')
			}
			switch part := part.(type) {
			case Splice:
				if part.Name == nil {
					b.WriteString("Left()")
				} else {
					fmt.Fprintf(b, "Left(%d)", *part.Name)
				}
			case Item:
				b.WriteString("Right(")
				writePattern(b, part.Pat)
				b.WriteByte(')')
			}
		}
		b.WriteByte(')')

	case PositionalStruct:
		b.WriteString("PositionalStruct(")
		if p.Tag == nil {
			b.WriteString("_")
		} else {
			fmt.Fprintf(b, "%d", *p.Tag)
		}
		fmt.Fprintf(b, ",%d", int(p.Family))
		for _, sub := range p.Params {
			b.WriteByte(',')
			writePattern(b, sub)
		}
		b.WriteByte(')')

	case Union:
		b.WriteString("Union(")
		writePattern(b, p.Head)
		for _, arm := range p.Rest {
			b.WriteByte(',')
			writePattern(b, arm)
		}
		b.WriteByte(')')

	case StrPat:
		b.WriteString("StrPat(")
		parts := lo.Map(p.Parts, func(part StrPart, _ int) string {
			var sb strings.Builder
			switch part := part.(type) {
			case WildStr:
				sb.WriteString("WildStr")
			case NamedStr:
				fmt.Fprintf(&sb, "NamedStr(%d)", part.Name)
			case LitStr:
				sb.WriteString("LitStr(")
				sb.WriteString(quote(part.Val))
				sb.WriteByte(')')
			}
			return sb.String()
		})
		b.WriteString(strings.Join(parts, ","))
		b.WriteByte(')')

	default:
		panic("corelc: writePattern: unknown Pattern kind")
	}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

// Parse parses the textual encoding written by Serialize back into an
// Expr, for P7's round-trip property.
func Parse(s string) (Expr, error) {
	p := &parser{s: s}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipComma()
	if p.pos != len(p.s) {
		return nil, errIllFormed("trailing input at offset %d", p.pos)
	}
	return e, nil
}

// ParsePattern parses the textual encoding written by writePattern.
func ParsePattern(s string) (Pattern, error) {
	p := &parser{s: s}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.s) {
		return nil, errIllFormed("trailing input at offset %d", p.pos)
	}
	return pat, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) skipComma() {
	if p.pos < len(p.s) && p.s[p.pos] == ',' {
		p.pos++
	}
}

func (p *parser) expect(tok string) error {
	if !strings.HasPrefix(p.s[p.pos:], tok) {
		return errIllFormed("expected %q at offset %d", tok, p.pos)
	}
	p.pos += len(tok)
	return nil
}

func (p *parser) peekIdent() string {
	start := p.pos
	for p.pos < len(p.s) && (isAlnum(p.s[p.pos])) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func isAlnum(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func (p *parser) parseQuoted() (string, error) {
	if p.pos >= len(p.s) || p.s[p.pos] != '\'' {
		return "", errIllFormed("expected quoted string at offset %d", p.pos)
	}
	p.pos++
	var b strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '\\' && p.pos+1 < len(p.s) {
			b.WriteByte(p.s[p.pos+1])
			p.pos += 2
			continue
		}
		if c == '\'' {
			p.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", errIllFormed("unterminated quoted string")
}

func (p *parser) parseInt() (int, error) {
	start := p.pos
	if p.pos < len(p.s) && (p.s[p.pos] == '-' || p.s[p.pos] == '+') {
		p.pos++
	}
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, errIllFormed("expected integer at offset %d", p.pos)
	}
	n, err := strconv.Atoi(p.s[start:p.pos])
	if err != nil {
		return 0, errIllFormed("bad integer at offset %d: %v", p.pos, err)
	}
	return n, nil
}

func (p *parser) parseBigInt() (Integer, error) {
	start := p.pos
	if p.pos < len(p.s) && (p.s[p.pos] == '-' || p.s[p.pos] == '+') {
		p.pos++
	}
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return Integer{}, errIllFormed("expected integer literal at offset %d", p.pos)
	}
	n, ok := new(big.Int).SetString(p.s[start:p.pos], 10)
	if !ok {
		return Integer{}, errIllFormed("bad integer literal at offset %d", p.pos)
	}
	return Integer{Val: n}, nil
}

func (p *parser) parseExpr() (Expr, error) {
	tag := p.peekIdent()
	switch tag {
	case "App":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		fn, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipComma()
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return App{Fn: fn, Arg: arg}, nil

	case "ExternalVar":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		pack, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		p.skipComma()
		name, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		p.skipComma()
		typ, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return ExternalVar{Pack: PackageName(pack), Name: Identifier(name), Typ: typ}, nil

	case "Match":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		scrutinee, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		var branches []Branch
		for p.pos < len(p.s) && p.s[p.pos] == ',' {
			p.pos++
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			p.skipComma()
			body, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			branches = append(branches, Branch{Pat: pat, Body: body})
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return Match{Scrutinee: scrutinee, Branches: branches}, nil

	case "LambdaVar":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return LambdaVar(n), nil

	case "Lambda":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return Lambda{Body: body}, nil

	case "Struct":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		tagN, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		p.skipComma()
		familyN, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		var args []Expr
		for p.pos < len(p.s) && p.s[p.pos] == ',' {
			p.pos++
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return Struct{Tag: tagN, Args: args, Family: DataFamily(familyN)}, nil

	case "Literal":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		var val Lit
		if p.pos < len(p.s) && p.s[p.pos] == '\'' {
			s, err := p.parseQuoted()
			if err != nil {
				return nil, err
			}
			val = String{Val: s}
		} else {
			n, err := p.parseBigInt()
			if err != nil {
				return nil, err
			}
			val = n
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return Literal{Val: val}, nil

	case "Recursion":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return Recursion{Inner: inner}, nil

	default:
		return nil, errIllFormed("unknown Expr tag %q at offset %d", tag, p.pos)
	}
}

func (p *parser) parsePattern() (Pattern, error) {
	tag := p.peekIdent()
	switch tag {
	case "WildCard":
		return WildCard{}, nil

	case "Literal":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		var val Lit
		if p.pos < len(p.s) && p.s[p.pos] == '\'' {
			s, err := p.parseQuoted()
			if err != nil {
				return nil, err
			}
			val = String{Val: s}
		} else {
			n, err := p.parseBigInt()
			if err != nil {
				return nil, err
			}
			val = n
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return PatLiteral{Val: val}, nil

	case "Var":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return Var{Name: n}, nil

	case "Named":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		p.skipComma()
		inner, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return Named{Name: n, Inner: inner}, nil

	case "ListPat":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		var parts []ListPart
		for p.pos < len(p.s) && p.s[p.pos] != ')' {
			sub := p.peekIdent()
			switch sub {
			case "Left":
				if err := p.expect("("); err != nil {
					return nil, err
				}
				var name *int
				if p.pos < len(p.s) && p.s[p.pos] != ')' {
					n, err := p.parseInt()
					if err != nil {
						return nil, err
					}
					name = &n
				}
				if err := p.expect(")"); err != nil {
					return nil, err
				}
				parts = append(parts, Splice{Name: name})
			case "Right":
				if err := p.expect("("); err != nil {
					return nil, err
				}
				inner, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				if err := p.expect(")"); err != nil {
					return nil, err
				}
				parts = append(parts, Item{Pat: inner})
			default:
				return nil, errIllFormed("unknown ListPart tag %q at offset %d", sub, p.pos)
			}
			p.skipComma()
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return ListPat{Parts: parts}, nil

	case "PositionalStruct":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		var tagN *int
		if p.pos < len(p.s) && p.s[p.pos] == '_' {
			p.pos++
		} else {
			n, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			tagN = &n
		}
		p.skipComma()
		familyN, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		var params []Pattern
		for p.pos < len(p.s) && p.s[p.pos] == ',' {
			p.pos++
			sub, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			params = append(params, sub)
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return PositionalStruct{Tag: tagN, Params: params, Family: DataFamily(familyN)}, nil

	case "Union":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		head, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var rest []Pattern
		for p.pos < len(p.s) && p.s[p.pos] == ',' {
			p.pos++
			arm, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			rest = append(rest, arm)
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return Union{Head: head, Rest: rest}, nil

	case "StrPat":
		if err := p.expect("("); err != nil {
			return nil, err
		}
		var parts []StrPart
		for p.pos < len(p.s) && p.s[p.pos] != ')' {
			sub := p.peekIdent()
			switch sub {
			case "WildStr":
				parts = append(parts, WildStr{})
			case "NamedStr":
				if err := p.expect("("); err != nil {
					return nil, err
				}
				n, err := p.parseInt()
				if err != nil {
					return nil, err
				}
				if err := p.expect(")"); err != nil {
					return nil, err
				}
				parts = append(parts, NamedStr{Name: n})
			case "LitStr":
				if err := p.expect("("); err != nil {
					return nil, err
				}
				s, err := p.parseQuoted()
				if err != nil {
					return nil, err
				}
				if err := p.expect(")"); err != nil {
					return nil, err
				}
				parts = append(parts, LitStr{Val: s})
			default:
				return nil, errIllFormed("unknown StrPart tag %q at offset %d", sub, p.pos)
			}
			p.skipComma()
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return StrPat{Parts: parts}, nil

	default:
		return nil, errIllFormed("unknown Pattern tag %q at offset %d", tag, p.pos)
	}
}
