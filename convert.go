package corelc

import (
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"slices"
)

// RecKind distinguishes a let-binding's recursion kind, per spec.md
// §6's external interface.
type RecKind int

const (
	NonRecursive RecKind = iota
	Recursive
)

// ConstructorSig is what the converter needs to know about a data
// constructor: its tag, declared arity, and family (spec.md §6).
type ConstructorSig struct {
	Tag    int
	Arity  int
	Family DataFamily
}

// ConstructorLookup is the subset of the type-checker's output the
// converter consumes for constructor references (spec.md §6).
type ConstructorLookup interface {
	LookupConstructor(pack PackageName, name Identifier) (ConstructorSig, bool)
}

// LetBinding is one top-level package-level binding, as the converter
// receives it from the type-checker (spec.md §6).
type LetBinding struct {
	Name    Identifier
	RecKind RecKind
	Expr    Surface
}

// PackageDecls lets the converter enumerate and look up a package's
// top-level let-bindings (spec.md §6).
type PackageDecls interface {
	Bindings(pack PackageName) []LetBinding
	Lookup(pack PackageName, name Identifier) (LetBinding, bool)
}

// Surface is the typed, name-resolved AST node the converter consumes
// — the "TypedProgram" input named in spec.md §1. Surface parsing,
// lexing, and type inference are out of scope; this is the minimal
// contract the converter needs from those upstream phases.
type Surface interface {
	isSurface()
}

type SLocal struct{ Name Identifier }
type SGlobal struct {
	Pack PackageName
	Name Identifier
}
type SLambda struct {
	Param Identifier
	Body  Surface
}
type SApp struct{ Fn, Arg Surface }
type SLet struct {
	Name  Identifier
	Rec   RecKind
	Value Surface
	Body  Surface
}
type SMatch struct {
	Scrutinee Surface
	Branches  []SBranch
}
type SLiteral struct{ Val Lit }
type SCtorRef struct {
	Pack PackageName
	Name Identifier
}
type SExternal struct {
	Pack PackageName
	Name Identifier
	Typ  string
}
type SImport struct {
	Pack PackageName
	Name Identifier
}

func (SLocal) isSurface()    {}
func (SGlobal) isSurface()   {}
func (SLambda) isSurface()   {}
func (SApp) isSurface()      {}
func (SLet) isSurface()      {}
func (SMatch) isSurface()    {}
func (SLiteral) isSurface()  {}
func (SCtorRef) isSurface()  {}
func (SExternal) isSurface() {}
func (SImport) isSurface()   {}

// SBranch is one surface-level match arm; its pattern names are
// surface identifiers, mapped to the dense [0,n) slot numbering of
// spec.md §3 by CompilePattern.
type SBranch struct {
	Pat  SurfacePattern
	Body Surface
}

// SurfacePattern mirrors Pattern but with surface-level string names
// instead of resolved slot indices.
type SurfacePattern interface {
	isSurfacePattern()
}

type SWildCard struct{}
type SPatLiteral struct{ Val Lit }
type SVar struct{ Name Identifier }
type SNamed struct {
	Name  Identifier
	Inner SurfacePattern
}
type SListPart interface{ isSListPart() }
type SSplice struct{ Name *Identifier }
type SItem struct{ Pat SurfacePattern }
type SListPat struct{ Parts []SListPart }
type SPositionalStruct struct {
	Tag    *int
	Params []SurfacePattern
	Family DataFamily
}
type SUnion struct {
	Head SurfacePattern
	Rest []SurfacePattern
}
type SStrPart interface{ isSStrPart() }
type SWildStr struct{}
type SNamedStr struct{ Name Identifier }
type SLitStr struct{ Val string }
type SStrPat struct{ Parts []SStrPart }

func (SWildCard) isSurfacePattern()         {}
func (SPatLiteral) isSurfacePattern()       {}
func (SVar) isSurfacePattern()              {}
func (SNamed) isSurfacePattern()            {}
func (SListPat) isSurfacePattern()          {}
func (SPositionalStruct) isSurfacePattern() {}
func (SUnion) isSurfacePattern()            {}
func (SStrPat) isSurfacePattern()           {}
func (SSplice) isSListPart()                {}
func (SItem) isSListPart()                  {}
func (SWildStr) isSStrPart()                {}
func (SNamedStr) isSStrPart()               {}
func (SLitStr) isSStrPart()                 {}

// ExprTag is the converter's output augmentation of spec.md §3: an IR
// term plus the set of structurally referenced subterms, keyed by
// their stable Serialize form (so structurally equal Exprs collapse
// to one entry, satisfying P8's closure property).
type ExprTag struct {
	IR       Expr
	Children map[string]Expr
}

func leafTag(e Expr) ExprTag {
	return ExprTag{IR: e, Children: map[string]Expr{}}
}

// combineTags folds the children of subs into a new tag for e: the
// result's children are the union of every sub's children plus each
// sub's own IR (spec.md §4.7: "the union of child tags' children plus
// the child's own IR").
func combineTags(e Expr, subs ...ExprTag) ExprTag {
	children := make(map[string]Expr)
	for _, s := range subs {
		for k, v := range s.Children {
			children[k] = v
		}
		children[Serialize(s.IR)] = s.IR
	}
	return ExprTag{IR: e, Children: children}
}

type memoKey struct {
	Pack PackageName
	Name Identifier
}

// Converter translates a typed, name-resolved surface AST plus a
// package map into the let-free IR of spec.md §3, normalizing each
// top-level binding as it is produced and memoizing by (package,
// name) (spec.md §4.7, §5).
//
// Grounded on fullsimple.go's Context/addBinding/pickFreshName
// environment-threading style (a name-to-slot map carried through
// recursive conversion), generalized to the (name_map, lambda_stack)
// environment spec.md §4.7 specifies.
type Converter struct {
	Ctors  ConstructorLookup
	Decls  PackageDecls
	Budget int // step budget for each Normalize call (one per Lambda/App/Match node and binding), not pooled per binding; 0 means DefaultBudget
	Logger *zap.Logger

	memo map[memoKey]ExprTag
}

func NewConverter(ctors ConstructorLookup, decls PackageDecls, logger *zap.Logger) *Converter {
	return &Converter{
		Ctors:  ctors,
		Decls:  decls,
		Logger: orNop(logger),
		memo:   make(map[memoKey]ExprTag),
	}
}

// convEnv is the (name_map, lambda_stack) environment of spec.md §4.7.
// nameMap entries are fully resolved IR Exprs reused by reference;
// they are shifted whenever a new Lambda is entered so they stay
// valid at the deeper context. lambdaStack is the list of in-scope
// local binder names, most-recently-pushed first, mapping to LambdaVar
// indices by position (top of stack = LambdaVar(0)).
type convEnv struct {
	nameMap     map[Identifier]Expr
	lambdaStack []Identifier
}

func emptyEnv() convEnv {
	return convEnv{nameMap: map[Identifier]Expr{}}
}

// pushLambda prepends name to the lambda stack, so the stack reads
// innermost-first — the same convention fullsimple.go's addBinding
// uses for its Context slice (prepend, index 0 = nearest binder),
// which is what lets lookupLambdaVar below reuse slices.IndexFunc
// as a direct forward scan.
func (e convEnv) pushLambda(name Identifier) convEnv {
	shifted := make(map[Identifier]Expr, len(e.nameMap))
	for k, v := range e.nameMap {
		shifted[k] = Shift(v, 0)
	}
	stack := make([]Identifier, len(e.lambdaStack)+1)
	stack[0] = name
	copy(stack[1:], e.lambdaStack)
	return convEnv{nameMap: shifted, lambdaStack: stack}
}

func (e convEnv) withName(name Identifier, value Expr) convEnv {
	nameMap := make(map[Identifier]Expr, len(e.nameMap)+1)
	for k, v := range e.nameMap {
		nameMap[k] = v
	}
	nameMap[name] = value
	return convEnv{nameMap: nameMap, lambdaStack: e.lambdaStack}
}

// lookupLambdaVar finds name's de Bruijn index via the same
// slices.IndexFunc scan fullsimple.go's isBound/addBinding use against
// its Context list; the stack's innermost-first ordering (pushLambda)
// means the index IndexFunc returns is already the LambdaVar index.
func (e convEnv) lookupLambdaVar(name Identifier) (int, bool) {
	i := slices.IndexFunc(e.lambdaStack, func(n Identifier) bool { return n == name })
	if i < 0 {
		return 0, false
	}
	return i, true
}

func (c *Converter) budget() *Budget {
	n := c.Budget
	if n <= 0 {
		n = DefaultBudget
	}
	return NewBudget(n)
}

func (c *Converter) normalize(e Expr) (Expr, error) {
	return Normalize(e, c.budget(), c.Logger)
}

// ConvertBinding converts and memoizes the top-level binding
// (pack, name), returning its ExprTag. Top-level bindings in a
// package are expected to be processed in declaration order so that
// references to earlier bindings see populated memo entries (§5); a
// forward reference triggers an eager recursive conversion instead.
func (c *Converter) ConvertBinding(pack PackageName, name Identifier) (ExprTag, error) {
	key := memoKey{Pack: pack, Name: name}
	if tag, ok := c.memo[key]; ok {
		c.Logger.Debug("convert: memo hit", zap.String("package", string(pack)), zap.String("name", string(name)))
		return tag, nil
	}
	binding, ok := c.Decls.Lookup(pack, name)
	if !ok {
		return ExprTag{}, errIllFormed("unknown binding %s.%s", pack, name)
	}

	var tag ExprTag
	var err error
	if binding.RecKind == Recursive {
		env := emptyEnv().pushLambda(name)
		inner, innerErr := c.convertExpr(env, binding.Expr)
		if innerErr != nil {
			return ExprTag{}, innerErr
		}
		wrapped := combineTags(Recursion{Inner: Lambda{Body: inner.IR}}, inner)
		normalized, nerr := c.normalize(wrapped.IR)
		if nerr != nil {
			return ExprTag{}, nerr
		}
		tag = ExprTag{IR: normalized, Children: wrapped.Children}
	} else {
		inner, innerErr := c.convertExpr(emptyEnv(), binding.Expr)
		if innerErr != nil {
			return ExprTag{}, innerErr
		}
		normalized, nerr := c.normalize(inner.IR)
		if nerr != nil {
			return ExprTag{}, nerr
		}
		tag = ExprTag{IR: normalized, Children: inner.Children}
	}
	if err != nil {
		return ExprTag{}, err
	}

	c.memo[key] = tag
	c.Logger.Debug("convert: memo store",
		zap.String("package", string(pack)),
		zap.String("name", string(name)),
		zap.Int("children", len(tag.Children)),
		zap.Strings("memo_keys_sample", maps.Keys(sampleStrings(c.memo))),
	)
	return tag, nil
}

func sampleStrings(m map[memoKey]ExprTag) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[string(k.Pack)+"."+string(k.Name)] = struct{}{}
	}
	return out
}

// convertExpr implements the per-node conversion rules of spec.md
// §4.7.
func (c *Converter) convertExpr(env convEnv, s Surface) (ExprTag, error) {
	switch s := s.(type) {
	case SLocal:
		if idx, ok := env.lookupLambdaVar(s.Name); ok {
			return leafTag(LambdaVar(idx)), nil
		}
		if v, ok := env.nameMap[s.Name]; ok {
			return leafTag(v), nil
		}
		return ExprTag{}, errIllFormed("unresolved local variable %q", s.Name)

	case SGlobal:
		if v, ok := env.nameMap[s.Name]; ok {
			return leafTag(v), nil
		}
		return c.ConvertBinding(s.Pack, s.Name)

	case SLambda:
		inner := env.pushLambda(s.Param)
		body, err := c.convertExpr(inner, s.Body)
		if err != nil {
			return ExprTag{}, err
		}
		built := combineTags(Lambda{Body: body.IR}, body)
		normalized, err := c.normalize(built.IR)
		if err != nil {
			return ExprTag{}, err
		}
		return ExprTag{IR: normalized, Children: built.Children}, nil

	case SApp:
		fn, err := c.convertExpr(env, s.Fn)
		if err != nil {
			return ExprTag{}, err
		}
		arg, err := c.convertExpr(env, s.Arg)
		if err != nil {
			return ExprTag{}, err
		}
		built := combineTags(App{Fn: fn.IR, Arg: arg.IR}, fn, arg)
		normalized, err := c.normalize(built.IR)
		if err != nil {
			return ExprTag{}, err
		}
		return ExprTag{IR: normalized, Children: built.Children}, nil

	case SLet:
		if s.Rec == Recursive {
			inner := env.pushLambda(s.Name)
			value, err := c.convertExpr(inner, s.Value)
			if err != nil {
				return ExprTag{}, err
			}
			wrapped := combineTags(Recursion{Inner: Lambda{Body: value.IR}}, value)
			bodyEnv := env.withName(s.Name, wrapped.IR)
			body, err := c.convertExpr(bodyEnv, s.Body)
			if err != nil {
				return ExprTag{}, err
			}
			merged := combineTags(body.IR, wrapped, body)
			return ExprTag{IR: merged.IR, Children: merged.Children}, nil
		}
		value, err := c.convertExpr(env, s.Value)
		if err != nil {
			return ExprTag{}, err
		}
		bodyEnv := env.withName(s.Name, value.IR)
		body, err := c.convertExpr(bodyEnv, s.Body)
		if err != nil {
			return ExprTag{}, err
		}
		merged := combineTags(body.IR, value, body)
		return ExprTag{IR: merged.IR, Children: merged.Children}, nil

	case SMatch:
		scrutinee, err := c.convertExpr(env, s.Scrutinee)
		if err != nil {
			return ExprTag{}, err
		}
		branches := make([]Branch, len(s.Branches))
		subs := []ExprTag{scrutinee}
		for i, sb := range s.Branches {
			names := collectPatternNames(sb.Pat)
			benv := env
			for i := len(names) - 1; i >= 0; i-- {
				benv = benv.pushLambda(names[i])
			}
			pat := compilePattern(names, sb.Pat)
			body, err := c.convertExpr(benv, sb.Body)
			if err != nil {
				return ExprTag{}, err
			}
			wrappedBody := body.IR
			for range names {
				wrappedBody = Lambda{Body: wrappedBody}
			}
			branches[i] = Branch{Pat: pat, Body: wrappedBody}
			subs = append(subs, body)
		}
		built := combineTags(Match{Scrutinee: scrutinee.IR, Branches: branches}, subs...)
		normalized, err := c.normalize(built.IR)
		if err != nil {
			return ExprTag{}, err
		}
		return ExprTag{IR: normalized, Children: built.Children}, nil

	case SLiteral:
		return leafTag(Literal{Val: s.Val}), nil

	case SCtorRef:
		sig, ok := c.Ctors.LookupConstructor(s.Pack, s.Name)
		if !ok {
			return ExprTag{}, errIllFormed("unknown constructor %s.%s", s.Pack, s.Name)
		}
		return leafTag(SynthesizeConstructor(sig.Tag, sig.Arity, sig.Family)), nil

	case SExternal:
		return leafTag(ExternalVar{Pack: s.Pack, Name: s.Name, Typ: s.Typ}), nil

	case SImport:
		return c.ConvertBinding(s.Pack, s.Name)

	default:
		return ExprTag{}, errIllFormed("unknown Surface node %T", s)
	}
}

// collectPatternNames walks a surface pattern left to right and
// returns its bound names in first-occurrence order, establishing the
// dense names.indexOf(name) numbering of spec.md §3.
func collectPatternNames(p SurfacePattern) []Identifier {
	var names []Identifier
	seen := map[Identifier]bool{}
	add := func(id Identifier) {
		if !seen[id] {
			seen[id] = true
			names = append(names, id)
		}
	}
	var walk func(SurfacePattern)
	walk = func(p SurfacePattern) {
		switch p := p.(type) {
		case SVar:
			add(p.Name)
		case SNamed:
			add(p.Name)
			walk(p.Inner)
		case SListPat:
			for _, part := range p.Parts {
				switch part := part.(type) {
				case SSplice:
					if part.Name != nil {
						add(*part.Name)
					}
				case SItem:
					walk(part.Pat)
				}
			}
		case SPositionalStruct:
			for _, sub := range p.Params {
				walk(sub)
			}
		case SUnion:
			// All arms bind the same names by construction; only the
			// head needs to be walked.
			walk(p.Head)
		case SStrPat:
			for _, part := range p.Parts {
				if ns, ok := part.(SNamedStr); ok {
					add(ns.Name)
				}
			}
		}
	}
	walk(p)
	return names
}

// indexOf mirrors lookupLambdaVar's use of slices.IndexFunc, applied
// here to the first-occurrence name list collectPatternNames builds.
func indexOf(names []Identifier, name Identifier) int {
	return slices.IndexFunc(names, func(n Identifier) bool { return n == name })
}

// compilePattern lowers a SurfacePattern into a Pattern, mapping
// surface names to their dense slot index via names.indexOf (spec.md
// §3).
func compilePattern(names []Identifier, p SurfacePattern) Pattern {
	switch p := p.(type) {
	case SWildCard:
		return WildCard{}
	case SPatLiteral:
		return PatLiteral{Val: p.Val}
	case SVar:
		return Var{Name: indexOf(names, p.Name)}
	case SNamed:
		return Named{Name: indexOf(names, p.Name), Inner: compilePattern(names, p.Inner)}
	case SListPat:
		parts := make([]ListPart, len(p.Parts))
		for i, part := range p.Parts {
			switch part := part.(type) {
			case SSplice:
				var idx *int
				if part.Name != nil {
					n := indexOf(names, *part.Name)
					idx = &n
				}
				parts[i] = Splice{Name: idx}
			case SItem:
				parts[i] = Item{Pat: compilePattern(names, part.Pat)}
			}
		}
		compiled, err := NewListPat(parts)
		if err != nil {
			panic(err)
		}
		return compiled
	case SPositionalStruct:
		params := make([]Pattern, len(p.Params))
		for i, sub := range p.Params {
			params[i] = compilePattern(names, sub)
		}
		return PositionalStruct{Tag: p.Tag, Params: params, Family: p.Family}
	case SUnion:
		rest := make([]Pattern, len(p.Rest))
		for i, arm := range p.Rest {
			rest[i] = compilePattern(names, arm)
		}
		u, err := NewUnion(compilePattern(names, p.Head), rest)
		if err != nil {
			panic(err)
		}
		return u
	case SStrPat:
		parts := make([]StrPart, len(p.Parts))
		for i, part := range p.Parts {
			switch part := part.(type) {
			case SWildStr:
				parts[i] = WildStr{}
			case SNamedStr:
				parts[i] = NamedStr{Name: indexOf(names, part.Name)}
			case SLitStr:
				parts[i] = LitStr{Val: part.Val}
			}
		}
		compiled, err := NewStrPat(parts)
		if err != nil {
			panic(err)
		}
		return compiled
	default:
		panic("corelc: compilePattern: unknown SurfacePattern kind")
	}
}
