package sema

import (
	"fmt"
	"math"

	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/lexer"
	"udonc/internal/refs"
	"udonc/internal/source"
	"udonc/internal/token"
)

// intRange is the value range of an integral keyword type.
type intRange struct {
	min int64
	max uint64
}

var intRanges = map[string]intRange{
	"sbyte":  {math.MinInt8, math.MaxInt8},
	"byte":   {0, math.MaxUint8},
	"short":  {math.MinInt16, math.MaxInt16},
	"ushort": {0, math.MaxUint16},
	"int":    {math.MinInt32, math.MaxInt32},
	"uint":   {0, math.MaxUint32},
	"long":   {math.MinInt64, math.MaxInt64},
	"ulong":  {0, math.MaxUint64},
}

// widening lists the implicit numeric conversions of a literal's natural type.
var widening = map[string][]string{
	"int":     {"long", "float", "double", "decimal"},
	"uint":    {"long", "ulong", "float", "double", "decimal"},
	"long":    {"float", "double", "decimal"},
	"ulong":   {"float", "double", "decimal"},
	"char":    {"ushort", "int", "uint", "long", "ulong", "float", "double", "decimal"},
	"float":   {"double"},
	"double":  {},
	"decimal": {},
}

// literal is a folded constant initializer: an optional sign and a literal token.
type literal struct {
	tok  token.Token
	neg  bool
	span source.Span
}

// foldLiteral unwraps parentheses and unary +/- around a literal.
func (bd *binder) foldLiteral(id ast.ExprID) (literal, bool) {
	e := bd.b.Exprs.Get(id)
	if e == nil {
		return literal{}, false
	}
	switch {
	case e.Kind.IsLiteral():
		return literal{tok: e.Tok, span: e.Span}, true
	case e.Kind == ast.ParenthesizedExpression:
		return bd.foldLiteral(e.Left)
	case e.Kind == ast.PrefixUnaryExpression && (e.Tok.Kind == token.Minus || e.Tok.Kind == token.Plus):
		inner, ok := bd.foldLiteral(e.Left)
		if !ok || (inner.tok.Kind != token.IntLit && inner.tok.Kind != token.RealLit) {
			return literal{}, false
		}
		if e.Tok.Kind == token.Minus {
			inner.neg = !inner.neg
		}
		inner.span = e.Span
		return inner, true
	}
	return literal{}, false
}

// checkInitializer reports a literal initializer that does not convert
// implicitly to the declared type. Non-literal initializers are not checked.
func (bd *binder) checkInitializer(target SymbolID, init ast.ExprID) {
	lit, ok := bd.foldLiteral(init)
	if !ok {
		return
	}
	t := bd.table.Get(target)
	if t == nil {
		return
	}
	nullable := false
	if t.Kind == SymbolNullable {
		nullable = true
		t = bd.table.Get(t.Elem)
	}
	if t.Kind == SymbolArray {
		if lit.tok.Kind != token.KwNull {
			bd.mismatch(lit, bd.naturalName(lit), bd.display(target))
		}
		return
	}
	if t.Kind != SymbolType || t.Keyword == "object" {
		return
	}

	switch lit.tok.Kind {
	case token.KwNull:
		if !nullable && t.TypeKind.IsValueType() {
			bd.errorf(diag.SemaLiteralMismatch, lit.span,
				fmt.Sprintf("cannot convert null to '%s' because it is a non-nullable value type", bd.display(target)))
		}
	case token.KwTrue, token.KwFalse:
		if t.Keyword != "bool" {
			bd.mismatch(lit, "bool", bd.display(target))
		}
	case token.StringLit:
		if t.Keyword != "string" {
			bd.mismatch(lit, "string", bd.display(target))
		}
	case token.CharLit:
		if t.Keyword != "char" && !widens("char", t.Keyword) {
			bd.mismatch(lit, "char", bd.display(target))
		}
	case token.IntLit:
		bd.checkIntLiteral(lit, t, target)
	case token.RealLit:
		bd.checkRealLiteral(lit, t, target)
	}
}

func widens(from, to string) bool {
	for _, w := range widening[from] {
		if w == to {
			return true
		}
	}
	return false
}

func (bd *binder) mismatch(lit literal, from, to string) {
	bd.errorf(diag.SemaLiteralMismatch, lit.span,
		fmt.Sprintf("cannot implicitly convert type '%s' to '%s'", from, to))
}

func (bd *binder) naturalName(lit literal) string {
	switch lit.tok.Kind {
	case token.IntLit:
		v, suffix, err := lexer.ParseInt(lit.tok.Text)
		if err != nil {
			return "int"
		}
		nt, _ := intNatural(v, suffix, lit.neg)
		return nt
	case token.RealLit:
		_, suffix, _ := lexer.ParseReal(lit.tok.Text)
		return realNatural(suffix)
	case token.StringLit:
		return "string"
	case token.CharLit:
		return "char"
	case token.KwTrue, token.KwFalse:
		return "bool"
	}
	return "<null>"
}

// intNatural returns the type of an integer literal after an optional
// negation; ok is false when '-' cannot apply (ulong operand).
func intNatural(v uint64, suffix lexer.IntSuffix, neg bool) (string, bool) {
	var nt string
	switch suffix {
	case lexer.SuffixNone:
		switch {
		case v <= math.MaxInt32:
			nt = "int"
		case v <= math.MaxUint32:
			nt = "uint"
		case v <= math.MaxInt64:
			nt = "long"
		default:
			nt = "ulong"
		}
	case lexer.SuffixU:
		nt = "uint"
		if v > math.MaxUint32 {
			nt = "ulong"
		}
	case lexer.SuffixL:
		nt = "long"
		if v > math.MaxInt64 {
			nt = "ulong"
		}
	default:
		nt = "ulong"
	}
	if !neg {
		return nt, true
	}
	switch {
	case nt == "uint" && v == -math.MinInt32:
		return "int", true
	case nt == "ulong" && v == -math.MinInt64:
		return "long", true
	case nt == "uint":
		return "long", true
	case nt == "ulong":
		return nt, false
	}
	return nt, true
}

func (bd *binder) checkIntLiteral(lit literal, t *Symbol, target SymbolID) {
	v, suffix, err := lexer.ParseInt(lit.tok.Text)
	if err != nil {
		bd.errorf(diag.SemaLiteralMismatch, lit.span, "integral constant is too large")
		return
	}
	nt, ok := intNatural(v, suffix, lit.neg)
	if !ok {
		bd.errorf(diag.SemaLiteralMismatch, lit.span,
			fmt.Sprintf("operator '-' cannot be applied to operand of type '%s'", nt))
		return
	}
	if t.TypeKind == refs.KindEnum {
		if v != 0 {
			bd.mismatch(lit, nt, bd.display(target))
		}
		return
	}
	kw := t.Keyword
	if kw == nt || widens(nt, kw) {
		return
	}
	if r, integral := intRanges[kw]; integral && (nt == "int" || (nt == "long" && kw == "ulong")) {
		// implicit constant conversion: the value must fit
		if fits(v, lit.neg, r) {
			return
		}
		text := lit.tok.Text
		if lit.neg {
			text = "-" + text
		}
		bd.errorf(diag.SemaLiteralMismatch, lit.span,
			fmt.Sprintf("constant value '%s' cannot be converted to a '%s'", text, kw))
		return
	}
	bd.mismatch(lit, nt, bd.display(target))
}

func fits(v uint64, neg bool, r intRange) bool {
	if !neg {
		return v <= r.max
	}
	if r.min == 0 {
		return v == 0
	}
	return v <= uint64(-(r.min + 1))+1
}

func realNatural(suffix lexer.RealSuffix) string {
	switch suffix {
	case lexer.RealF:
		return "float"
	case lexer.RealM:
		return "decimal"
	default:
		return "double"
	}
}

func (bd *binder) checkRealLiteral(lit literal, t *Symbol, target SymbolID) {
	_, suffix, err := lexer.ParseReal(lit.tok.Text)
	nt := realNatural(suffix)
	if err != nil {
		bd.errorf(diag.SemaLiteralMismatch, lit.span,
			fmt.Sprintf("floating-point constant is outside the range of type '%s'", nt))
		return
	}
	kw := t.Keyword
	switch {
	case kw == nt || widens(nt, kw):
	case kw == "float" && nt == "double":
		bd.errorf(diag.SemaDoubleToFloat, lit.span,
			"literal of type double cannot be implicitly converted to type 'float'; use an 'F' suffix to create a literal of this type")
	case kw == "decimal":
		bd.errorf(diag.SemaLiteralMismatch, lit.span,
			fmt.Sprintf("literal of type %s cannot be implicitly converted to type 'decimal'; use an 'M' suffix to create a literal of this type", nt))
	default:
		bd.mismatch(lit, nt, bd.display(target))
	}
}
