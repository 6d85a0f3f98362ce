package parser

import (
	"testing"

	"udonc/internal/ast"
	"udonc/internal/token"
)

func methodBody(t *testing.T, body string) (parsed, []ast.StmtID) {
	t.Helper()
	p := parseOK(t, "class C { void M() {"+body+"} }")
	m := p.decl(p.classMembers(t)[0])
	return p, p.b.Stmts.Get(m.Body).Stmts
}

func TestStatementKinds(t *testing.T) {
	p, stmts := methodBody(t, `
        int count = 0;
        const float Speed = 2.5f;
        var t = transform;
        UnityEngine.Vector3 v;
        count++;
        count += 2;
        Debug.Log("hi");
        if (count > 3) return; else count = 0;
        while (count < 10) { count++; }
        do count--; while (count > 0);
        for (int i = 0, j = 1; i < 10; i++, j--) { }
        foreach (var x in items) { }
        { }
        ;
        break;
        continue;
        return;
    `)
	want := []ast.Kind{
		ast.LocalDeclarationStatement, ast.LocalDeclarationStatement, ast.LocalDeclarationStatement,
		ast.LocalDeclarationStatement, ast.ExpressionStatement, ast.ExpressionStatement,
		ast.ExpressionStatement, ast.IfStatement, ast.WhileStatement, ast.DoStatement,
		ast.ForStatement, ast.ForEachStatement, ast.Block, ast.EmptyStatement,
		ast.BreakStatement, ast.ContinueStatement, ast.ReturnStatement,
	}
	if len(stmts) != len(want) {
		t.Fatalf("statements = %d, want %d", len(stmts), len(want))
	}
	for i, k := range want {
		if got := p.b.Stmts.Get(stmts[i]).Kind; got != k {
			t.Fatalf("stmt %d = %v, want %v (%q)", i, got, k, p.text(p.b.Stmts.Get(stmts[i]).Span))
		}
	}
	if c := p.b.Stmts.Get(stmts[1]); !c.Mods.Has(ast.ModConst) {
		t.Fatalf("const local lost its modifier")
	}
	ifs := p.b.Stmts.Get(stmts[7])
	if !ifs.Else.IsValid() || p.text(ifs.Span) != "if (count > 3) return; else count = 0;" {
		t.Fatalf("if span = %q", p.text(ifs.Span))
	}
	loop := p.b.Stmts.Get(stmts[10])
	if len(loop.Init) != 1 || len(p.b.Stmts.Get(loop.Init[0]).Vars) != 2 || len(loop.Step) != 2 {
		t.Fatalf("for parts: init=%d step=%d", len(loop.Init), len(loop.Step))
	}
	fe := p.b.Stmts.Get(stmts[11])
	if fe.Name.Text != "x" {
		t.Fatalf("foreach var = %q", fe.Name.Text)
	}
}

func TestGenericInvocationVsComparison(t *testing.T) {
	p, stmts := methodBody(t, `
        var rb = GetComponent<Rigidbody>();
        bool b = a < c;
        bool d = x < y && y > z;
    `)
	init := func(i int) *ast.Expr {
		st := p.b.Stmts.Get(stmts[i])
		return p.b.Exprs.Get(p.b.Decls.Var(st.Vars[0]).Init)
	}
	call := init(0)
	if call.Kind != ast.InvocationExpression {
		t.Fatalf("GetComponent<Rigidbody>() = %v", call.Kind)
	}
	if callee := p.b.Exprs.Get(call.Left); len(callee.TypeArgs) != 1 {
		t.Fatalf("type argument lost")
	}
	if cmp := init(1); cmp.Kind != ast.BinaryExpression || cmp.Tok.Kind != token.Lt {
		t.Fatalf("a < c = %v", cmp.Kind)
	}
	if and := init(2); and.Tok.Kind != token.AndAnd {
		t.Fatalf("x < y && y > z parsed as %v %v", and.Kind, and.Tok.Kind)
	}
}

func TestShiftGluing(t *testing.T) {
	p, stmts := methodBody(t, "int a = b >> 2; a >>= 1;")
	first := p.b.Exprs.Get(p.b.Decls.Var(p.b.Stmts.Get(stmts[0]).Vars[0]).Init)
	if first.Tok.Kind != token.Shr {
		t.Fatalf("b >> 2 operator = %v", first.Tok.Kind)
	}
	second := p.b.Exprs.Get(p.b.Stmts.Get(stmts[1]).Expr)
	if second.Kind != ast.AssignmentExpression || second.Tok.Kind != token.ShrAssign {
		t.Fatalf("a >>= 1 = %v %v", second.Kind, second.Tok.Kind)
	}
}

func TestPrecedenceAndCasts(t *testing.T) {
	p, stmts := methodBody(t, `
        int a = 1 + 2 * 3;
        float f = (float)a / 2;
        int n = (int)-f;
        var s = flag ? "yes" : "no";
        var q = x ?? y ?? z;
        bool k = obj is Transform;
        var arr = new int[3];
        int[] lit = new int[] { 1, 2 };
        var o = new GameObject("x");
        var p2 = (a + b) * c;
        var e = items[0].name.Length;
    `)
	init := func(i int) *ast.Expr {
		st := p.b.Stmts.Get(stmts[i])
		return p.b.Exprs.Get(p.b.Decls.Var(st.Vars[0]).Init)
	}
	sum := init(0)
	if sum.Tok.Kind != token.Plus || p.b.Exprs.Get(sum.Right).Tok.Kind != token.Star {
		t.Fatalf("1 + 2 * 3 grouped wrong")
	}
	div := init(1)
	if div.Tok.Kind != token.Slash || p.b.Exprs.Get(div.Left).Kind != ast.CastExpression {
		t.Fatalf("(float)a / 2 = %v", div.Kind)
	}
	if neg := init(2); neg.Kind != ast.CastExpression {
		t.Fatalf("(int)-f = %v", neg.Kind)
	}
	if cond := init(3); cond.Kind != ast.ConditionalExpression {
		t.Fatalf("ternary = %v", cond.Kind)
	}
	if co := init(4); co.Tok.Kind != token.QuestionQuestion || p.b.Exprs.Get(co.Right).Tok.Kind != token.QuestionQuestion {
		t.Fatalf("?? must be right-associative")
	}
	if is := init(5); is.Tok.Kind != token.KwIs || !is.Type.IsValid() {
		t.Fatalf("is-expression lost its type")
	}
	if arr := init(6); arr.Kind != ast.ArrayCreationExpression || len(arr.Args) != 1 {
		t.Fatalf("new int[3] = %v", arr.Kind)
	}
	if lit := init(7); lit.Kind != ast.ArrayCreationExpression || len(lit.Args) != 2 {
		t.Fatalf("new int[] {1,2} = %v args=%d", lit.Kind, len(lit.Args))
	}
	if o := init(8); o.Kind != ast.ObjectCreationExpression || len(o.Args) != 1 {
		t.Fatalf("new GameObject(\"x\") = %v", o.Kind)
	}
	if par := init(9); p.b.Exprs.Get(par.Left).Kind != ast.ParenthesizedExpression {
		t.Fatalf("(a + b) must stay parenthesized, not a cast")
	}
	if e := init(10); e.Kind != ast.SimpleMemberAccessExpression || e.Name.Text != "Length" {
		t.Fatalf("member chain = %v", e.Kind)
	}
}

func TestExpressionStatementMustHaveEffect(t *testing.T) {
	p := parseSource(t, "class C { void M() { a + b; } }")
	if !p.bag.HasErrors() {
		t.Fatalf("a + b; is not a valid statement")
	}
}
