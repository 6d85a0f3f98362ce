package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/lexer"
	"udonc/internal/parser"
	"udonc/internal/source"
)

func TestFormatTree(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte("public int Count = 0;"))
	bag := diag.NewBag(10)
	rep := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, lexer.New(fs.Get(id), lexer.Options{Reporter: rep}), b, parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatal(diag.FormatShort(bag.Items(), fs, true))
	}

	var buf bytes.Buffer
	if err := FormatTree(&buf, b, res.File, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"NODE >CompilationUnit> public int Count = 0;\n",
		"NODE > FieldDeclaration> public int Count = 0;\n",
		"TOKEN>  PublicKeyword> public\n",
		"NODE >  PredefinedType> int\n",
		"TOKEN>    NumericLiteralToken> 0\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
}
