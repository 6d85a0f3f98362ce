package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"udonc/internal/diag"
	"udonc/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("string s = \"unterminated\n")
	fileID := fs.AddVirtual("/home/user/project/Assets/Door.cs", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 11, End: 24}, "unterminated string literal"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/Assets/Door.cs"},
		{"Relative path", PathModeRelative, "Assets/Door.cs:1:12"},
		{"Basename only", PathModeBasename, "Door.cs:1:12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()
			for _, want := range []string{tt.contains, "ERROR", "LEX1002", "unterminated string literal"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, output)
				}
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"Door.cs", "Door.cs:"},
		{"/very/long/absolute/path/to/some/nested/directory/Door.cs", "Door.cs:"},
	}
	for _, tt := range tests {
		fs := source.NewFileSet()
		fileID := fs.AddVirtual(tt.path, []byte("int x = 42;\n"))
		bag := diag.NewBag(10)
		bag.Add(diag.New(diag.SevWarning, diag.SemaUnusedField, source.Span{File: fileID, Start: 4, End: 5}, "unused"))

		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{})
		output := buf.String()
		if !strings.HasPrefix(output, tt.expected) {
			t.Errorf("%s: expected output to start with %q, got:\n%s", tt.path, tt.expected, output)
		}
	}
}

func TestPrettySnippetAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("class A {\n    int x;\n    int x;\n}\n")
	fileID := fs.AddVirtual("A.cs", content)

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.SemaDuplicateMember, source.Span{File: fileID, Start: 29, End: 30},
		"the type 'A' already defines a definition named 'x'")
	d = d.WithNote(source.Span{File: fileID, Start: 18, End: 19}, "previous definition is here")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, Context: 1})
	want := strings.Join([]string{
		"A.cs:3:9: ERROR SEM3005: the type 'A' already defines a definition named 'x'",
		" 2 |     int x;",
		" 3 |     int x;",
		"   |         ^",
		" 4 | }",
		"  note: A.cs:2:9: previous definition is here",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestUnderlineWide(t *testing.T) {
	line := "string s = \"日本\";"
	from := strings.Index(line, "\"")
	got := underline(line, from, len(line)-1)
	if want := strings.Repeat(" ", 11) + "^~~~~~"; got != want {
		t.Fatalf("underline = %q, want %q", got, want)
	}
	if got := underline("\tx", 1, 2); got != "\t^" {
		t.Fatalf("tab underline = %q", got)
	}
}

func TestLineString(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("public int Count = 0;"))
	d := diag.New(diag.SevWarning, diag.SemaUnusedField, source.Span{File: fileID, Start: 11, End: 16}, "field 'Count' is never used")

	want := "[Warning:SEM3012] [11..16) field 'Count' is never used\nCount"
	if got := LineString(d, fs); got != want {
		t.Fatalf("LineString = %q, want %q", got, want)
	}

	bag := diag.NewBag(2)
	bag.Add(d)
	var buf bytes.Buffer
	if err := Line(&buf, bag, fs); err != nil {
		t.Fatal(err)
	}
	if buf.String() != want+"\n" {
		t.Fatalf("Line = %q", buf.String())
	}
}
