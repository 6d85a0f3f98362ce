package ast

import (
	"udonc/internal/source"
	"udonc/internal/token"
)

// File: корень разбора одного исходника (CompilationUnit).
type File struct {
	Span    source.Span
	Usings  []DeclID
	Members []DeclID // пространства имён и типы верхнего уровня
	EOF     token.Token
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{Span: sp}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
