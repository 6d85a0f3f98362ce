// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser -> binder). They guard against panics and hangs
// on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
