package token

import "strings"

var keywords = map[string]Kind{
	"abstract":  KwAbstract,
	"base":      KwBase,
	"bool":      KwBool,
	"break":     KwBreak,
	"byte":      KwByte,
	"case":      KwCase,
	"char":      KwChar,
	"class":     KwClass,
	"const":     KwConst,
	"continue":  KwContinue,
	"decimal":   KwDecimal,
	"default":   KwDefault,
	"do":        KwDo,
	"double":    KwDouble,
	"else":      KwElse,
	"enum":      KwEnum,
	"extern":    KwExtern,
	"false":     KwFalse,
	"float":     KwFloat,
	"for":       KwFor,
	"foreach":   KwForeach,
	"if":        KwIf,
	"in":        KwIn,
	"int":       KwInt,
	"interface": KwInterface,
	"internal":  KwInternal,
	"is":        KwIs,
	"long":      KwLong,
	"namespace": KwNamespace,
	"new":       KwNew,
	"null":      KwNull,
	"object":    KwObject,
	"out":       KwOut,
	"override":  KwOverride,
	"params":    KwParams,
	"private":   KwPrivate,
	"protected": KwProtected,
	"public":    KwPublic,
	"readonly":  KwReadonly,
	"ref":       KwRef,
	"return":    KwReturn,
	"sbyte":     KwSbyte,
	"sealed":    KwSealed,
	"short":     KwShort,
	"static":    KwStatic,
	"string":    KwString,
	"struct":    KwStruct,
	"switch":    KwSwitch,
	"this":      KwThis,
	"true":      KwTrue,
	"typeof":    KwTypeof,
	"uint":      KwUint,
	"ulong":     KwUlong,
	"ushort":    KwUshort,
	"using":     KwUsing,
	"virtual":   KwVirtual,
	"void":      KwVoid,
	"volatile":  KwVolatile,
	"while":     KwWhile,
}

var keywordText = func() map[Kind]string {
	out := make(map[Kind]string, len(keywords))
	for text, k := range keywords {
		out[k] = text
	}
	return out
}()

// LookupKeyword возвращает kind и true, если ident: зарезервированное слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// KeywordText returns the source spelling of a keyword kind.
func KeywordText(k Kind) (string, bool) {
	s, ok := keywordText[k]
	return s, ok
}

func keywordDisplay(lex string) string {
	return strings.ToUpper(lex[:1]) + lex[1:] + "Keyword"
}
