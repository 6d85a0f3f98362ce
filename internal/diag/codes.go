package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005
	LexBadEscape                Code = 1006
	LexEmptyChar                Code = 1007

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedParen      Code = 2002
	SynUnclosedBrace      Code = 2003
	SynUnclosedBracket    Code = 2004
	SynExpectSemicolon    Code = 2005
	SynExpectIdentifier   Code = 2006
	SynExpectType         Code = 2007
	SynExpectExpression   Code = 2008
	SynUnexpectedTopLevel Code = 2009
	SynUnexpectedMember   Code = 2010
	SynDuplicateModifier  Code = 2011
	SynUnsupported        Code = 2012
	SynUsingAfterMember   Code = 2013
	SynExpectBody         Code = 2014
	SynBadAccessor        Code = 2015

	// Семантические
	SemaInfo             Code = 3000
	SemaTypeNotFound     Code = 3001
	SemaMemberNotFound   Code = 3002
	SemaAmbiguousType    Code = 3003
	SemaDuplicateType    Code = 3004
	SemaDuplicateMember  Code = 3005
	SemaVoidField        Code = 3006
	SemaLiteralMismatch  Code = 3007
	SemaDoubleToFloat    Code = 3008
	SemaNotGeneric       Code = 3009
	SemaNamespaceAsType  Code = 3010
	SemaDuplicateUsing   Code = 3011
	SemaUnusedField      Code = 3012
	SemaUnusedUsing      Code = 3013
	SemaAttributeNotType Code = 3014
	SemaDuplicateParam   Code = 3015
	SemaDuplicateLocal   Code = 3016
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unexpected character",
	LexUnterminatedString:       "Newline in constant",
	LexUnterminatedBlockComment: "End-of-file found, '*/' expected",
	LexBadNumber:                "Invalid number",
	LexUnterminatedChar:         "Unterminated character literal",
	LexBadEscape:                "Unrecognized escape sequence",
	LexEmptyChar:                "Empty character literal",

	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnclosedParen:      "')' expected",
	SynUnclosedBrace:      "'}' expected",
	SynUnclosedBracket:    "']' expected",
	SynExpectSemicolon:    "';' expected",
	SynExpectIdentifier:   "Identifier expected",
	SynExpectType:         "Type expected",
	SynExpectExpression:   "Invalid expression term",
	SynUnexpectedTopLevel: "Type or namespace definition, or end-of-file expected",
	SynUnexpectedMember:   "Invalid token in class, struct, or interface member declaration",
	SynDuplicateModifier:  "Duplicate modifier",
	SynUnsupported:        "Construct is outside the supported language subset",
	SynUsingAfterMember:   "A using clause must precede all other elements",
	SynExpectBody:         "Body or ';' expected",
	SynBadAccessor:        "A get or set accessor expected",

	SemaInfo:             "Semantic information",
	SemaTypeNotFound:     "The type or namespace name could not be found",
	SemaMemberNotFound:   "The type or namespace name does not exist in the namespace",
	SemaAmbiguousType:    "Ambiguous reference",
	SemaDuplicateType:    "The namespace already contains a definition",
	SemaDuplicateMember:  "The type already contains a definition",
	SemaVoidField:        "A field cannot have void type",
	SemaLiteralMismatch:  "Cannot implicitly convert type",
	SemaDoubleToFloat:    "Literal of type double cannot be implicitly converted to type 'float'",
	SemaNotGeneric:       "The non-generic type cannot be used with type arguments",
	SemaNamespaceAsType:  "Namespace is used like a type",
	SemaDuplicateUsing:   "The using directive appeared previously in this namespace",
	SemaUnusedField:      "The field is never used",
	SemaUnusedUsing:      "Unnecessary using directive",
	SemaAttributeNotType: "Attribute type could not be found",
	SemaDuplicateParam:   "The parameter name is a duplicate",
	SemaDuplicateLocal:   "A local variable with the same name is already defined in this scope",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsLexical reports whether the code belongs to the lexer range.
func (c Code) IsLexical() bool { return c >= 1000 && c < 2000 }

// IsSyntax reports whether the code belongs to the parser range.
func (c Code) IsSyntax() bool { return c >= 2000 && c < 3000 }

// IsSemantic reports whether the code belongs to the binder range.
func (c Code) IsSemantic() bool { return c >= 3000 && c < 4000 }
