package ast

// Kind: синтаксический вид узла. Имена совпадают с привычными именами
// SyntaxKind, их печатают трасса обхода и дамп дерева.
type Kind uint8

const (
	KindInvalid Kind = iota

	CompilationUnit
	UsingDirective
	NamespaceDeclaration

	// объявления типов
	ClassDeclaration
	StructDeclaration
	InterfaceDeclaration
	EnumDeclaration

	// члены
	FieldDeclaration
	MethodDeclaration
	PropertyDeclaration
	ConstructorDeclaration
	EnumMemberDeclaration
	VariableDeclarator
	Parameter
	Attribute
	GetAccessorDeclaration
	SetAccessorDeclaration

	// типы
	PredefinedType
	IdentifierName
	QualifiedName
	GenericName
	ArrayType
	NullableType

	// операторы
	Block
	LocalDeclarationStatement
	ExpressionStatement
	ReturnStatement
	IfStatement
	WhileStatement
	DoStatement
	ForStatement
	ForEachStatement
	BreakStatement
	ContinueStatement
	EmptyStatement

	// выражения
	NumericLiteralExpression
	StringLiteralExpression
	CharacterLiteralExpression
	TrueLiteralExpression
	FalseLiteralExpression
	NullLiteralExpression
	NameExpression
	ThisExpression
	BaseExpression
	ParenthesizedExpression
	SimpleMemberAccessExpression
	InvocationExpression
	ElementAccessExpression
	ObjectCreationExpression
	ArrayCreationExpression
	CastExpression
	TypeOfExpression
	ConditionalExpression
	PrefixUnaryExpression
	PostfixUnaryExpression
	BinaryExpression
	AssignmentExpression
	PredefinedTypeExpression

	kindCount
)

var kindNames = [...]string{
	KindInvalid:                  "Invalid",
	CompilationUnit:              "CompilationUnit",
	UsingDirective:               "UsingDirective",
	NamespaceDeclaration:         "NamespaceDeclaration",
	ClassDeclaration:             "ClassDeclaration",
	StructDeclaration:            "StructDeclaration",
	InterfaceDeclaration:         "InterfaceDeclaration",
	EnumDeclaration:              "EnumDeclaration",
	FieldDeclaration:             "FieldDeclaration",
	MethodDeclaration:            "MethodDeclaration",
	PropertyDeclaration:          "PropertyDeclaration",
	ConstructorDeclaration:       "ConstructorDeclaration",
	EnumMemberDeclaration:        "EnumMemberDeclaration",
	VariableDeclarator:           "VariableDeclarator",
	Parameter:                    "Parameter",
	Attribute:                    "Attribute",
	GetAccessorDeclaration:       "GetAccessorDeclaration",
	SetAccessorDeclaration:       "SetAccessorDeclaration",
	PredefinedType:               "PredefinedType",
	IdentifierName:               "IdentifierName",
	QualifiedName:                "QualifiedName",
	GenericName:                  "GenericName",
	ArrayType:                    "ArrayType",
	NullableType:                 "NullableType",
	Block:                        "Block",
	LocalDeclarationStatement:    "LocalDeclarationStatement",
	ExpressionStatement:          "ExpressionStatement",
	ReturnStatement:              "ReturnStatement",
	IfStatement:                  "IfStatement",
	WhileStatement:               "WhileStatement",
	DoStatement:                  "DoStatement",
	ForStatement:                 "ForStatement",
	ForEachStatement:             "ForEachStatement",
	BreakStatement:               "BreakStatement",
	ContinueStatement:            "ContinueStatement",
	EmptyStatement:               "EmptyStatement",
	NumericLiteralExpression:     "NumericLiteralExpression",
	StringLiteralExpression:      "StringLiteralExpression",
	CharacterLiteralExpression:   "CharacterLiteralExpression",
	TrueLiteralExpression:        "TrueLiteralExpression",
	FalseLiteralExpression:       "FalseLiteralExpression",
	NullLiteralExpression:        "NullLiteralExpression",
	NameExpression:               "IdentifierName",
	ThisExpression:               "ThisExpression",
	BaseExpression:               "BaseExpression",
	ParenthesizedExpression:      "ParenthesizedExpression",
	SimpleMemberAccessExpression: "SimpleMemberAccessExpression",
	InvocationExpression:         "InvocationExpression",
	ElementAccessExpression:      "ElementAccessExpression",
	ObjectCreationExpression:     "ObjectCreationExpression",
	ArrayCreationExpression:      "ArrayCreationExpression",
	CastExpression:               "CastExpression",
	TypeOfExpression:             "TypeOfExpression",
	ConditionalExpression:        "ConditionalExpression",
	PrefixUnaryExpression:        "PrefixUnaryExpression",
	PostfixUnaryExpression:       "PostfixUnaryExpression",
	BinaryExpression:             "BinaryExpression",
	AssignmentExpression:         "AssignmentExpression",
	PredefinedTypeExpression:     "PredefinedType",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Unknown"
}

// Category говорит, в какой арене Builder лежит узел этого вида.
type Category uint8

const (
	CatNone Category = iota
	CatFile
	CatDecl
	CatVar
	CatParam
	CatAttr
	CatAccessor
	CatType
	CatStmt
	CatExpr
)

func (k Kind) Category() Category {
	switch {
	case k == CompilationUnit:
		return CatFile
	case k >= UsingDirective && k <= EnumMemberDeclaration:
		return CatDecl
	case k == VariableDeclarator:
		return CatVar
	case k == Parameter:
		return CatParam
	case k == Attribute:
		return CatAttr
	case k == GetAccessorDeclaration || k == SetAccessorDeclaration:
		return CatAccessor
	case k >= PredefinedType && k <= NullableType:
		return CatType
	case k >= Block && k <= EmptyStatement:
		return CatStmt
	case k >= NumericLiteralExpression && k < kindCount:
		return CatExpr
	}
	return CatNone
}

// IsTypeDeclaration reports class, struct, interface and enum declarations.
func (k Kind) IsTypeDeclaration() bool {
	return k >= ClassDeclaration && k <= EnumDeclaration
}

// IsMember reports declarations that live inside a type body.
func (k Kind) IsMember() bool {
	return k >= FieldDeclaration && k <= EnumMemberDeclaration
}
