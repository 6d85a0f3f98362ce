package ast

type (
	// главные сущности
	FileID uint32
	DeclID uint32
	StmtID uint32
	ExprID uint32
	TypeID uint32
	// подсущности
	VarID      uint32
	ParamID    uint32
	AttrID     uint32
	AccessorID uint32
)

const (
	NoFileID     FileID     = 0
	NoDeclID     DeclID     = 0
	NoStmtID     StmtID     = 0
	NoExprID     ExprID     = 0
	NoTypeID     TypeID     = 0
	NoVarID      VarID      = 0
	NoParamID    ParamID    = 0
	NoAttrID     AttrID     = 0
	NoAccessorID AccessorID = 0
)

func (id FileID) IsValid() bool     { return id != NoFileID }
func (id DeclID) IsValid() bool     { return id != NoDeclID }
func (id StmtID) IsValid() bool     { return id != NoStmtID }
func (id ExprID) IsValid() bool     { return id != NoExprID }
func (id TypeID) IsValid() bool     { return id != NoTypeID }
func (id VarID) IsValid() bool      { return id != NoVarID }
func (id ParamID) IsValid() bool    { return id != NoParamID }
func (id AttrID) IsValid() bool     { return id != NoAttrID }
func (id AccessorID) IsValid() bool { return id != NoAccessorID }
