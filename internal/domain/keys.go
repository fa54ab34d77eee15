package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyIdentity  CtxKey = "Identity"
	KeySessionID CtxKey = "SessionID"
)
