package usecase

// 認証済みユーザーの情報。ミドルウェアがJWTから復元してハンドラ経由で渡す。
type Actor struct {
	UserID  int64
	IsStaff bool
}
