package records

import "database/sql"

// DATE カラムは "YYYY-MM-DD" 文字列で持ち回る
const DateLayout = "2006-01-02"

// BorrowRecord は borrow_records テーブルの1行を表す
type BorrowRecord struct {
	RecordID     int64
	BookID       int64
	BorrowerName string
	BorrowDate   string
	ReturnDate   sql.NullString
	Notes        sql.NullString
}

// 一覧取得用の検索条件
type RecordFilter struct {
	BookID *int64
	Active *bool // true: 未返却のみ / false: 返却済みのみ
}
