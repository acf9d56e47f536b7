package books

import "database/sql"

// status はDB上は自由文字列。アプリとしてはこの2値を使う
const (
	StatusOnShelf  = "on-shelf"
	StatusBorrowed = "borrowed"
)

// Book は books テーブルの1行を表す
type Book struct {
	BookID     int64
	ISBN       string
	Title      string
	Author     string
	Publisher  sql.NullString
	Category   sql.NullString
	Status     string
	CreateDate sql.NullTime
}
