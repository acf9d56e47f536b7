package records

import "bookshelf-backend/internal/books"

// 貸出登録リクエスト
type CreateRecordRequest struct {
	BookID       int64  `json:"bookId"`
	BorrowerName string `json:"borrowerName"`
	// "2006-01-02" 形式の文字列を想定（DATE）
	BorrowDate string  `json:"borrowDate"`
	ReturnDate *string `json:"returnDate,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// 返却リクエスト。日付省略時は当日（UTC）
type ReturnRecordRequest struct {
	ReturnDate *string `json:"returnDate,omitempty"`
}

// 貸出レスポンス。book には所属する蔵書を埋め込む（参照切れなら null）
type RecordResponse struct {
	RecordID     int64               `json:"recordID"`
	BookID       int64               `json:"bookID"`
	BorrowerName string              `json:"borrowerName"`
	BorrowDate   string              `json:"borrowDate"`
	ReturnDate   *string             `json:"returnDate"`
	Notes        *string             `json:"notes"`
	Book         *books.BookResponse `json:"book"`
}
