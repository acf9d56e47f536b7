package books

import "time"

// ===== Requests =====

type CreateBookRequest struct {
	ISBN      string  `json:"isbn"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher *string `json:"publisher,omitempty"`
	Category  *string `json:"category,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type UpdateBookRequest struct {
	ISBN      *string `json:"isbn,omitempty"`
	Title     *string `json:"title,omitempty"`
	Author    *string `json:"author,omitempty"`
	Publisher *string `json:"publisher,omitempty"`
	Category  *string `json:"category,omitempty"`
	Status    *string `json:"status,omitempty"`
}

// ===== Responses =====

// 旧APIのJSON形（camelCase・null許容フィールドはnullのまま出す）を維持すること
type BookResponse struct {
	BookID     int64      `json:"bookID"`
	ISBN       string     `json:"isbn"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Publisher  *string    `json:"publisher"`
	Category   *string    `json:"category"`
	Status     string     `json:"status"`
	CreateDate *time.Time `json:"createDate"`
}

// NewBookResponse: 行→レスポンス変換。records 側の埋め込みでも使う
func NewBookResponse(b *Book) BookResponse {
	resp := BookResponse{
		BookID: b.BookID,
		ISBN:   b.ISBN,
		Title:  b.Title,
		Author: b.Author,
		Status: b.Status,
	}
	if b.Publisher.Valid {
		v := b.Publisher.String
		resp.Publisher = &v
	}
	if b.Category.Valid {
		v := b.Category.String
		resp.Category = &v
	}
	if b.CreateDate.Valid {
		t := b.CreateDate.Time
		resp.CreateDate = &t
	}
	return resp
}

type SummaryStatsResponse struct {
	TotalBooks     int64 `json:"totalBooks"`
	BorrowedBooks  int64 `json:"borrowedBooks"`
	AvailableBooks int64 `json:"availableBooks"`
}

type CategoryStatResponse struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
