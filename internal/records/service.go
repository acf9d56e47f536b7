package records

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"bookshelf-backend/internal/books"
	"bookshelf-backend/internal/platform/db"
)

// テスト時に返却日を固定できるようにしておく
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	db    *sql.DB
	store *Store
	clock Clock
}

func NewService(sqldb *sql.DB) *Service {
	return &Service{db: sqldb, store: NewStore(sqldb), clock: realClock{}}
}

// 貸出登録。Book.status はここでは触らない（ステータスは手動更新の仕様）
func (s *Service) CreateRecord(ctx context.Context, req CreateRecordRequest) (*RecordResponse, error) {
	if req.BookID <= 0 {
		return nil, NewInvalidArgumentError("bookId is required")
	}
	if strings.TrimSpace(req.BorrowerName) == "" {
		return nil, NewInvalidArgumentError("borrowerName is required")
	}
	if req.BorrowDate == "" {
		return nil, NewInvalidArgumentError("borrowDate is required")
	}
	if _, err := time.ParseInLocation(DateLayout, req.BorrowDate, time.UTC); err != nil {
		return nil, NewInvalidArgumentError("invalid borrowDate format, expected YYYY-MM-DD")
	}

	rec := &BorrowRecord{
		BookID:       req.BookID,
		BorrowerName: req.BorrowerName,
		BorrowDate:   req.BorrowDate,
	}
	if req.ReturnDate != nil && *req.ReturnDate != "" {
		if _, err := time.ParseInLocation(DateLayout, *req.ReturnDate, time.UTC); err != nil {
			return nil, NewInvalidArgumentError("invalid returnDate format, expected YYYY-MM-DD")
		}
		rec.ReturnDate.String = *req.ReturnDate
		rec.ReturnDate.Valid = true
	}
	if req.Notes != nil && *req.Notes != "" {
		rec.Notes.String = *req.Notes
		rec.Notes.Valid = true
	}

	// 存在しない本への貸出は同一Txで弾く
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		ok, err := bookExistsTx(ctx, tx, req.BookID)
		if err != nil {
			return err
		}
		if !ok {
			return NewInvalidArgumentError("bookId does not reference an existing book")
		}
		return insertRecordTx(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecord(ctx, rec.RecordID)
}

func (s *Service) GetRecord(ctx context.Context, id int64) (*RecordResponse, error) {
	j, err := s.store.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("record not found")
		}
		return nil, err
	}
	resp := buildRecordResponse(j)
	return &resp, nil
}

func (s *Service) ListRecords(ctx context.Context, f RecordFilter) ([]RecordResponse, error) {
	items, err := s.store.ListRecords(ctx, f)
	if err != nil {
		return nil, err
	}

	result := []RecordResponse{}
	for i := range items {
		result = append(result, buildRecordResponse(&items[i]))
	}
	return result, nil
}

// 返却登録。既に返却済みならエラー。Book.status は触らない
func (s *Service) ReturnRecord(ctx context.Context, id int64, req ReturnRecordRequest) (*RecordResponse, error) {
	returnDate := s.clock.Now().Format(DateLayout)
	if req.ReturnDate != nil && *req.ReturnDate != "" {
		if _, err := time.ParseInLocation(DateLayout, *req.ReturnDate, time.UTC); err != nil {
			return nil, NewInvalidArgumentError("invalid returnDate format, expected YYYY-MM-DD")
		}
		returnDate = *req.ReturnDate
	}

	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		rec, err := getRecordForUpdateTx(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NewNotFoundError("record not found")
			}
			return err
		}
		if rec.ReturnDate.Valid {
			return NewConflictError("record is already returned")
		}
		return setReturnDateTx(ctx, tx, id, returnDate)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecord(ctx, id)
}

func buildRecordResponse(j *joinedRecord) RecordResponse {
	resp := RecordResponse{
		RecordID:     j.Rec.RecordID,
		BookID:       j.Rec.BookID,
		BorrowerName: j.Rec.BorrowerName,
		BorrowDate:   j.Rec.BorrowDate,
	}
	if j.Rec.ReturnDate.Valid {
		v := j.Rec.ReturnDate.String
		resp.ReturnDate = &v
	}
	if j.Rec.Notes.Valid {
		v := j.Rec.Notes.String
		resp.Notes = &v
	}
	if j.Book != nil {
		b := books.NewBookResponse(j.Book)
		resp.Book = &b
	}
	return resp
}
