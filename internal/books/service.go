package books

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

// ===== CRUD =====

func (s *Service) ListBooks(ctx context.Context) ([]BookResponse, error) {
	items, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	return buildBookResponses(items), nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (BookResponse, error) {
	b, err := s.store.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BookResponse{}, ErrNotFound("book not found")
		}
		return BookResponse{}, err
	}
	return NewBookResponse(b), nil
}

func (s *Service) CreateBook(ctx context.Context, in CreateBookRequest) (BookResponse, error) {
	// 必須3項目。欠けているフィールド名をそのままエラーに出す（旧API互換）
	for _, f := range []struct {
		name  string
		value string
	}{
		{"isbn", in.ISBN},
		{"title", in.Title},
		{"author", in.Author},
	} {
		if strings.TrimSpace(f.value) == "" {
			return BookResponse{}, ErrInvalid(f.name + " is required")
		}
	}

	status := StatusOnShelf
	if in.Status != nil && *in.Status != "" {
		status = *in.Status
	}

	b, err := s.store.InsertBook(ctx, in, status)
	if err != nil {
		return BookResponse{}, err
	}
	return NewBookResponse(b), nil
}

func (s *Service) UpdateBook(ctx context.Context, id int64, in UpdateBookRequest) (BookResponse, error) {
	b, err := s.store.UpdateBookByID(ctx, id, in)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BookResponse{}, ErrNotFound("book not found")
		}
		return BookResponse{}, err
	}
	return NewBookResponse(b), nil
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	err := s.store.DeleteBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound("book not found")
		}
		return err
	}
	return nil
}

// 空キーワードは全件と同じ
func (s *Service) SearchBooks(ctx context.Context, keyword string) ([]BookResponse, error) {
	if keyword == "" {
		return s.ListBooks(ctx)
	}
	items, err := s.store.SearchBooks(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return buildBookResponses(items), nil
}

// ===== stats =====

func (s *Service) SummaryStats(ctx context.Context) (SummaryStatsResponse, error) {
	total, borrowed, err := s.store.SummaryCounts(ctx)
	if err != nil {
		return SummaryStatsResponse{}, err
	}
	return SummaryStatsResponse{
		TotalBooks:     total,
		BorrowedBooks:  borrowed,
		AvailableBooks: total - borrowed,
	}, nil
}

const uncategorizedLabel = "uncategorized"

func (s *Service) CategoryStats(ctx context.Context) ([]CategoryStatResponse, error) {
	counts, err := s.store.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := []CategoryStatResponse{}
	for _, cc := range counts {
		label := uncategorizedLabel
		if cc.Category.Valid {
			label = cc.Category.String
		}
		out = append(out, CategoryStatResponse{Category: label, Count: cc.Count})
	}
	return out, nil
}

// ===== helpers =====

func buildBookResponses(items []Book) []BookResponse {
	out := []BookResponse{}
	for i := range items {
		out = append(out, NewBookResponse(&items[i]))
	}
	return out
}
