package books

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bookshelf-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(sqldb *sql.DB) *Store { return &Store{db: sqldb} }

const bookColumns = `book_id, isbn, title, author, publisher, category, status, create_date`

type rowScanner interface{ Scan(dest ...any) error }

func scanBook(rs rowScanner) (*Book, error) {
	var b Book
	if err := rs.Scan(
		&b.BookID, &b.ISBN, &b.Title, &b.Author,
		&b.Publisher, &b.Category, &b.Status, &b.CreateDate,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

// ===== reads =====

// 登録順（book_id昇順）で全件。ページングなし（旧API互換）
func (s *Store) ListBooks(ctx context.Context) ([]Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books ORDER BY book_id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) GetBookByID(ctx context.Context, id int64) (*Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books WHERE book_id = ?`
	return scanBook(s.db.QueryRowContext(ctx, q, id))
}

func getBookByIDTx(ctx context.Context, tx db.DBTX, id int64) (*Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books WHERE book_id = ?`
	return scanBook(tx.QueryRowContext(ctx, q, id))
}

// タイトルまたは著者の部分一致（照合順序はDB既定に従う）
func (s *Store) SearchBooks(ctx context.Context, keyword string) ([]Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books
	WHERE title LIKE CONCAT('%', ?, '%') OR author LIKE CONCAT('%', ?, '%')
	ORDER BY book_id`
	rows, err := s.db.QueryContext(ctx, q, keyword, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ===== writes =====

func (s *Store) InsertBook(ctx context.Context, in CreateBookRequest, status string) (*Book, error) {
	var out *Book
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const q = `
		INSERT INTO books (isbn, title, author, publisher, category, status, create_date)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`
		res, err := tx.ExecContext(ctx, q, in.ISBN, in.Title, in.Author, in.Publisher, in.Category, status)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		out, err = getBookByIDTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateBookByID(ctx context.Context, id int64, in UpdateBookRequest) (*Book, error) {
	var out *Book
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		// 同値更新だと RowsAffected が0になるので、存在確認は先にやる
		if _, err := getBookByIDTx(ctx, tx, id); err != nil {
			return err
		}

		sets := []string{}
		args := []any{}
		if in.ISBN != nil {
			sets = append(sets, "isbn = ?")
			args = append(args, *in.ISBN)
		}
		if in.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *in.Title)
		}
		if in.Author != nil {
			sets = append(sets, "author = ?")
			args = append(args, *in.Author)
		}
		if in.Publisher != nil {
			sets = append(sets, "publisher = ?")
			args = append(args, *in.Publisher)
		}
		if in.Category != nil {
			sets = append(sets, "category = ?")
			args = append(args, *in.Category)
		}
		if in.Status != nil {
			sets = append(sets, "status = ?")
			args = append(args, *in.Status)
		}

		if len(sets) > 0 {
			args = append(args, id)
			q := fmt.Sprintf(`UPDATE books SET %s WHERE book_id = ?`, strings.Join(sets, ", "))
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
		}

		var err error
		out, err = getBookByIDTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// 削除は「未返却の貸出が無いこと」を同一Txで確認してから行う。
// 返却済みの履歴はあえて消さない（履歴側の book_id は参照切れになる）。
func (s *Store) DeleteBookByID(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := getBookByIDTx(ctx, tx, id); err != nil {
			return err
		}

		var active int64
		const qActive = `SELECT COUNT(*) FROM borrow_records WHERE book_id = ? AND return_date IS NULL`
		if err := tx.QueryRowContext(ctx, qActive, id).Scan(&active); err != nil {
			return err
		}
		if active > 0 {
			return ErrConflict("book has unreturned loans and cannot be deleted")
		}

		_, err := tx.ExecContext(ctx, `DELETE FROM books WHERE book_id = ?`, id)
		return err
	})
}

// ===== stats =====

// 2つのCOUNTを同一スナップショットで読むため read-only Tx にまとめる
func (s *Store) SummaryCounts(ctx context.Context) (total, borrowed int64, err error) {
	err = db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM books WHERE status = ?`, StatusBorrowed).Scan(&borrowed)
	})
	return total, borrowed, err
}

type categoryCount struct {
	Category sql.NullString
	Count    int64
}

// GROUP BY の並びは保証されないので明示的にソートしておく（NULLは先頭）
func (s *Store) CategoryCounts(ctx context.Context) ([]categoryCount, error) {
	const q = `SELECT category, COUNT(*) FROM books GROUP BY category ORDER BY category`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []categoryCount{}
	for rows.Next() {
		var cc categoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		list = append(list, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
