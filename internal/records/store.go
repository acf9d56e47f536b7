package records

import (
	"context"
	"database/sql"

	"bookshelf-backend/internal/books"
	"bookshelf-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(sqldb *sql.DB) *Store { return &Store{db: sqldb} }

// 本は削除済みの可能性があるので LEFT JOIN で引く
const selectJoined = `
SELECT r.record_id, r.book_id, r.borrower_name,
	DATE_FORMAT(r.borrow_date, '%Y-%m-%d') AS borrow_date,
	DATE_FORMAT(r.return_date, '%Y-%m-%d') AS return_date,
	r.notes,
	b.book_id, b.isbn, b.title, b.author, b.publisher, b.category, b.status, b.create_date
FROM borrow_records r
LEFT JOIN books b ON b.book_id = r.book_id`

type joinedRecord struct {
	Rec  BorrowRecord
	Book *books.Book
}

type rowScanner interface{ Scan(dest ...any) error }

func scanJoined(rs rowScanner) (*joinedRecord, error) {
	var j joinedRecord
	var bookID sql.NullInt64
	var isbn, title, author, status sql.NullString
	var publisher, category sql.NullString
	var createDate sql.NullTime

	if err := rs.Scan(
		&j.Rec.RecordID, &j.Rec.BookID, &j.Rec.BorrowerName,
		&j.Rec.BorrowDate, &j.Rec.ReturnDate, &j.Rec.Notes,
		&bookID, &isbn, &title, &author, &publisher, &category, &status, &createDate,
	); err != nil {
		return nil, err
	}

	if bookID.Valid {
		j.Book = &books.Book{
			BookID:     bookID.Int64,
			ISBN:       isbn.String,
			Title:      title.String,
			Author:     author.String,
			Publisher:  publisher,
			Category:   category,
			Status:     status.String,
			CreateDate: createDate,
		}
	}
	return &j, nil
}

func (s *Store) ListRecords(ctx context.Context, f RecordFilter) ([]joinedRecord, error) {
	q := selectJoined + `
	WHERE 1=1`
	args := []any{}
	if f.BookID != nil {
		q += ` AND r.book_id = ?`
		args = append(args, *f.BookID)
	}
	if f.Active != nil {
		if *f.Active {
			q += ` AND r.return_date IS NULL`
		} else {
			q += ` AND r.return_date IS NOT NULL`
		}
	}
	q += ` ORDER BY r.record_id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []joinedRecord{}
	for rows.Next() {
		j, err := scanJoined(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) GetRecordByID(ctx context.Context, id int64) (*joinedRecord, error) {
	q := selectJoined + ` WHERE r.record_id = ?`
	return scanJoined(s.db.QueryRowContext(ctx, q, id))
}

// ===== Tx内で使う部品 =====

func bookExistsTx(ctx context.Context, tx db.DBTX, bookID int64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM books WHERE book_id = ?`, bookID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func insertRecordTx(ctx context.Context, tx db.DBTX, rec *BorrowRecord) error {
	const q = `
	INSERT INTO borrow_records (book_id, borrower_name, borrow_date, return_date, notes)
	VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rec.BookID, rec.BorrowerName, rec.BorrowDate, rec.ReturnDate, rec.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.RecordID = id
	return nil
}

func getRecordForUpdateTx(ctx context.Context, tx db.DBTX, id int64) (*BorrowRecord, error) {
	const q = `
	SELECT record_id, book_id, borrower_name,
		DATE_FORMAT(borrow_date, '%Y-%m-%d'), DATE_FORMAT(return_date, '%Y-%m-%d'), notes
	FROM borrow_records WHERE record_id = ? FOR UPDATE`
	var r BorrowRecord
	if err := tx.QueryRowContext(ctx, q, id).Scan(
		&r.RecordID, &r.BookID, &r.BorrowerName, &r.BorrowDate, &r.ReturnDate, &r.Notes,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func setReturnDateTx(ctx context.Context, tx db.DBTX, id int64, date string) error {
	_, err := tx.ExecContext(ctx, `UPDATE borrow_records SET return_date = ? WHERE record_id = ?`, date, id)
	return err
}
