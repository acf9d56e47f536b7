package books

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var csvHeader = []string{"bookID", "isbn", "title", "author", "publisher", "category", "status", "createDate"}

// ExportCSV: 蔵書一覧のCSVを生成する。
// encoding=sjis のときは cp932 に変換して返す（Excelでそのまま開ける形式）
func (s *Service) ExportCSV(ctx context.Context, encoding string) ([]byte, error) {
	if encoding != "utf8" && encoding != "sjis" {
		return nil, ErrInvalid("encoding must be utf8 or sjis")
	}

	items, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if encoding == "sjis" {
		w = csv.NewWriter(transform.NewWriter(&buf, japanese.ShiftJIS.NewEncoder()))
	}

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := range items {
		b := &items[i]
		rec := []string{
			strconv.FormatInt(b.BookID, 10),
			b.ISBN,
			b.Title,
			b.Author,
			b.Publisher.String,
			b.Category.String,
			b.Status,
			"",
		}
		if b.CreateDate.Valid {
			rec[len(rec)-1] = b.CreateDate.Time.Format(time.RFC3339)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
