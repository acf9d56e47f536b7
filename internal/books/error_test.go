package books

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, toHTTPStatus(ErrInvalid("x")))
	assert.Equal(t, 404, toHTTPStatus(ErrNotFound("x")))
	assert.Equal(t, 400, toHTTPStatus(ErrConflict("x"))) // 409ではない（旧API互換）
	assert.Equal(t, 500, toHTTPStatus(ErrInternal("x")))
	assert.Equal(t, 500, toHTTPStatus(errors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "isbn is required", errorMessage(ErrInvalid("isbn is required")))
	assert.Equal(t, "boom", errorMessage(errors.New("boom")))
}

func TestNewBookResponse(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	full := &Book{
		BookID:     7,
		ISBN:       "111",
		Title:      "T",
		Author:     "A",
		Publisher:  sql.NullString{String: "P", Valid: true},
		Category:   sql.NullString{String: "C", Valid: true},
		Status:     StatusOnShelf,
		CreateDate: sql.NullTime{Time: now, Valid: true},
	}
	resp := NewBookResponse(full)
	assert.EqualValues(t, 7, resp.BookID)
	if assert.NotNil(t, resp.Publisher) {
		assert.Equal(t, "P", *resp.Publisher)
	}
	if assert.NotNil(t, resp.CreateDate) {
		assert.True(t, resp.CreateDate.Equal(now))
	}

	// NULLカラムはJSON上もnullになる（ポインタnil）
	sparse := &Book{BookID: 8, ISBN: "2", Title: "T", Author: "A", Status: StatusOnShelf}
	resp = NewBookResponse(sparse)
	assert.Nil(t, resp.Publisher)
	assert.Nil(t, resp.Category)
	assert.Nil(t, resp.CreateDate)
}
