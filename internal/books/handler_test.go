package books

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIRouter(conn *sql.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	RegisterRoutes(api, NewService(conn))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// 登録→取得→削除→404 の一連の流れ
func TestBookLifecycleHTTP(t *testing.T) {
	conn := setupTestDB(t)
	r := newAPIRouter(conn)

	w := doJSON(t, r, http.MethodPost, "/api/books", `{"isbn":"111","title":"A","author":"B"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, StatusOnShelf, created.Status)
	assert.NotZero(t, created.BookID)

	// JSONのキー形は旧API互換（camelCase）
	assert.Contains(t, w.Body.String(), `"bookID"`)
	assert.Contains(t, w.Body.String(), `"createDate"`)

	path := "/api/books/" + itoa(created.BookID)
	w = doJSON(t, r, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.BookID, got.BookID)
	assert.Equal(t, "A", got.Title)

	w = doJSON(t, r, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message"`)

	w = doJSON(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestCreateBookHTTPValidation(t *testing.T) {
	conn := setupTestDB(t)
	r := newAPIRouter(conn)

	// ボディなし
	w := doJSON(t, r, http.MethodPost, "/api/books", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 必須フィールド欠け
	w = doJSON(t, r, http.MethodPost, "/api/books", `{"title":"A","author":"B"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "isbn is required")
}

func TestDeleteBookHTTPConflictIs400(t *testing.T) {
	conn := setupTestDB(t)
	r := newAPIRouter(conn)

	w := doJSON(t, r, http.MethodPost, "/api/books", `{"isbn":"111","title":"A","author":"B"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	_, err := conn.Exec(`
		INSERT INTO borrow_records (book_id, borrower_name, borrow_date, return_date)
		VALUES (?, 'bob', '2026-03-01', NULL)`, created.BookID)
	require.NoError(t, err)

	w = doJSON(t, r, http.MethodDelete, "/api/books/"+itoa(created.BookID), "")
	assert.Equal(t, http.StatusBadRequest, w.Code) // 409ではない
	assert.Contains(t, w.Body.String(), "unreturned")
}

func TestStaticRoutesWinOverParam(t *testing.T) {
	conn := setupTestDB(t)
	r := newAPIRouter(conn)

	// /books/search や /books/stats/* が :book_id に食われないこと
	w := doJSON(t, r, http.MethodGet, "/api/books/search?keyword=x", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/books/stats/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalBooks"`)

	w = doJSON(t, r, http.MethodGet, "/api/books/stats/category", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/books/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
