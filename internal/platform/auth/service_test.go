package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdb "bookshelf-backend/internal/platform/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "root:123456@tcp(localhost:3306)/book_collection_test?parseTime=true"
	}

	conn, err := pdb.Connect(dsn)
	if err != nil {
		t.Skipf("skipping: could not connect to mysql: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	require.NoError(t, pdb.InitSchema(ctx, conn))
	_, err = conn.ExecContext(ctx, `DELETE FROM auth_accounts`)
	require.NoError(t, err)
	return conn
}

func TestRegisterAndLogin(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewService(conn, testSecret)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "admin", "hunter2", "admin"))

	// 二重登録は弾く
	err := svc.Register(ctx, "admin", "other", "admin")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	token, err := svc.Login(ctx, "admin", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// 発行したトークンはRequireAuthを通る
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginFailures(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewService(conn, testSecret)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "admin", "hunter2", "admin"))

	_, err := svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrAuthFailed)

	_, err = svc.Login(ctx, "no-such-user", "hunter2")
	assert.ErrorIs(t, err, ErrAuthFailed)

	// 無効化されたアカウントは拒否
	_, err = conn.ExecContext(ctx, `UPDATE auth_accounts SET is_disabled = 1 WHERE id = 'admin'`)
	require.NoError(t, err)
	_, err = svc.Login(ctx, "admin", "hunter2")
	assert.Error(t, err)
}
