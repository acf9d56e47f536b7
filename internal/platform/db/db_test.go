package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("SECRET_KEY")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "no-such.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Mode)
	assert.Equal(t, defaultDSN, cfg.DSN)
	assert.Equal(t, defaultSecretKey, cfg.SecretKey)
}

func TestLoadConfigFromFile(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("SECRET_KEY")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
mode: release
database:
  host: db.example.com
  port: 3306
  user: app
  password: pw
  dbname: book_collection
secret_key: file-secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, "file-secret", cfg.SecretKey)
	assert.Contains(t, cfg.DSN, "app:pw@tcp(db.example.com:3306)/book_collection")
	assert.Contains(t, cfg.DSN, "parseTime=true")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pw@tcp(override:3306)/other?parseTime=true")
	t.Setenv("SECRET_KEY", "env-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "no-such.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "user:pw@tcp(override:3306)/other?parseTime=true", cfg.DSN)
	assert.Equal(t, "env-secret", cfg.SecretKey)
}

func TestLoadConfigBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: [broken"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

// MySQLが立っている環境でのみ実行される
func TestRunInTxRollback(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "root:123456@tcp(localhost:3306)/book_collection_test?parseTime=true"
	}

	conn, err := Connect(dsn)
	if err != nil {
		t.Skipf("skipping: could not connect to mysql: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, InitSchema(ctx, conn))
	_, err = conn.ExecContext(ctx, `DELETE FROM books`)
	require.NoError(t, err)

	// fnがエラーを返したらINSERTは巻き戻る
	wantErr := assert.AnError
	err = RunInTx(ctx, conn, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO books (isbn, title, author, status) VALUES ('111', 'T', 'A', 'on-shelf')`)
		require.NoError(t, err)
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	var n int64
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n))
	assert.EqualValues(t, 0, n)
}
