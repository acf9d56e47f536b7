package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

var createStmts = []string{
	`CREATE TABLE IF NOT EXISTS books (
		book_id     INT UNSIGNED NOT NULL AUTO_INCREMENT,
		isbn        VARCHAR(20)  NOT NULL,
		title       VARCHAR(200) NOT NULL,
		author      VARCHAR(100) NOT NULL,
		publisher   VARCHAR(100) NULL,
		category    VARCHAR(50)  NULL,
		status      VARCHAR(10)  NOT NULL DEFAULT 'on-shelf',
		create_date DATETIME     NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (book_id)
	)`,
	// book_id はアプリ側で整合性を取る（返却済み履歴を残したまま本を消せる仕様のため、DB側FKは張らない）
	`CREATE TABLE IF NOT EXISTS borrow_records (
		record_id     INT UNSIGNED NOT NULL AUTO_INCREMENT,
		book_id       INT UNSIGNED NOT NULL,
		borrower_name VARCHAR(50)  NOT NULL,
		borrow_date   DATE         NOT NULL,
		return_date   DATE         NULL,
		notes         VARCHAR(200) NULL,
		PRIMARY KEY (record_id),
		KEY idx_borrow_records_book_id (book_id)
	)`,
	`CREATE TABLE IF NOT EXISTS auth_accounts (
		id            VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(128) NOT NULL,
		role          VARCHAR(20)  NOT NULL DEFAULT '',
		is_disabled   TINYINT(1)   NOT NULL DEFAULT 0,
		created_at    DATETIME(6)  NOT NULL,
		PRIMARY KEY (id)
	)`,
}

// InitSchema: 接続確認・テーブル作成・初期データ投入まで行う。
// 何度呼んでも安全（冪等）。
func InitSchema(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("DB疎通確認に失敗: %w", err)
	}

	for _, q := range createStmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("テーブル作成に失敗: %w", err)
		}
	}

	if err := seedBooks(ctx, db); err != nil {
		return fmt.Errorf("初期データ投入に失敗: %w", err)
	}
	return nil
}

// seedBooks: books が空のときだけサンプル3冊を入れる
func seedBooks(ctx context.Context, db *sql.DB) error {
	var n int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	const q = `
	INSERT INTO books (isbn, title, author, publisher, category, status, create_date)
	VALUES
		('9787115546081', '软件工程', '张三', '清华大学出版社', '计算机', 'on-shelf', CURRENT_TIMESTAMP),
		('9787121361972', 'Java编程思想', '李四', '电子工业出版社', '计算机', 'on-shelf', CURRENT_TIMESTAMP),
		('9787544291170', '百年孤独', '加西亚·马尔克斯', '南海出版公司', '文学', 'on-shelf', CURRENT_TIMESTAMP)`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return err
	}
	log.Println("[INFO] seeded sample books")
	return nil
}
