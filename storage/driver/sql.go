package driver

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"shortlist/config"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQLStorage 基于 database/sql 的存储，支持 SQLite 与 PostgreSQL
type SQLStorage struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLiteStorage 创建SQLite存储实例
func NewSQLiteStorage(cfg *config.StorageConfig) (*SQLStorage, error) {
	path := cfg.SQLite.Path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开SQLite失败: %w", err)
	}
	// SQLite 只允许单个写连接
	db.SetMaxOpenConns(1)

	return newSQLStorage(db, dialectSQLite)
}

// NewPostgresStorage 创建PostgreSQL存储实例
func NewPostgresStorage(cfg *config.StorageConfig) (*SQLStorage, error) {
	db, err := sql.Open("pgx", PostgresDSN(cfg.Postgres))
	if err != nil {
		return nil, fmt.Errorf("打开PostgreSQL连接失败: %w", err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return newSQLStorage(db, dialectPostgres)
}

// PostgresDSN 优先使用显式 DSN
func PostgresDSN(cfg config.PostgresConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)
}

func newSQLStorage(db *sql.DB, d dialect) (*SQLStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	s := &SQLStorage{db: db, dialect: d}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStorage) ensureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS shortlist_entries (
			studio_id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if s.dialect == dialectPostgres {
		ddl = `
		CREATE TABLE IF NOT EXISTS shortlist_entries (
			studio_id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Load 按收藏时间读取全部ID
func (s *SQLStorage) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT studio_id FROM shortlist_entries ORDER BY created_at, studio_id`)
	if err != nil {
		return nil, fmt.Errorf("query shortlist: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan shortlist: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Add 重复收藏不报错
func (s *SQLStorage) Add(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO shortlist_entries (studio_id) VALUES (?) ON CONFLICT (studio_id) DO NOTHING`), id)
	if err != nil {
		return fmt.Errorf("insert %q: %w", id, err)
	}
	return nil
}

// Remove 取消收藏
func (s *SQLStorage) Remove(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`DELETE FROM shortlist_entries WHERE studio_id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete %q: %w", id, err)
	}
	return nil
}

// Close 关闭存储
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// rebind 把 ? 占位符转换成 PostgreSQL 的 $n
func (s *SQLStorage) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
