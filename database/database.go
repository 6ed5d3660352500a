// Package database, SQLite bağlantısını ve migration sistemini yönetir.
//
// Store işlemleri tamamen statement bazlıdır: her UPDATE/INSERT kendi
// başına atomiktir. Yetki/ban/içerik kontrolleri advisory'dir
// (oku-sonra-yaz) — transaction gerektiren tek yer mesaj append +
// lastActivity güncellemesidir, o da repository içinde tek tx'te yapılır.
package database

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver — CGO gerekmez
)

// DB, veritabanı bağlantısını saran struct.
// *sql.DB kendi connection pool'unu yönetir, thread-safe'dir.
type DB struct {
	Conn *sql.DB
}

// New, SQLite bağlantısı açar ve migration'ları çalıştırır.
//
// dbPath: SQLite dosya yolu (ör: "./data/enkryptonite.db").
// migrationsFS: Migration SQL dosyalarını içeren fs.FS (embed.FS).
func New(dbPath string, migrationsFS fs.FS) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// foreign_keys: SQLite'ta varsayılan kapalı — chat_members/messages
	// cascade'leri için gerekli. WAL: eşzamanlı okuma/yazma performansı.
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn}

	if err := db.runMigrations(migrationsFS); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[database] connected and migrations applied")
	return db, nil
}

// Close, veritabanı bağlantısını kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// runMigrations, migration dosyalarını alfabetik sırayla çalıştırır
// (001_init.sql, 002_..., ...). schema_migrations tablosu hangi
// dosyaların uygulandığını takip eder — uygulanmış olanlar atlanır.
func (db *DB) runMigrations(migrationsFS fs.FS) error {
	if _, err := db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	applied := make(map[string]bool)
	rows, err := db.Conn.Query("SELECT filename FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate migration rows: %w", err)
	}

	for _, file := range sqlFiles {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		// Statement'lar tek tek çalıştırılır — Exec tek statement kabul eder.
		for i, stmt := range splitStatements(string(content)) {
			if _, err := db.Conn.Exec(stmt); err != nil {
				return fmt.Errorf("failed to execute migration %s (statement %d): %w", file, i+1, err)
			}
		}

		if _, err := db.Conn.Exec(
			"INSERT INTO schema_migrations (filename) VALUES (?)", file,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}

		log.Printf("[database] migration applied: %s", file)
	}

	return nil
}

// splitStatements, SQL metnini noktalı virgül ile statement'lara böler.
// String literal içindeki noktalı virgüller ('' escape dahil) yoksayılır.
func splitStatements(sqlText string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	for i := 0; i < len(sqlText); i++ {
		ch := sqlText[i]

		if ch == '\'' {
			if inString && i+1 < len(sqlText) && sqlText[i+1] == '\'' {
				current.WriteByte(ch)
				current.WriteByte(sqlText[i+1])
				i++
				continue
			}
			inString = !inString
		}

		if ch == ';' && !inString {
			s := strings.TrimSpace(current.String())
			if s != "" {
				statements = append(statements, s)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	s := strings.TrimSpace(current.String())
	if s != "" {
		statements = append(statements, s)
	}

	return statements
}
