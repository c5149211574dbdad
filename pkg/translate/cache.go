package translate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const cacheSchema = `CREATE TABLE IF NOT EXISTS cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_text TEXT NOT NULL,
	src_lang TEXT NOT NULL,
	tgt_lang TEXT NOT NULL,
	provider TEXT NOT NULL,
	translation TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(source_text, src_lang, tgt_lang, provider)
)`

// Cache stores finished translations in SQLite.
type Cache struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

// CacheKey identifies a cached translation.
type CacheKey struct {
	Source     string
	SourceLang string
	TargetLang string
	Provider   string
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		cacheSchema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to prepare cache: %w", err)
		}
	}
	return &Cache{db: db, sq: sq.StatementBuilder}, nil
}

// Get returns the cached translation for key, if any.
func (c *Cache) Get(ctx context.Context, key CacheKey) (string, bool, error) {
	sqlStr, args, err := c.sq.Select("translation").
		From("cache").
		Where(sq.Eq{
			"source_text": key.Source,
			"src_lang":    key.SourceLang,
			"tgt_lang":    key.TargetLang,
			"provider":    key.Provider,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", false, err
	}

	var translation string
	if err := c.db.QueryRowContext(ctx, sqlStr, args...).Scan(&translation); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cache: %w", err)
	}
	return translation, true, nil
}

// Put stores or replaces the translation for key.
func (c *Cache) Put(ctx context.Context, key CacheKey, translation string) error {
	sqlStr, args, err := c.sq.Insert("cache").
		Columns("source_text", "src_lang", "tgt_lang", "provider", "translation", "created_at").
		Values(key.Source, key.SourceLang, key.TargetLang, key.Provider, translation, time.Now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(source_text, src_lang, tgt_lang, provider) DO UPDATE SET translation=excluded.translation").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Len returns the number of cached translations.
func (c *Cache) Len(ctx context.Context) (int, error) {
	sqlStr, args, err := c.sq.Select("COUNT(*)").From("cache").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := c.db.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache: %w", err)
	}
	return n, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

type cached struct {
	next       Translator
	cache      *Cache
	sourceLang string
}

// Cached answers repeated requests from cache. Cache failures never fail a
// translation; the provider is asked instead.
func Cached(next Translator, cache *Cache, sourceLang string) Translator {
	return &cached{next: next, cache: cache, sourceLang: sourceLang}
}

func (c *cached) Name() string { return c.next.Name() }

func (c *cached) Translate(ctx context.Context, text, targetLang string) (string, error) {
	key := CacheKey{
		Source:     text,
		SourceLang: c.sourceLang,
		TargetLang: targetLang,
		Provider:   c.next.Name(),
	}
	if out, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return out, nil
	}

	out, err := c.next.Translate(ctx, text, targetLang)
	if err != nil {
		return "", err
	}
	_ = c.cache.Put(ctx, key, out)
	return out, nil
}
