package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/sources.sql
var seedSourcesSQL string

// MigrateUp creates the schema and seeds the source registry. Every
// statement is idempotent so the migration can run at each startup.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS sources (
    id              SERIAL PRIMARY KEY,
    key             TEXT NOT NULL UNIQUE,
    name            TEXT NOT NULL,
    base_url        TEXT NOT NULL,
    feed_url        TEXT NOT NULL DEFAULT '',
    language        VARCHAR(20) NOT NULL DEFAULT 'bengali',
    source_type     VARCHAR(20) NOT NULL DEFAULT 'html',
    enabled         BOOLEAN DEFAULT TRUE,
    last_crawled_at TIMESTAMPTZ
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id                       SERIAL PRIMARY KEY,
    url                      TEXT NOT NULL UNIQUE,
    title                    TEXT NOT NULL,
    content                  TEXT NOT NULL DEFAULT '',
    author                   TEXT NOT NULL DEFAULT '',
    source                   TEXT NOT NULL,
    language                 VARCHAR(20) NOT NULL DEFAULT 'unknown',
    content_hash             CHAR(64) NOT NULL UNIQUE,
    topics                   JSONB NOT NULL DEFAULT '[]',
    publication_date         TIMESTAMPTZ NOT NULL,
    scraped_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
    sentiment_score          DOUBLE PRECISION,
    political_bias_score     DOUBLE PRECISION,
    emotional_language_score DOUBLE PRECISION,
    factual_vs_opinion_score DOUBLE PRECISION,
    overall_bias_score       DOUBLE PRECISION,
    analyzed_at              TIMESTAMPTZ
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS comparison_reports (
    id                SERIAL PRIMARY KEY,
    story_id          TEXT NOT NULL,
    articles          JSONB NOT NULL,
    bias_differences  JSONB NOT NULL DEFAULT '{}',
    key_differences   JSONB NOT NULL DEFAULT '[]',
    similarity_scores JSONB NOT NULL DEFAULT '{}',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS alerts (
    id          TEXT PRIMARY KEY,
    level       VARCHAR(20) NOT NULL,
    title       TEXT NOT NULL,
    message     TEXT NOT NULL DEFAULT '',
    source      TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    resolved    BOOLEAN DEFAULT FALSE,
    resolved_at TIMESTAMPTZ
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS system_metrics (
    id                          SERIAL PRIMARY KEY,
    taken_at                    TIMESTAMPTZ NOT NULL,
    articles_scraped_last_hour  INTEGER NOT NULL DEFAULT 0,
    articles_analyzed_last_hour INTEGER NOT NULL DEFAULT 0,
    scraping_success_rate       DOUBLE PRECISION NOT NULL DEFAULT 0,
    analysis_success_rate       DOUBLE PRECISION NOT NULL DEFAULT 0,
    database_size_mb            DOUBLE PRECISION NOT NULL DEFAULT 0,
    response_time_ms            DOUBLE PRECISION NOT NULL DEFAULT 0,
    error_count_last_hour       INTEGER NOT NULL DEFAULT 0
)`); err != nil {
		return err
	}

	indexes := []string{
		// Listing queries sort by publication date.
		`CREATE INDEX IF NOT EXISTS idx_articles_publication_date ON articles(publication_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source)`,
		// Analysis backlog scan.
		`CREATE INDEX IF NOT EXISTS idx_articles_pending ON articles(scraped_at) WHERE analyzed_at IS NULL`,
		// Topic filter uses JSONB containment.
		`CREATE INDEX IF NOT EXISTS idx_articles_topics ON articles USING gin(topics)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_story_id ON comparison_reports(story_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON comparison_reports(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_unresolved ON alerts(created_at DESC) WHERE resolved = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_system_metrics_taken_at ON system_metrics(taken_at)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// pg_trgm speeds up keyword ILIKE search. Failures are ignored when
	// the role lacks permission to create extensions.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	searchIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_articles_title_gin ON articles USING gin(title gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_content_gin ON articles USING gin(content gin_trgm_ops)`,
	}
	for _, idx := range searchIndexes {
		_, _ = db.Exec(idx)
	}

	// Seed the source registry; duplicates are skipped.
	if _, err := db.Exec(seedSourcesSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown removes the schema in reverse dependency order.
// Use with caution: this deletes all stored data.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS system_metrics`,
		`DROP TABLE IF EXISTS alerts`,
		`DROP TABLE IF EXISTS comparison_reports`,
		`DROP TABLE IF EXISTS articles`,
		`DROP TABLE IF EXISTS sources`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
