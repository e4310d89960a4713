package db

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigrateUp(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = conn.Close() }()

	tables := []string{"sources", "articles", "comparison_reports", "alerts", "system_metrics"}
	for _, table := range tables {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	// 8 core indexes, the pg_trgm extension and 2 search indexes.
	for i := 0; i < 11; i++ {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO sources").WillReturnResult(sqlmock.NewResult(0, 6))

	if err := MigrateUp(conn); err != nil {
		t.Fatalf("MigrateUp err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestMigrateDown(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = conn.Close() }()

	for i := 0; i < 5; i++ {
		mock.ExpectExec("DROP TABLE IF EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := MigrateDown(conn); err != nil {
		t.Fatalf("MigrateDown err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSeedSourcesEmbedded(t *testing.T) {
	for _, key := range []string{"prothom_alo", "daily_star", "bd_pratidin", "ekattor_tv", "atn_news", "jamuna_tv"} {
		if !strings.Contains(seedSourcesSQL, key) {
			t.Fatalf("seed SQL missing source %q", key)
		}
	}
}
