package store

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/0kPN1/zkpnl/internal/ledger"
)

const (
	createRecordIndexTable = `
CREATE TABLE IF NOT EXISTS record_index (
	hash TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	kind TEXT NOT NULL,
	time INTEGER NOT NULL
)`
	createSnapshotIndexTable = `
CREATE TABLE IF NOT EXISTS snapshot_index (
	hash TEXT PRIMARY KEY,
	time INTEGER NOT NULL,
	pnl REAL NOT NULL
)`
	createRecordTimeIdx   = `CREATE INDEX IF NOT EXISTS idx_record_index_time ON record_index(time)`
	createSnapshotTimeIdx = `CREATE INDEX IF NOT EXISTS idx_snapshot_index_time ON snapshot_index(time)`

	insertRecordIndexQuery   = `INSERT OR REPLACE INTO record_index (hash, symbol, kind, time) VALUES (?, ?, ?, ?)`
	insertSnapshotIndexQuery = `INSERT OR REPLACE INTO snapshot_index (hash, time, pnl) VALUES (?, ?, ?)`
)

// Index is an optional SQLite side-index of record/snapshot (hash, time,
// symbol) tuples, adapted from the teacher's database.MarketDataDb: the
// same prepared-statement-over-WAL pattern, repurposed from FIX
// market-data rows to the zkpnl record/snapshot log. The JSON files
// written by JSONStore remain the source of truth (spec.md §6/§C7) and
// are still read and verified in full on every command; this index is
// a derived, queryable audit trail of what has been committed, kept for
// operators who want to inspect the log with plain SQL rather than a
// second read/write path for commands themselves.
type Index struct {
	db *sql.DB

	stmtRecord   *sql.Stmt
	stmtSnapshot *sql.Stmt
}

// NewIndex opens (creating if absent) a SQLite index file at path.
func NewIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %v", err)
	}

	idx := &Index{db: db}
	if err := idx.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize index schema: %v", err)
	}

	if idx.stmtRecord, err = db.Prepare(insertRecordIndexQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare record index statement: %v", err)
	}
	if idx.stmtSnapshot, err = db.Prepare(insertSnapshotIndexQuery); err != nil {
		_ = idx.stmtRecord.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare snapshot index statement: %v", err)
	}

	log.Printf("SQLite index initialized at %s", path)
	return idx, nil
}

func (idx *Index) initSchema() error {
	for _, stmt := range []string{createRecordIndexTable, createSnapshotIndexTable, createRecordTimeIdx, createSnapshotTimeIdx} {
		if _, err := idx.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the prepared statements and the underlying connection.
func (idx *Index) Close() error {
	if idx.stmtRecord != nil {
		_ = idx.stmtRecord.Close()
	}
	if idx.stmtSnapshot != nil {
		_ = idx.stmtSnapshot.Close()
	}
	return idx.db.Close()
}

// IndexRecord upserts r's (hash, symbol, kind, time) tuple.
func (idx *Index) IndexRecord(r ledger.Record) error {
	_, err := idx.stmtRecord.Exec(r.Hash, r.Message.Symbol, string(r.Message.Kind), r.Message.Time.Unix())
	return err
}

// IndexSnapshot upserts s's (hash, time, pnl) tuple.
func (idx *Index) IndexSnapshot(s ledger.Snapshot) error {
	_, err := idx.stmtSnapshot.Exec(s.Hash, s.Message.Time.Unix(), s.Message.PnL)
	return err
}

