package tasks

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// fakeDB is a database/sql driver that records every statement and answers
// queries from a canned responder.
type fakeDB struct {
	mu       sync.Mutex
	calls    []fakeCall
	respond  func(query string, args []driver.Value) ([]string, [][]driver.Value)
	affected int64
	commits  int
}

type fakeCall struct {
	query string
	args  []driver.Value
}

var fakeDriverSeq atomic.Int64

func newFakeStore(t *testing.T) (*PostgresStore, *fakeDB) {
	t.Helper()
	fake := &fakeDB{affected: 1}
	name := fmt.Sprintf("fakepg-%d", fakeDriverSeq.Add(1))
	sql.Register(name, fake)

	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresStore(sqlx.NewDb(db, "postgres")), fake
}

func (f *fakeDB) record(query string, args []driver.Value) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{query: query, args: args})
}

func (f *fakeDB) lastCall() fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeDB) Open(string) (driver.Conn, error) { return fakeConn{f}, nil }

type fakeConn struct{ db *fakeDB }

func (c fakeConn) Prepare(query string) (driver.Stmt, error) {
	return fakeStmt{db: c.db, query: query}, nil
}
func (c fakeConn) Close() error              { return nil }
func (c fakeConn) Begin() (driver.Tx, error) { return fakeTx(c), nil }

type fakeTx struct{ db *fakeDB }

func (tx fakeTx) Commit() error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	tx.db.commits++
	return nil
}
func (tx fakeTx) Rollback() error { return nil }

type fakeStmt struct {
	db    *fakeDB
	query string
}

func (s fakeStmt) Close() error  { return nil }
func (s fakeStmt) NumInput() int { return -1 }

func (s fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.db.record(s.query, args)
	return driver.RowsAffected(s.db.affected), nil
}

func (s fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.db.record(s.query, args)
	var cols []string
	var data [][]driver.Value
	if s.db.respond != nil {
		cols, data = s.db.respond(s.query, args)
	}
	return &fakeRows{cols: cols, data: data}, nil
}

type fakeRows struct {
	cols []string
	data [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.i])
	r.i++
	return nil
}
