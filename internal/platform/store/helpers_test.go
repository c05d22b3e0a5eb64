package store

import (
	"context"
	"errors"
	"testing"

	perr "linkmill/internal/platform/errors"
)

type fakeTag int64

func (t fakeTag) String() string      { return "TAG" }
func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRows struct {
	cols   []string
	data   [][]any
	idx    int
	err    error
	closed bool
}

func newRows(cols []string, data [][]any) *fakeRows {
	return &fakeRows{cols: cols, data: data, idx: -1}
}

func (r *fakeRows) Columns() []string { return r.cols }

func (r *fakeRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.idx++
	return r.idx >= 0 && r.idx < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.idx < 0 || r.idx >= len(r.data) {
		return errors.New("scan out of bounds")
	}
	row := r.data[r.idx]
	if len(dest) != len(row) {
		return errors.New("arity mismatch")
	}
	for i := range dest {
		switch p := dest[i].(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		case *int64:
			*p = row[i].(int64)
		default:
			return errors.New("unsupported dest type in fake")
		}
	}
	return nil
}

func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     { r.closed = true }

type fakeQuerier struct {
	lastSQL  string
	lastArgs []any

	execTag CommandTag
	execErr error

	rows     Rows
	queryErr error
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return f.execTag, f.execErr
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (Rows, error) {
	f.lastSQL, f.lastArgs = sql, args
	return f.rows, f.queryErr
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) Row {
	f.lastSQL, f.lastArgs = sql, args
	return singleRow{rows: f.rows}
}

type singleRow struct{ rows Rows }

func (s singleRow) Scan(dest ...any) error {
	if !s.rows.Next() {
		return errors.New("no rows")
	}
	return s.rows.Scan(dest...)
}

func TestExecOne(t *testing.T) {
	q := &fakeQuerier{execTag: fakeTag(1)}
	if err := ExecOne(context.Background(), q, "UPDATE x SET y=1"); err != nil {
		t.Fatalf("ExecOne: %v", err)
	}

	q.execTag = fakeTag(0)
	if err := ExecOne(context.Background(), q, "UPDATE x SET y=1"); err == nil {
		t.Fatal("expected error for zero rows affected")
	}

	q.execTag = fakeTag(2)
	if err := ExecOne(context.Background(), q, "UPDATE x SET y=1"); err == nil {
		t.Fatal("expected error for two rows affected")
	}
}

func TestScalar(t *testing.T) {
	q := &fakeQuerier{rows: newRows([]string{"n"}, [][]any{{42}})}
	n, err := Scalar[int](context.Background(), q, "SELECT count(*) FROM x")
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if n != 42 {
		t.Fatalf("got %d, want 42", n)
	}
}

func TestOneNotFound(t *testing.T) {
	q := &fakeQuerier{rows: newRows([]string{"slug"}, nil)}
	_, err := One(context.Background(), q, func(r Row) (string, error) {
		var s string
		err := r.Scan(&s)
		return s, err
	}, "SELECT slug FROM platforms WHERE id = $1", "nope")
	if !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestOneRejectsExtraRows(t *testing.T) {
	q := &fakeQuerier{rows: newRows([]string{"slug"}, [][]any{{"devto"}, {"medium"}})}
	_, err := One(context.Background(), q, func(r Row) (string, error) {
		var s string
		err := r.Scan(&s)
		return s, err
	}, "SELECT slug FROM platforms")
	if err == nil {
		t.Fatal("expected error for multi-row result")
	}
}

func TestMany(t *testing.T) {
	rows := newRows([]string{"slug"}, [][]any{{"devto"}, {"medium"}, {"hashnode"}})
	q := &fakeQuerier{rows: rows}
	out, err := Many(context.Background(), q, func(r Row) (string, error) {
		var s string
		err := r.Scan(&s)
		return s, err
	}, "SELECT slug FROM platforms ORDER BY slug")
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if len(out) != 3 || out[0] != "devto" || out[2] != "hashnode" {
		t.Fatalf("unexpected result %v", out)
	}
	if !rows.closed {
		t.Fatal("rows not closed")
	}
}
