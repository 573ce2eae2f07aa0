package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// fakeConn is an in-memory SeedConn. Exec only records statements; tests set
// catalog state directly.
type fakeConn struct {
	objects map[ObjectKind]map[string]bool
	columns map[string][]string
	filled  map[string]bool
	rows    map[string][]Row
	execs   []string
	failOn  string
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		objects: map[ObjectKind]map[string]bool{
			KindTable:   {},
			KindIndex:   {},
			KindTrigger: {},
		},
		columns: map[string][]string{},
		filled:  map[string]bool{},
		rows:    map[string][]Row{},
	}
}

var errFake = errors.New("fake failure")

func (f *fakeConn) withTable(name string, cols ...string) *fakeConn {
	f.objects[KindTable][name] = true
	f.columns[name] = cols
	return f
}

func (f *fakeConn) ObjectExists(_ context.Context, kind ObjectKind, name string) (bool, error) {
	return f.objects[kind][name], nil
}

func (f *fakeConn) ColumnNames(_ context.Context, table string) ([]string, error) {
	return f.columns[table], nil
}

func (f *fakeConn) HasRows(_ context.Context, table string) (bool, error) {
	return f.filled[table], nil
}

func (f *fakeConn) Exec(_ context.Context, query string, _ ...any) error {
	if f.failOn != "" && strings.Contains(query, f.failOn) {
		return errFake
	}
	f.execs = append(f.execs, query)
	return nil
}

func (f *fakeConn) RowExists(_ context.Context, table, keyColumn string, key any) (bool, error) {
	for _, r := range f.rows[table] {
		if fmt.Sprint(r[keyColumn]) == fmt.Sprint(key) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConn) Insert(_ context.Context, table string, row Row) error {
	if f.failOn != "" && f.failOn == table {
		return errFake
	}
	f.rows[table] = append(f.rows[table], row)
	return nil
}
