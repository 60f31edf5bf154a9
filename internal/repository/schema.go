package repository

// schema.go contains the column sniffing that tolerates the legacy
// deployments' drifting table layouts (boats.boat_id vs id, users.uid vs
// user_id, and so on). Each repository resolves its table's layout once
// on first use and caches the result. This exists only to cope with
// inconsistent legacy schemas; new deployments should run a proper
// migration and stick to one naming convention.

import (
	"context"
	"database/sql"
	"strings"
	"sync"
)

// columnSet maps a lowercased column name to the exact name the table
// declares, so queries can be built with the deployment's own casing.
type columnSet map[string]string

// tableColumns inspects the layout of a table by executing a zero-row
// select and reading the result metadata. This works identically on
// MySQL and on the SQLite fixtures used in tests, unlike an
// information_schema query. The table name always comes from a constant
// inside this package, never from request input.
func tableColumns(ctx context.Context, db *sql.DB, table string) (columnSet, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table+" LIMIT 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	cs := make(columnSet, len(names))
	for _, n := range names {
		cs[strings.ToLower(n)] = n
	}
	return cs, rows.Err()
}

// pick returns the first of the candidate column names that the table
// actually has. Candidates are matched case-insensitively and the
// declared spelling is returned.
func (cs columnSet) pick(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if actual, ok := cs[strings.ToLower(c)]; ok {
			return actual, true
		}
	}
	return "", false
}

func (cs columnSet) has(name string) bool {
	_, ok := cs[strings.ToLower(name)]
	return ok
}

// layoutCache resolves a table layout once and memoizes it for the
// lifetime of the process. A failed resolution is not cached so a table
// created after startup (the lazy users-table path) is picked up.
type layoutCache[T any] struct {
	mu      sync.Mutex
	layout  *T
	resolve func(ctx context.Context) (*T, error)
}

func (lc *layoutCache[T]) get(ctx context.Context) (*T, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.layout != nil {
		return lc.layout, nil
	}
	l, err := lc.resolve(ctx)
	if err != nil {
		return nil, err
	}
	lc.layout = l
	return l, nil
}

// invalidate drops the cached layout, forcing the next call to re-sniff.
// Used after lazily creating a table.
func (lc *layoutCache[T]) invalidate() {
	lc.mu.Lock()
	lc.layout = nil
	lc.mu.Unlock()
}
