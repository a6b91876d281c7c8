// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hanktest

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/samber/oops"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

// UseSQLite attaches a fresh in-memory SQLite database. From then on
// db_query calls run against it the way the Hank host runs them against the
// plugin's database: rows come back as JSON objects keyed by column, and SQL
// errors come back as the output's error string. The database is closed by
// Close.
func (h *Host) UseSQLite(ctx context.Context) error {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return oops.Code("SQLITE_OPEN_FAILED").Wrap(err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return oops.Code("SQLITE_OPEN_FAILED").Wrap(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db != nil {
		_ = h.db.Close()
	}
	h.db = db
	return nil
}

// Close releases the attached database, if any.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	if err != nil {
		return oops.Code("SQLITE_CLOSE_FAILED").Wrap(err)
	}
	return nil
}

func (h *Host) query(ctx context.Context, db *sql.DB, input []byte) ([]byte, error) {
	var in wire.DBQueryInput
	if err := h.codec.Unmarshal(input, &in); err != nil {
		return nil, oops.Code("DECODE_FAILED").With("function", "db_query").Wrap(err)
	}
	if in.PreparedStatement == nil {
		return h.reply(wire.DBQueryOutput{Error: "missing prepared statement"})
	}

	results, err := runStatement(ctx, db, *in.PreparedStatement)
	if err != nil {
		return h.reply(wire.DBQueryOutput{Error: err.Error()})
	}
	return h.reply(wire.DBQueryOutput{Results: results})
}

func (h *Host) reply(out wire.DBQueryOutput) ([]byte, error) {
	data, err := h.codec.Marshal(out)
	if err != nil {
		return nil, oops.Code("ENCODE_FAILED").With("function", "db_query").Wrap(err)
	}
	return data, nil
}

// runStatement executes stmt and renders each result row as a JSON object.
// The returned error text is what the host reports to the plugin.
func runStatement(ctx context.Context, db *sql.DB, stmt wire.PreparedStatement) (*wire.Results, error) {
	args := make([]any, len(stmt.Values))
	for i, v := range stmt.Values {
		args[i] = v
	}

	if !returnsRows(stmt.SQL) {
		if _, err := db.ExecContext(ctx, stmt.SQL, args...); err != nil {
			return nil, err //nolint:wrapcheck // the driver message is the host-visible error
		}
		return &wire.Results{}, nil
	}

	rows, err := db.QueryContext(ctx, stmt.SQL, args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // the driver message is the host-visible error
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err //nolint:wrapcheck // see above
	}

	results := &wire.Results{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err //nolint:wrapcheck // see above
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		encoded, err := json.Marshal(row)
		if err != nil {
			return nil, err //nolint:wrapcheck // see above
		}
		results.Rows = append(results.Rows, string(encoded))
	}
	if err := rows.Err(); err != nil {
		return nil, err //nolint:wrapcheck // see above
	}
	return results, nil
}

func returnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "WITH", "PRAGMA", "VALUES"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return strings.Contains(q, "RETURNING")
}
