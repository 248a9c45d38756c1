// Package postgres implements the persistence gateway on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tatausaha/internal/gateway"
)

// Gateway is the PostgreSQL persistence gateway. Every method is one
// statement on one table; there is deliberately no transaction support.
type Gateway struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

// New creates a Gateway on the given pool.
func New(pool *pgxpool.Pool) *Gateway {
	return &Gateway{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// quoteIdent double-quotes a column identifier. The ledger's actor column
// is named "user", a reserved word, so bare identifiers are never safe
// here: unquoted it breaks inserts and resolves to current_user in selects.
func quoteIdent(col string) string {
	return `"` + strings.ReplaceAll(col, `"`, `""`) + `"`
}

func quoteIdents(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = quoteIdent(c)
	}
	return out
}

func quoteKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[quoteIdent(k)] = v
	}
	return out
}

// Insert writes one row.
func (g *Gateway) Insert(ctx context.Context, table string, rec gateway.Record) error {
	query, args, err := g.buildInsert(table, rec)
	if err != nil {
		return err
	}
	if _, err := g.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Upsert writes one row, updating every non-key column on conflict.
func (g *Gateway) Upsert(ctx context.Context, table string, rec gateway.Record, conflictKey string) error {
	query, args, err := g.buildUpsert(table, rec, conflictKey)
	if err != nil {
		return err
	}
	if _, err := g.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert into %s: %w", table, err)
	}
	return nil
}

// Update patches the rows matching key.
func (g *Gateway) Update(ctx context.Context, table string, key gateway.Filter, patch gateway.Record) error {
	query, args, err := g.buildUpdate(table, key, patch)
	if err != nil {
		return err
	}
	if _, err := g.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

// Delete removes the rows matching key.
func (g *Gateway) Delete(ctx context.Context, table string, key gateway.Filter) error {
	query, args, err := g.buildDelete(table, key)
	if err != nil {
		return err
	}
	if _, err := g.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

// Select reads rows as generic records, optionally filtered and ordered.
func (g *Gateway) Select(ctx context.Context, table string, filter gateway.Filter, orderBy string, desc bool) ([]gateway.Record, error) {
	query, args, err := g.buildSelect(table, filter, orderBy, desc)
	if err != nil {
		return nil, err
	}

	rows, err := g.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect rows from %s: %w", table, err)
	}

	recs := make([]gateway.Record, len(maps))
	for i, m := range maps {
		recs[i] = gateway.Record(m)
	}
	return recs, nil
}

// SelectInto reads a whole table into a typed destination slice, matching
// the listed columns against "db" struct tags. Used for the startup state
// load; the explicit column list keeps reads unaffected by extra backend
// columns.
func (g *Gateway) SelectInto(ctx context.Context, dest any, table string, columns []string, orderBy string, desc bool) error {
	query, args, err := g.buildSelectColumns(table, columns, orderBy, desc)
	if err != nil {
		return err
	}
	if err := pgxscan.Select(ctx, g.pool, dest, query, args...); err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

func (g *Gateway) buildInsert(table string, rec gateway.Record) (string, []any, error) {
	rec = gateway.Snakify(rec)
	query, args, err := g.qb.Insert(table).SetMap(quoteKeys(rec)).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build insert: %w", err)
	}
	return query, args, nil
}

func (g *Gateway) buildUpsert(table string, rec gateway.Record, conflictKey string) (string, []any, error) {
	rec = gateway.Snakify(rec)

	cols := make([]string, 0, len(rec))
	for col := range rec {
		if col != conflictKey {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)

	assignments := make([]string, len(cols))
	for i, col := range cols {
		q := quoteIdent(col)
		assignments[i] = fmt.Sprintf("%s = EXCLUDED.%s", q, q)
	}

	query, args, err := g.qb.Insert(table).
		SetMap(quoteKeys(rec)).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s",
			quoteIdent(conflictKey), strings.Join(assignments, ", "))).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build upsert: %w", err)
	}
	return query, args, nil
}

func (g *Gateway) buildUpdate(table string, key gateway.Filter, patch gateway.Record) (string, []any, error) {
	patch = gateway.Snakify(patch)
	query, args, err := g.qb.Update(table).
		SetMap(quoteKeys(patch)).
		Where(sq.Eq(quoteKeys(gateway.Snakify(gateway.Record(key))))).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build update: %w", err)
	}
	return query, args, nil
}

func (g *Gateway) buildDelete(table string, key gateway.Filter) (string, []any, error) {
	query, args, err := g.qb.Delete(table).
		Where(sq.Eq(quoteKeys(gateway.Snakify(gateway.Record(key))))).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build delete: %w", err)
	}
	return query, args, nil
}

func (g *Gateway) buildSelect(table string, filter gateway.Filter, orderBy string, desc bool) (string, []any, error) {
	builder := g.qb.Select("*").From(table)
	if len(filter) > 0 {
		builder = builder.Where(sq.Eq(quoteKeys(gateway.Snakify(gateway.Record(filter)))))
	}
	if orderBy != "" {
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		builder = builder.OrderBy(quoteIdent(orderBy) + " " + dir)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return query, args, nil
}

func (g *Gateway) buildSelectColumns(table string, columns []string, orderBy string, desc bool) (string, []any, error) {
	builder := g.qb.Select(quoteIdents(columns)...).From(table)
	if orderBy != "" {
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		builder = builder.OrderBy(quoteIdent(orderBy) + " " + dir)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return query, args, nil
}
