package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/edgard/botkit/internal/metrics"
)

// Repository operation names, used for logging and metric labels.
const (
	opAdd      = "add"
	opRemove   = "remove"
	opGet      = "get"
	opGetByID  = "get_by_id"
	opContains = "contains"
	opListIDs  = "list_ids"
	opClear    = "clear"
)

// GroupedEntity describes how a grouped entity type maps onto its table.
// Every field except Scope, Validate and Generated is required.
type GroupedEntity[E any, G comparable, K comparable] struct {
	// Table is the backing table name.
	Table string
	// Columns lists every column in insert order. Names must match the db tags of E.
	Columns []string
	// KeyColumns is the full primary key, group columns first.
	KeyColumns []string
	// Generated marks the last key column as assigned by the store. Entities
	// whose identity is the zero value are inserted without it and are never
	// deduplicated against each other.
	Generated bool

	Group      func(E) G
	Identity   func(E) K
	PrimaryKey func(G, K) []any
	Factory    func(G, K) E
	// Scope returns the filter selecting one group, in "?" placeholder form.
	// A nil Scope means the whole table is a single group.
	Scope func(G) (string, []any)
	// Validate rejects an entity before it is added.
	Validate func(E) error
}

type entityKey[G comparable, K comparable] struct {
	group G
	id    K
}

type queries struct {
	selectAll   string
	selectOne   string
	count       string
	insert      string
	insertNoKey string
	delete      string
	clear       string
}

// GroupedRepository provides idempotent batch mutations and reads over a
// table whose rows are partitioned by a group value. Each call runs in its
// own transaction.
type GroupedRepository[E any, G comparable, K comparable] struct {
	db     *sqlx.DB
	logger *slog.Logger
	def    GroupedEntity[E, G, K]
	q      queries
}

// NewGroupedRepository creates a repository for def. It panics when def is
// missing a required field.
func NewGroupedRepository[E any, G comparable, K comparable](db *sqlx.DB, logger *slog.Logger, def GroupedEntity[E, G, K]) *GroupedRepository[E, G, K] {
	switch {
	case def.Table == "", len(def.Columns) == 0, len(def.KeyColumns) == 0:
		panic("database: entity definition needs a table, columns and key columns")
	case def.Group == nil, def.Identity == nil, def.PrimaryKey == nil, def.Factory == nil:
		panic("database: entity definition for " + def.Table + " is missing a function")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &GroupedRepository[E, G, K]{
		db:     db,
		logger: logger.With("component", "repository", "table", def.Table),
		def:    def,
		q:      buildQueries(def.Table, def.Columns, def.KeyColumns, def.Generated),
	}
}

func buildQueries(table string, columns, keyColumns []string, generated bool) queries {
	keyPredicate := strings.Join(lo.Map(keyColumns, func(c string, _ int) string {
		return c + " = ?"
	}), " AND ")
	named := func(cols []string) string {
		return strings.Join(lo.Map(cols, func(c string, _ int) string { return ":" + c }), ", ")
	}
	insertSQL := func(cols []string) string {
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(cols, ", "), named(cols))
	}
	selectList := strings.Join(columns, ", ")

	q := queries{
		selectAll: fmt.Sprintf("SELECT %s FROM %s", selectList, table),
		selectOne: fmt.Sprintf("SELECT %s FROM %s WHERE %s", selectList, table, keyPredicate),
		count:     fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, keyPredicate),
		insert:    insertSQL(columns) + " ON CONFLICT DO NOTHING",
		delete:    fmt.Sprintf("DELETE FROM %s WHERE %s", table, keyPredicate),
		clear:     "DELETE FROM " + table,
	}
	if generated {
		// A conflict on a store generated key means the sequence is behind
		// explicitly inserted ids. It fails the batch instead of being skipped.
		idColumn := keyColumns[len(keyColumns)-1]
		q.insertNoKey = insertSQL(lo.Without(columns, idColumn))
	}
	return q
}

// scoped appends the group filter and, when order is set, the key ordering.
func (r *GroupedRepository[E, G, K]) scoped(base string, g G, order bool) (string, []any) {
	query := base
	var args []any
	if r.def.Scope != nil {
		var clause string
		clause, args = r.def.Scope(g)
		query += " WHERE " + clause
	}
	if order {
		query += " ORDER BY " + strings.Join(r.def.KeyColumns, ", ")
	}
	return query, args
}

func (r *GroupedRepository[E, G, K]) generatedKey(e E) bool {
	var zero K
	return r.def.Generated && r.def.Identity(e) == zero
}

// dedupe drops repeated primary keys within one batch, keeping the first.
func (r *GroupedRepository[E, G, K]) dedupe(entities []E) []E {
	seen := make(map[entityKey[G, K]]struct{}, len(entities))
	return lo.Filter(entities, func(e E, _ int) bool {
		if r.generatedKey(e) {
			return true
		}
		key := entityKey[G, K]{group: r.def.Group(e), id: r.def.Identity(e)}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// Add inserts the entities whose primary key is not stored yet and returns
// how many rows were inserted. Entities already present are skipped.
func (r *GroupedRepository[E, G, K]) Add(ctx context.Context, entities ...E) (int, error) {
	if len(entities) == 0 {
		return 0, nil
	}
	if r.def.Validate != nil {
		for _, e := range entities {
			if err := r.def.Validate(e); err != nil {
				return 0, fmt.Errorf("%w: %s: %w", ErrInvalidEntity, r.def.Table, err)
			}
		}
	}
	return r.apply(ctx, opAdd, entities, func(tx *sqlx.Tx, e E) (sql.Result, error) {
		query := r.q.insert
		if r.generatedKey(e) {
			query = r.q.insertNoKey
		}
		return tx.NamedExecContext(ctx, query, e)
	})
}

// Remove deletes the stored entities matching the given ones by primary key
// and returns how many rows were deleted. Missing entities are skipped.
func (r *GroupedRepository[E, G, K]) Remove(ctx context.Context, entities ...E) (int, error) {
	if len(entities) == 0 {
		return 0, nil
	}
	return r.apply(ctx, opRemove, entities, func(tx *sqlx.Tx, e E) (sql.Result, error) {
		args := r.def.PrimaryKey(r.def.Group(e), r.def.Identity(e))
		return tx.ExecContext(ctx, tx.Rebind(r.q.delete), args...)
	})
}

// AddIDs adds entities built from ids within group g.
func (r *GroupedRepository[E, G, K]) AddIDs(ctx context.Context, g G, ids ...K) (int, error) {
	return r.Add(ctx, r.fromIDs(g, ids)...)
}

// RemoveIDs removes the entities of group g with the given ids.
func (r *GroupedRepository[E, G, K]) RemoveIDs(ctx context.Context, g G, ids ...K) (int, error) {
	return r.Remove(ctx, r.fromIDs(g, ids)...)
}

func (r *GroupedRepository[E, G, K]) fromIDs(g G, ids []K) []E {
	return lo.Map(ids, func(id K, _ int) E { return r.def.Factory(g, id) })
}

// apply runs exec for each distinct entity in a single transaction and sums
// the affected rows. On failure nothing is committed and no count is returned.
func (r *GroupedRepository[E, G, K]) apply(ctx context.Context, op string, entities []E, exec func(*sqlx.Tx, E) (sql.Result, error)) (int, error) {
	batch := r.dedupe(entities)

	var changed int64
	err := r.withTx(ctx, op, func(tx *sqlx.Tx) error {
		for _, e := range batch {
			res, err := exec(tx, e)
			if err != nil {
				return fmt.Errorf("failed to %s %s row: %w", op, r.def.Table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}
			changed += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.RepositoryRowsChanged.WithLabelValues(r.def.Table, op).Add(float64(changed))
	r.logger.DebugContext(ctx, "Repository batch applied", "operation", op, "requested", len(entities), "changed", changed)
	return int(changed), nil
}

// GetAll returns every entity of group g ordered by primary key.
func (r *GroupedRepository[E, G, K]) GetAll(ctx context.Context, g G) ([]E, error) {
	query, args := r.scoped(r.q.selectAll, g, true)
	var out []E
	err := r.withTx(ctx, opGet, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &out, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to select %s: %w", r.def.Table, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []E{}
	}
	return out, nil
}

// GetByID returns the entity of group g with the given id, or an error
// wrapping ErrNotFound.
func (r *GroupedRepository[E, G, K]) GetByID(ctx context.Context, g G, id K) (E, error) {
	var out E
	err := r.withTx(ctx, opGetByID, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &out, tx.Rebind(r.q.selectOne), r.def.PrimaryKey(g, id)...)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("%s %v: %w", r.def.Table, id, ErrNotFound)
		case err != nil:
			return fmt.Errorf("failed to get %s %v: %w", r.def.Table, id, err)
		}
		return nil
	})
	if err != nil {
		var zero E
		return zero, err
	}
	return out, nil
}

// Contains reports whether group g holds an entity with the given id.
func (r *GroupedRepository[E, G, K]) Contains(ctx context.Context, g G, id K) (bool, error) {
	var n int
	err := r.withTx(ctx, opContains, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &n, tx.Rebind(r.q.count), r.def.PrimaryKey(g, id)...); err != nil {
			return fmt.Errorf("failed to count %s: %w", r.def.Table, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListIDs returns the ids of every entity in group g ordered by primary key.
func (r *GroupedRepository[E, G, K]) ListIDs(ctx context.Context, g G) ([]K, error) {
	all, err := r.GetAll(ctx, g)
	if err != nil {
		return nil, err
	}
	return lo.Map(all, func(e E, _ int) K { return r.def.Identity(e) }), nil
}

// Clear deletes every entity of group g and returns how many were deleted.
func (r *GroupedRepository[E, G, K]) Clear(ctx context.Context, g G) (int, error) {
	query, args := r.scoped(r.q.clear, g, false)
	var changed int64
	err := r.withTx(ctx, opClear, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", r.def.Table, err)
		}
		changed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.RepositoryRowsChanged.WithLabelValues(r.def.Table, opClear).Add(float64(changed))
	return int(changed), nil
}

// withTx runs fn in a fresh transaction, committing on success and rolling
// back on any error.
func (r *GroupedRepository[E, G, K]) withTx(ctx context.Context, op string, fn func(*sqlx.Tx) error) (err error) {
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
			r.logger.ErrorContext(ctx, "Repository operation failed", "operation", op, "error", err)
		}
		metrics.RepositoryOperations.WithLabelValues(r.def.Table, op, result).Inc()
	}()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					r.logger.ErrorContext(ctx, "Failed to rollback transaction", "operation", op, "error", rollbackErr)
				}
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
