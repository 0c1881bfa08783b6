package database

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Entity describes how an ungrouped entity type maps onto its table.
type Entity[E any, K comparable] struct {
	Table      string
	Columns    []string
	KeyColumns []string
	Generated  bool

	Identity   func(E) K
	PrimaryKey func(K) []any
	Factory    func(K) E
	Validate   func(E) error
}

// Repository is a GroupedRepository whose only group is the whole table.
type Repository[E any, K comparable] struct {
	grouped *GroupedRepository[E, struct{}, K]
}

// NewRepository creates a repository for def. It panics when def is missing
// a required field.
func NewRepository[E any, K comparable](db *sqlx.DB, logger *slog.Logger, def Entity[E, K]) *Repository[E, K] {
	var primaryKey func(struct{}, K) []any
	if def.PrimaryKey != nil {
		primaryKey = func(_ struct{}, id K) []any { return def.PrimaryKey(id) }
	}
	var factory func(struct{}, K) E
	if def.Factory != nil {
		factory = func(_ struct{}, id K) E { return def.Factory(id) }
	}

	return &Repository[E, K]{
		grouped: NewGroupedRepository(db, logger, GroupedEntity[E, struct{}, K]{
			Table:      def.Table,
			Columns:    def.Columns,
			KeyColumns: def.KeyColumns,
			Generated:  def.Generated,
			Group:      func(E) struct{} { return struct{}{} },
			Identity:   def.Identity,
			PrimaryKey: primaryKey,
			Factory:    factory,
			Validate:   def.Validate,
		}),
	}
}

func (r *Repository[E, K]) Add(ctx context.Context, entities ...E) (int, error) {
	return r.grouped.Add(ctx, entities...)
}

func (r *Repository[E, K]) Remove(ctx context.Context, entities ...E) (int, error) {
	return r.grouped.Remove(ctx, entities...)
}

func (r *Repository[E, K]) AddIDs(ctx context.Context, ids ...K) (int, error) {
	return r.grouped.AddIDs(ctx, struct{}{}, ids...)
}

func (r *Repository[E, K]) RemoveIDs(ctx context.Context, ids ...K) (int, error) {
	return r.grouped.RemoveIDs(ctx, struct{}{}, ids...)
}

// Get returns every entity ordered by primary key.
func (r *Repository[E, K]) Get(ctx context.Context) ([]E, error) {
	return r.grouped.GetAll(ctx, struct{}{})
}

func (r *Repository[E, K]) GetByID(ctx context.Context, id K) (E, error) {
	return r.grouped.GetByID(ctx, struct{}{}, id)
}

func (r *Repository[E, K]) Contains(ctx context.Context, id K) (bool, error) {
	return r.grouped.Contains(ctx, struct{}{}, id)
}

func (r *Repository[E, K]) ListIDs(ctx context.Context) ([]K, error) {
	return r.grouped.ListIDs(ctx, struct{}{})
}

func (r *Repository[E, K]) Clear(ctx context.Context) (int, error) {
	return r.grouped.Clear(ctx, struct{}{})
}
