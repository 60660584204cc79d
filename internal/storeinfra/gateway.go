package storeinfra

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/goliatone/go-pokedex/internal/logging"
	"github.com/goliatone/go-pokedex/pokemon"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
)

// Interface assertion to ensure BunGateway implements pokemon.Gateway
var _ pokemon.Gateway = (*BunGateway)(nil)

// pokemonRow maps the pokemon table. Evolutions stay encoded text here; the
// conversion to a list happens at the row boundary.
type pokemonRow struct {
	bun.BaseModel `bun:"table:pokemon,alias:p"`

	ID         int64  `bun:"id,pk"`
	Name       string `bun:"name,type:text"`
	Evolutions string `bun:"evolutions,type:text"`
}

// Option configures a BunGateway.
type Option func(*BunGateway)

// WithLogger sets the logger used for row level warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(g *BunGateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// BunGateway issues parameter-bound statements against the pokemon table.
// The underlying *bun.DB pool is safe for concurrent use.
type BunGateway struct {
	db     *bun.DB
	logger *slog.Logger
}

// NewBunGateway wraps an already opened bun database.
func NewBunGateway(db *bun.DB, opts ...Option) *BunGateway {
	g := &BunGateway{
		db:     db,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DB returns the underlying bun database.
func (g *BunGateway) DB() *bun.DB {
	return g.db
}

// CreateSchema creates the pokemon table if it does not exist.
func (g *BunGateway) CreateSchema(ctx context.Context) error {
	_, err := g.db.NewCreateTable().
		Model((*pokemonRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create pokemon table: %w", err)
	}
	return nil
}

// FetchAll selects every row ordered by id. NULL columns come back as zero values
// and an unreadable evolutions value degrades to an empty list.
func (g *BunGateway) FetchAll(ctx context.Context) ([]pokemon.Pokemon, error) {
	rows := make([]pokemonRow, 0)
	if err := g.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select pokemon: %w", err)
	}

	out := make([]pokemon.Pokemon, 0, len(rows))
	for _, row := range rows {
		out = append(out, g.fromRow(row))
	}
	return out, nil
}

// Insert appends a row. A primary key violation is reported as pokemon.Conflict.
func (g *BunGateway) Insert(ctx context.Context, p pokemon.Pokemon) error {
	row, err := toRow(p)
	if err != nil {
		return err
	}

	if _, err := g.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return pokemon.Conflict(p.ID)
		}
		return fmt.Errorf("insert pokemon %d: %w", p.ID, err)
	}
	return nil
}

// Update replaces name and evolutions of the row matching p.ID.
func (g *BunGateway) Update(ctx context.Context, p pokemon.Pokemon) error {
	row, err := toRow(p)
	if err != nil {
		return err
	}

	_, err = g.db.NewUpdate().
		Model(&row).
		Column("name", "evolutions").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update pokemon %d: %w", p.ID, err)
	}
	return nil
}

// Delete removes the row matching id.
func (g *BunGateway) Delete(ctx context.Context, id int64) error {
	_, err := g.db.NewDelete().
		Model((*pokemonRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete pokemon %d: %w", id, err)
	}
	return nil
}

// Exists reports whether a row with id is stored.
func (g *BunGateway) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := g.db.NewSelect().
		Model((*pokemonRow)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check pokemon %d: %w", id, err)
	}
	return ok, nil
}

// Ping verifies the store is reachable.
func (g *BunGateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

// Close closes the database pool.
func (g *BunGateway) Close() error {
	if g.db == nil {
		return nil
	}
	return g.db.Close()
}

func (g *BunGateway) fromRow(row pokemonRow) pokemon.Pokemon {
	evolutions, err := pokemon.DecodeEvolutions(row.Evolutions)
	if err != nil {
		g.logger.Warn("unreadable evolutions column, using empty list",
			"id", row.ID,
			"error", err,
		)
		evolutions = []string{}
	}
	return pokemon.Pokemon{
		ID:         row.ID,
		Name:       row.Name,
		Evolutions: evolutions,
	}
}

func toRow(p pokemon.Pokemon) (pokemonRow, error) {
	evolutions, err := pokemon.EncodeEvolutions(p.Evolutions)
	if err != nil {
		return pokemonRow{}, err
	}
	return pokemonRow{
		ID:         p.ID,
		Name:       p.Name,
		Evolutions: evolutions,
	}, nil
}

// isUniqueViolation recognises duplicate key errors from every supported driver.
func isUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	return false
}
