package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/equiptrack/equiptrack-server/internal/model"
)

// Store implements the document storage boundary over a single JSONB
// table. Every collection shares the table, discriminated by the
// collection column, so one implementation serves every entity type.
type Store struct {
	db    *Connection
	specs map[string]model.CollectionSpec
}

// NewStore builds the store over a connection and the declared
// collection specs. The specs drive populate resolution.
func NewStore(db *Connection, specs []model.CollectionSpec) *Store {
	byName := make(map[string]model.CollectionSpec, len(specs))
	for _, spec := range specs {
		byName[spec.Name] = spec
	}
	return &Store{db: db, specs: byName}
}

// Collection returns the raw handle for one named collection.
func (s *Store) Collection(name string) *Collection {
	return &Collection{store: s, name: name}
}

const uniqueViolationCode = "23505"

func classifyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return model.ErrDuplicate
	}
	return err
}

// Collection is the Postgres-backed handle for one collection. All
// operations are single round-trips; the only multi-step path is
// populate resolution, which issues one lookup per reference.
type Collection struct {
	store *Store
	name  string
}

var _ model.Collection = (*Collection)(nil)

func (c *Collection) Name() string {
	return c.name
}

const documentColumns = `id, data, created_at, updated_at`

func (c *Collection) Insert(ctx context.Context, data map[string]any) (model.Document, error) {
	const query = `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		RETURNING ` + documentColumns

	row := c.store.db.QueryRow(ctx, query, c.name, uuid.New(), data)
	doc, err := scanDocument(row)
	if err != nil {
		return model.Document{}, classifyError(err)
	}
	return doc, nil
}

func (c *Collection) Find(ctx context.Context, query model.QuerySpec, populate ...model.PopulateSpec) ([]model.Document, error) {
	where, args, err := buildWhere(query, 2)
	if err != nil {
		return nil, err
	}
	sql := `SELECT ` + documentColumns + ` FROM documents WHERE collection = $1` + where + ` ORDER BY created_at ASC`

	rows, err := c.store.db.Query(ctx, sql, append([]any{c.name}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range docs {
		if err := c.populate(ctx, docs[i].Data, populate); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (c *Collection) FindOne(ctx context.Context, query model.QuerySpec) (*model.Document, error) {
	where, args, err := buildWhere(query, 2)
	if err != nil {
		return nil, err
	}
	sql := `SELECT ` + documentColumns + ` FROM documents WHERE collection = $1` + where + ` ORDER BY created_at ASC LIMIT 1`

	row := c.store.db.QueryRow(ctx, sql, append([]any{c.name}, args...)...)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Collection) FindByID(ctx context.Context, id uuid.UUID, populate ...model.PopulateSpec) (*model.Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE collection = $1 AND id = $2`

	row := c.store.db.QueryRow(ctx, query, c.name, id)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := c.populate(ctx, doc.Data, populate); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Collection) Update(ctx context.Context, id uuid.UUID, partial map[string]any, populate ...model.PopulateSpec) (*model.Document, error) {
	const query = `
		UPDATE documents
		SET data = data || $3, updated_at = NOW()
		WHERE collection = $1 AND id = $2
		RETURNING ` + documentColumns

	row := c.store.db.QueryRow(ctx, query, c.name, id, partial)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyError(err)
	}

	if err := c.populate(ctx, doc.Data, populate); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Collection) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`

	cmd, err := c.store.db.Exec(ctx, query, c.name, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (c *Collection) populate(ctx context.Context, data map[string]any, pops []model.PopulateSpec) error {
	return resolvePopulate(ctx, c.store.fetchRaw, c.store.specs, c.name, data, pops, 0)
}

// fetchRaw loads one flattened document for populate resolution.
func (s *Store) fetchRaw(ctx context.Context, collection string, id uuid.UUID) (map[string]any, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE collection = $1 AND id = $2`

	row := s.db.QueryRow(ctx, query, collection, id)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Flat(), nil
}

func scanDocument(row pgx.Row) (model.Document, error) {
	var doc model.Document
	if err := row.Scan(&doc.ID, &doc.Data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return model.Document{}, err
	}
	if doc.Data == nil {
		doc.Data = map[string]any{}
	}
	return doc, nil
}
