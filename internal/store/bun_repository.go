package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists records in the cooklang_recipes table.
type BunRepository struct {
	db          *bun.DB
	now         func() time.Time
	broadcaster *changeBroadcaster
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository constructs a Bun-backed repository. Call EnsureSchema
// before first use on a fresh database.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db:          db,
		now:         func() time.Time { return time.Now().UTC() },
		broadcaster: newChangeBroadcaster(),
	}
}

// EnsureSchema creates the recipe table and its path index when missing.
func (r *BunRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return ErrDatabaseRequired
	}
	if _, err := r.db.NewCreateTable().Model((*recipeModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}
	_, err := r.db.NewCreateIndex().
		Model((*recipeModel)(nil)).
		Index("cooklang_recipes_path_idx").
		Column("path").
		Unique().
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *BunRepository) Get(ctx context.Context, path string) (Record, error) {
	if r.db == nil {
		return Record{}, ErrDatabaseRequired
	}
	model, err := find(ctx, r.db, path)
	if err != nil {
		return Record{}, err
	}
	return modelToRecord(model), nil
}

// List returns every record sorted by path.
func (r *BunRepository) List(ctx context.Context) ([]Record, error) {
	if r.db == nil {
		return nil, ErrDatabaseRequired
	}
	var models []recipeModel
	if err := r.db.NewSelect().Model(&models).Order("path ASC").Scan(ctx); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(models))
	for i := range models {
		records = append(records, modelToRecord(&models[i]))
	}
	return records, nil
}

// Upsert inserts or updates the record for its path. An unchanged checksum
// returns the stored record without writing or emitting an event. The read
// and write share a transaction, and an insert that loses a race on the path
// index falls through to the update path.
func (r *BunRepository) Upsert(ctx context.Context, record Record) (Record, error) {
	if r.db == nil {
		return Record{}, ErrDatabaseRequired
	}
	if err := validateRecord(record); err != nil {
		return Record{}, err
	}

	var (
		stored     Record
		changeType ChangeType
	)
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		stored, changeType, err = r.upsertTx(ctx, tx, record)
		return err
	})
	if err != nil {
		return Record{}, err
	}

	if changeType != "" {
		r.broadcaster.Broadcast(newChangeEvent(changeType, stored.Path, stored))
	}
	return stored, nil
}

// upsertTx returns an empty ChangeType when nothing was written.
func (r *BunRepository) upsertTx(ctx context.Context, tx bun.Tx, record Record) (Record, ChangeType, error) {
	existing, err := find(ctx, tx, record.Path)
	if errors.Is(err, ErrRecordNotFound) {
		stored := prepare(record, nil, r.now())
		res, insertErr := tx.NewInsert().
			Model(modelFromRecord(stored)).
			On("CONFLICT (path) DO NOTHING").
			Exec(ctx)
		if insertErr != nil {
			return Record{}, "", insertErr
		}
		if n, countErr := res.RowsAffected(); countErr == nil && n > 0 {
			return stored, ChangeCreated, nil
		}
		existing, err = find(ctx, tx, record.Path)
	}
	if err != nil {
		return Record{}, "", err
	}

	current := modelToRecord(existing)
	if current.Checksum == record.Checksum {
		return current, "", nil
	}

	stored := prepare(record, &current, r.now())
	if _, err := tx.NewUpdate().
		Model(modelFromRecord(stored)).
		Column("slug", "checksum", "title", "recipe", "parsed_at", "updated_at").
		WherePK().
		Exec(ctx); err != nil {
		return Record{}, "", err
	}
	return stored, ChangeUpdated, nil
}

func (r *BunRepository) Delete(ctx context.Context, path string) error {
	if r.db == nil {
		return ErrDatabaseRequired
	}
	model, err := find(ctx, r.db, path)
	if err != nil {
		return err
	}
	if _, err := r.db.NewDelete().Model(model).WherePK().Exec(ctx); err != nil {
		return err
	}
	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, path, Record{}))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

func find(ctx context.Context, db bun.IDB, path string) (*recipeModel, error) {
	model := new(recipeModel)
	if err := db.NewSelect().Model(model).Where("path = ?", path).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return model, nil
}

type recipeModel struct {
	bun.BaseModel `bun:"table:cooklang_recipes"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Path      string    `bun:"path,notnull"`
	Slug      string    `bun:"slug"`
	Checksum  string    `bun:"checksum,notnull"`
	Title     string    `bun:"title"`
	Recipe    string    `bun:"recipe,type:text"`
	ParsedAt  time.Time `bun:"parsed_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func modelFromRecord(record Record) *recipeModel {
	return &recipeModel{
		ID:        record.ID,
		Path:      record.Path,
		Slug:      record.Slug,
		Checksum:  record.Checksum,
		Title:     record.Title,
		Recipe:    string(record.Recipe),
		ParsedAt:  record.ParsedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func modelToRecord(model *recipeModel) Record {
	if model == nil {
		return Record{}
	}
	return Record{
		ID:        model.ID,
		Path:      model.Path,
		Slug:      model.Slug,
		Checksum:  model.Checksum,
		Title:     model.Title,
		Recipe:    []byte(model.Recipe),
		ParsedAt:  model.ParsedAt.UTC(),
		UpdatedAt: model.UpdatedAt.UTC(),
	}
}
