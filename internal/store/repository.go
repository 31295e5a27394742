// Package store caches parsed recipes keyed by file path and content
// checksum, and notifies subscribers when entries change.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrRecordNotFound indicates no record is stored for a path.
var ErrRecordNotFound = errors.New("store: recipe record not found")

// ErrInvalidRecord reports a record missing its path or checksum.
var ErrInvalidRecord = errors.New("store: record requires path and checksum")

// ErrDatabaseRequired reports a Bun repository constructed without a database.
var ErrDatabaseRequired = errors.New("store: bun repository requires a database")

// Record is one cached parse result. Recipe holds the recipe's JSON encoding.
type Record struct {
	ID        uuid.UUID
	Path      string
	Slug      string
	Checksum  string
	Title     string
	Recipe    json.RawMessage
	ParsedAt  time.Time
	UpdatedAt time.Time
}

// Repository persists records and emits change notifications.
type Repository interface {
	Get(ctx context.Context, path string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Upsert(ctx context.Context, record Record) (Record, error)
	Delete(ctx context.Context, path string) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates record change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports a record mutation. Record is zero for deletions.
type ChangeEvent struct {
	Type   ChangeType
	Path   string
	Record Record
}

func newChangeEvent(changeType ChangeType, path string, record Record) ChangeEvent {
	return ChangeEvent{
		Type:   changeType,
		Path:   path,
		Record: record,
	}
}

func validateRecord(record Record) error {
	if strings.TrimSpace(record.Path) == "" || strings.TrimSpace(record.Checksum) == "" {
		return ErrInvalidRecord
	}
	return nil
}

// prepare fills identity and timestamps for a record about to be written.
// existing is nil when the path is new.
func prepare(record Record, existing *Record, now time.Time) Record {
	if existing != nil {
		record.ID = existing.ID
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.ParsedAt.IsZero() {
		record.ParsedAt = now
	}
	record.UpdatedAt = now
	record.Recipe = append(json.RawMessage(nil), record.Recipe...)
	return record
}
