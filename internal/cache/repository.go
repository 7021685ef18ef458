package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kaskita/internal/session"
)

// sessionRowID is the primary key of the single session row.
const sessionRowID = 1

// Repository reads and writes the cache tables.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a Repository over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Put stores v as JSON under key, replacing any previous value.
func (r *Repository) Put(ctx context.Context, key, scope string, generation int64, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}

	entry := Entry{
		Key:        key,
		Scope:      scope,
		Payload:    string(payload),
		Generation: generation,
		UpdatedAt:  r.now(),
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"scope", "payload", "generation", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Get decodes the entry stored under key into v. It reports false when there
// is no such entry.
func (r *Repository) Get(ctx context.Context, key string, v any) (bool, error) {
	var entry Entry
	err := r.db.WithContext(ctx).Where("cache_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(entry.Payload), v); err != nil {
		return false, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the given keys.
func (r *Repository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("cache_key IN ?", keys).Delete(&Entry{}).Error
}

// InvalidateScope removes every entry in the given scopes.
func (r *Repository) InvalidateScope(ctx context.Context, scopes ...string) error {
	if len(scopes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("scope IN ?", scopes).Delete(&Entry{}).Error
}

// Purge removes all snapshot entries, e.g. after logout.
func (r *Repository) Purge(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&Entry{}).Error
}

// AddPendingImage queues an attachment for a later upload.
func (r *Repository) AddPendingImage(ctx context.Context, transactionID, table, filename string, data []byte) (*PendingImage, error) {
	p := &PendingImage{
		TransactionID: transactionID,
		Table:         table,
		Filename:      filename,
		Data:          base64.StdEncoding.EncodeToString(data),
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("queueing pending image: %w", err)
	}
	return p, nil
}

// PendingImages lists queued attachments, oldest first.
func (r *Repository) PendingImages(ctx context.Context) ([]PendingImage, error) {
	var out []PendingImage
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing pending images: %w", err)
	}
	return out, nil
}

// PendingImagesFor lists queued attachments of one transaction.
func (r *Repository) PendingImagesFor(ctx context.Context, transactionID string) ([]PendingImage, error) {
	var out []PendingImage
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing pending images: %w", err)
	}
	return out, nil
}

// MarkPendingImageFailed records one more failed attempt.
func (r *Repository) MarkPendingImageFailed(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return r.db.WithContext(ctx).Model(&PendingImage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": msg,
			"updated_at": r.now(),
		}).Error
}

// DeletePendingImage removes an attachment from the queue.
func (r *Repository) DeletePendingImage(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&PendingImage{}).Error
}

// DeletePendingImagesFor drops every queued attachment of a transaction.
func (r *Repository) DeletePendingImagesFor(ctx context.Context, transactionID string) error {
	return r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Delete(&PendingImage{}).Error
}

// Bytes decodes the stored image data.
func (p *PendingImage) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.Data)
}

// SaveSession implements session.Store.
func (r *Repository) SaveSession(ctx context.Context, sealed string) error {
	rec := SessionRecord{ID: sessionRowID, Sealed: sealed, UpdatedAt: r.now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"sealed", "updated_at"}),
		}).
		Create(&rec).Error
}

// LoadSession implements session.Store.
func (r *Repository) LoadSession(ctx context.Context) (string, error) {
	var rec SessionRecord
	err := r.db.WithContext(ctx).Where("id = ?", sessionRowID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", session.ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return rec.Sealed, nil
}

// ClearSession implements session.Store.
func (r *Repository) ClearSession(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("id = ?", sessionRowID).Delete(&SessionRecord{}).Error
}

var _ session.Store = (*Repository)(nil)
