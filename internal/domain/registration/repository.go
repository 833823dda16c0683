package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type draftRow struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	Role      string    `gorm:"column:role;size:16"`
	Blob      []byte    `gorm:"column:blob;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (draftRow) TableName() string { return "registration_drafts" }

// SQLStore keeps sealed sessions in a relational table through gorm.
type SQLStore struct {
	db    *gorm.DB
	codec *Codec
}

func NewSQLStore(db *gorm.DB, codec *Codec) *SQLStore {
	return &SQLStore{db: db, codec: codec}
}

func (r *SQLStore) Migrate() error {
	return r.db.AutoMigrate(&draftRow{})
}

func (r *SQLStore) DB() *gorm.DB { return r.db }

func (r *SQLStore) row(s *Session) (*draftRow, error) {
	blob, err := r.codec.Encode(s)
	if err != nil {
		return nil, err
	}
	return &draftRow{
		ID:        s.ID,
		Role:      string(s.Role),
		Blob:      blob,
		ExpiresAt: s.ExpiresAt.UTC(),
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}, nil
}

func (r *SQLStore) Create(ctx context.Context, s *Session) error {
	row, err := r.row(s)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrSessionExists
		}
		return err
	}
	return nil
}

func (r *SQLStore) Save(ctx context.Context, s *Session) error {
	row, err := r.row(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "blob", "expires_at", "updated_at"}),
		}).
		Create(row).Error
}

func (r *SQLStore) Load(ctx context.Context, id string) (*Session, error) {
	var row draftRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.codec.Decode(row.Blob)
}

func (r *SQLStore) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&draftRow{}).Error
}

func (r *SQLStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&draftRow{})
	return res.RowsAffected, res.Error
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
