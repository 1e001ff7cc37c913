package store

import (
	"context"
	"fmt"

	"gallery-kiosk/internal/realtime"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db  *gorm.DB
	pub realtime.Publisher
}

// NewGormStore wraps db. pub may be nil when nothing listens in-process.
func NewGormStore(db *gorm.DB, pub realtime.Publisher) *GormStore {
	return &GormStore{db: db, pub: pub}
}

func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) publish(table realtime.Table, op realtime.Op, id string) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(realtime.Change{Table: table, Op: op, ID: id})
}

// ------------------------------
// scopes
// ------------------------------

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id ASC")
}

func byID(id string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func findOne[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var rows []T
	if err := db.WithContext(ctx).Scopes(byID(id)).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *GormStore) update(ctx context.Context, model any, table realtime.Table, id string, cols map[string]any) error {
	if len(cols) == 0 {
		var n int64
		if err := s.db.WithContext(ctx).Model(model).Scopes(byID(id)).Count(&n).Error; err != nil {
			return fmt.Errorf("update %s %s: %w", table, id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}
	res := s.db.WithContext(ctx).Model(model).Scopes(byID(id)).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update %s %s: %w", table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.publish(table, realtime.OpUpdate, id)
	return nil
}

func (s *GormStore) delete(ctx context.Context, model any, table realtime.Table, id string) error {
	res := s.db.WithContext(ctx).Scopes(byID(id)).Delete(model)
	if res.Error != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.publish(table, realtime.OpDelete, id)
	return nil
}

// ------------------------------
// artworks
// ------------------------------

func (s *GormStore) ListArtworks(ctx context.Context) ([]ArtworkRecord, error) {
	var rows []ArtworkRecord
	if err := s.db.WithContext(ctx).Scopes(newestFirst).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list artworks: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetArtwork(ctx context.Context, id string) (*ArtworkRecord, error) {
	rec, err := findOne[ArtworkRecord](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("get artwork %s: %w", id, err)
	}
	return rec, nil
}

func (s *GormStore) InsertArtwork(ctx context.Context, rec *ArtworkRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert artwork: %w", err)
	}
	s.publish(realtime.TableArtworks, realtime.OpInsert, rec.ID)
	return nil
}

func (s *GormStore) UpdateArtwork(ctx context.Context, id string, cols map[string]any) error {
	return s.update(ctx, &ArtworkRecord{}, realtime.TableArtworks, id, cols)
}

func (s *GormStore) DeleteArtwork(ctx context.Context, id string) error {
	return s.delete(ctx, &ArtworkRecord{}, realtime.TableArtworks, id)
}

// ------------------------------
// exhibitions
// ------------------------------

func (s *GormStore) ListExhibitions(ctx context.Context) ([]ExhibitionRecord, error) {
	var rows []ExhibitionRecord
	if err := s.db.WithContext(ctx).Scopes(newestFirst).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list exhibitions: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetExhibition(ctx context.Context, id string) (*ExhibitionRecord, error) {
	rec, err := findOne[ExhibitionRecord](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("get exhibition %s: %w", id, err)
	}
	return rec, nil
}

// GetActiveExhibition returns the newest active row. More than one can only
// be observed inside an interrupted activation.
func (s *GormStore) GetActiveExhibition(ctx context.Context) (*ExhibitionRecord, error) {
	var rows []ExhibitionRecord
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Scopes(newestFirst).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get active exhibition: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *GormStore) InsertExhibition(ctx context.Context, rec *ExhibitionRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert exhibition: %w", err)
	}
	s.publish(realtime.TableExhibitions, realtime.OpInsert, rec.ID)
	return nil
}

func (s *GormStore) UpdateExhibition(ctx context.Context, id string, cols map[string]any) error {
	return s.update(ctx, &ExhibitionRecord{}, realtime.TableExhibitions, id, cols)
}

func (s *GormStore) DeleteExhibition(ctx context.Context, id string) error {
	return s.delete(ctx, &ExhibitionRecord{}, realtime.TableExhibitions, id)
}

func (s *GormStore) ClearActiveExhibitions(ctx context.Context, exceptID string) (int64, error) {
	q := s.db.WithContext(ctx).Model(&ExhibitionRecord{}).Where("is_active = ?", true)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	res := q.Update("is_active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("clear active exhibitions: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.publish(realtime.TableExhibitions, realtime.OpUpdate, "")
	}
	return res.RowsAffected, nil
}

// ------------------------------
// reservations
// ------------------------------

func (s *GormStore) ListReservations(ctx context.Context) ([]ReservationRecord, error) {
	var rows []ReservationRecord
	if err := s.db.WithContext(ctx).Scopes(newestFirst).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return rows, nil
}

func (s *GormStore) GetReservation(ctx context.Context, id string) (*ReservationRecord, error) {
	rec, err := findOne[ReservationRecord](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation %s: %w", id, err)
	}
	return rec, nil
}

func (s *GormStore) InsertReservation(ctx context.Context, rec *ReservationRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	s.publish(realtime.TableReservations, realtime.OpInsert, rec.ID)
	return nil
}

func (s *GormStore) UpdateReservation(ctx context.Context, id string, cols map[string]any) error {
	return s.update(ctx, &ReservationRecord{}, realtime.TableReservations, id, cols)
}

func (s *GormStore) DeleteReservation(ctx context.Context, id string) error {
	return s.delete(ctx, &ReservationRecord{}, realtime.TableReservations, id)
}

// ------------------------------
// snapshot + transactions
// ------------------------------

func (s *GormStore) UpsertSnapshot(ctx context.Context, artworks []ArtworkRecord, exhibitions []ExhibitionRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(artworks) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(artworkColumns),
			}).CreateInBatches(&artworks, 100).Error
			if err != nil {
				return fmt.Errorf("upsert artworks: %w", err)
			}
		}
		if len(exhibitions) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(exhibitionColumns),
			}).CreateInBatches(&exhibitions, 100).Error
			if err != nil {
				return fmt.Errorf("upsert exhibitions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(artworks) > 0 {
		s.publish(realtime.TableArtworks, realtime.OpUpdate, "")
	}
	if len(exhibitions) > 0 {
		s.publish(realtime.TableExhibitions, realtime.OpUpdate, "")
	}
	return nil
}

type pendingChanges struct {
	changes []realtime.Change
}

func (p *pendingChanges) Publish(c realtime.Change) {
	p.changes = append(p.changes, c)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	pending := &pendingChanges{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, pub: pending})
	})
	if err != nil {
		return err
	}
	if s.pub != nil {
		for _, c := range pending.changes {
			s.pub.Publish(c)
		}
	}
	return nil
}

var _ Store = (*GormStore)(nil)
