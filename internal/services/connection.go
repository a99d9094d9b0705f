package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/qrsona/internal/models"
	"gorm.io/gorm"
)

type ConnectionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewConnectionService(db *gorm.DB) *ConnectionService {
	return &ConnectionService{db: db, now: time.Now}
}

// Create writes one directed record. Both profiles must exist and the
// (source, target) pair must be new.
func (s *ConnectionService) Create(ctx context.Context, req models.CreateConnectionRequest) (*models.Connection, error) {
	if req.ProfileID == req.ConnectUserProfileID {
		return nil, ErrSelfConnection
	}
	db := s.db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.Profile{}).Where("id IN ?", []uint{req.ProfileID, req.ConnectUserProfileID}).Count(&n).Error; err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, ErrProfileNotFound
	}
	if err := db.Model(&models.Connection{}).
		Where("profile_id = ? AND connect_user_profile_id = ?", req.ProfileID, req.ConnectUserProfileID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicate
	}

	c := models.Connection{
		ProfileID:            req.ProfileID,
		ConnectUserProfileID: req.ConnectUserProfileID,
		EventName:            req.EventName,
		EventDate:            req.EventDate,
		Memo:                 req.Memo,
		ConnectedAt:          s.now(),
	}
	if err := db.Create(&c).Error; err != nil {
		// lost a race with a concurrent create of the same pair
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &c, nil
}

// ListBySource returns the records whose source is profileID, most recent
// first.
func (s *ConnectionService) ListBySource(ctx context.Context, profileID uint) ([]models.Connection, error) {
	conns := []models.Connection{}
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("connected_at DESC").Order("id DESC").
		Find(&conns).Error
	return conns, err
}

func (s *ConnectionService) Get(ctx context.Context, id uint) (*models.Connection, error) {
	var c models.Connection
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update replaces the event metadata. Endpoints never change.
func (s *ConnectionService) Update(ctx context.Context, id uint, meta models.EventMeta) (*models.Connection, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(c).Select("event_name", "event_date", "memo").Updates(models.Connection{
		EventName: meta.EventName,
		EventDate: meta.EventDate,
		Memo:      meta.Memo,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ConnectionService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Connection{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
