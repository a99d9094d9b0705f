package services

import (
	"context"
	"errors"

	"github.com/diewo77/qrsona/internal/models"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func orderedChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Options", func(tx *gorm.DB) *gorm.DB { return tx.Order("position, id") }).
		Preload("Links", func(tx *gorm.DB) *gorm.DB { return tx.Order("position, id") })
}

// Create stores a profile owned by userID together with its option fields
// and links, keeping their input order.
func (s *ProfileService) Create(ctx context.Context, userID uint, in models.ProfileInput) (*models.Profile, error) {
	p := models.Profile{UserID: userID}
	applyInput(&p, in)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options", "Links").Create(&p).Error; err != nil {
			return err
		}
		return replaceChildren(tx, p.ID, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, p.ID)
}

func (s *ProfileService) Get(ctx context.Context, id uint) (*models.Profile, error) {
	var p models.Profile
	if err := orderedChildren(s.db.WithContext(ctx)).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// OwnerOf returns the user owning profile id.
func (s *ProfileService) OwnerOf(ctx context.Context, id uint) (uint, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Select("id", "user_id").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrProfileNotFound
	}
	return p.UserID, err
}

// ListByUser returns the profiles of userID, newest first.
func (s *ProfileService) ListByUser(ctx context.Context, userID uint) ([]models.Profile, error) {
	profiles := []models.Profile{}
	err := orderedChildren(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&profiles).Error
	return profiles, err
}

// Update overwrites the non-empty scalar fields of in. Option fields and
// links are replaced as a whole when present in the payload.
func (s *ProfileService) Update(ctx context.Context, id uint, in models.ProfileInput) (*models.Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInput(p, in)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options", "Links").Save(p).Error; err != nil {
			return err
		}
		return replaceChildren(tx, p.ID, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the profile, its option fields and links, and every
// connection that has it as source or target.
func (s *ProfileService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ? OR connect_user_profile_id = ?", id, id).
			Delete(&models.Connection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", id).Delete(&models.OptionField{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", id).Delete(&models.Link{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Profile{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProfileNotFound
		}
		return nil
	})
}

func applyInput(p *models.Profile, in models.ProfileInput) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.DisplayName, in.DisplayName)
	set(&p.Title, in.Title)
	set(&p.Description, in.Description)
	set(&p.AKA, in.AKA)
	set(&p.Hometown, in.Hometown)
	set(&p.Birthdate, in.Birthdate)
	set(&p.Hobby, in.Hobby)
	set(&p.Comment, in.Comment)
	set(&p.IconURL, in.IconURL)
}

// replaceChildren rewrites option fields and links given in the payload.
// A nil slice leaves the stored rows alone.
func replaceChildren(tx *gorm.DB, profileID uint, in models.ProfileInput) error {
	if in.Options != nil {
		if err := tx.Where("profile_id = ?", profileID).Delete(&models.OptionField{}).Error; err != nil {
			return err
		}
		for i, o := range in.Options {
			row := models.OptionField{ProfileID: profileID, Position: i, Title: o.Title, Content: o.Content}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
	}
	if in.Links != nil {
		if err := tx.Where("profile_id = ?", profileID).Delete(&models.Link{}).Error; err != nil {
			return err
		}
		for i, l := range in.Links {
			row := models.Link{
				ProfileID:   profileID,
				Position:    i,
				Title:       l.Title,
				URL:         l.URL,
				Description: l.Description,
				ImageURL:    l.ImageURL,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
