package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roomdesk-backend/models"
)

// extensionCacheTTL bounds how long a stale extension-to-site mapping can
// survive a rename or deletion.
const extensionCacheTTL = 5 * time.Minute

// SiteService manages tenant sites: the public storefront lookup, per-site
// settings, hero images, and the owner-level provisioning operations.
type SiteService struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *zap.Logger
	Now    func() time.Time
}

func NewSiteService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger, now func() time.Time) *SiteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &SiteService{DB: db, Redis: rdb, Logger: logger, Now: now}
}

func extensionCacheKey(extension string) string {
	return "site_ext:" + extension
}

// ResolveExtension maps a public URL extension to a site id, through Redis
// when available. Inactive sites resolve too; callers that serve guest
// traffic must check IsActive on the loaded row.
func (s *SiteService) ResolveExtension(ctx context.Context, extension string) (uint, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, extensionCacheKey(extension)).Result()
		if err == nil {
			id, convErr := strconv.ParseUint(cached, 10, 64)
			if convErr == nil {
				return uint(id), nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.Logger.Warn("extension cache read failed", zap.Error(err))
		}
	}

	var site models.SiteConfig
	err := s.DB.Select("id").Where("extension = ?", extension).First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSiteNotFound
		}
		return 0, fmt.Errorf("failed to resolve extension: %w", err)
	}

	if s.Redis != nil {
		key := extensionCacheKey(extension)
		if err := s.Redis.Set(ctx, key, strconv.FormatUint(uint64(site.ID), 10), extensionCacheTTL).Err(); err != nil {
			s.Logger.Warn("extension cache write failed", zap.Error(err))
		}
	}
	return site.ID, nil
}

func (s *SiteService) invalidateExtension(ctx context.Context, extension string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, extensionCacheKey(extension)).Err(); err != nil {
		s.Logger.Warn("extension cache invalidation failed", zap.Error(err))
	}
}

// GetActiveSite loads a site by id for guest traffic; deactivated sites are
// treated as missing.
func (s *SiteService) GetActiveSite(siteID uint) (*models.SiteConfig, error) {
	site, err := s.GetSettings(siteID)
	if err != nil {
		return nil, err
	}
	if !site.IsActive {
		return nil, ErrSiteNotFound
	}
	return site, nil
}

func (s *SiteService) GetSettings(siteID uint) (*models.SiteConfig, error) {
	var site models.SiteConfig
	err := s.DB.Preload("HeroImages").First(&site, siteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to load site settings: %w", err)
	}
	return &site, nil
}

// SettingsInput carries a partial settings update; nil fields are left
// untouched.
type SettingsInput struct {
	HotelName              *string
	Highlights             *string
	AboutDescription       *string
	AmenitiesList          datatypes.JSON
	Rules                  *string
	ContactEmail           *string
	ContactPhone           *string
	Address                *string
	MapURL                 *string
	FacebookURL            *string
	InstagramURL           *string
	YoutubeURL             *string
	ThemeID                *string
	BookingExpirationHours *int
	BookingSuccessMessage  *string
}

func (s *SiteService) UpdateSettings(siteID uint, in SettingsInput) (*models.SiteConfig, error) {
	updates := map[string]interface{}{}
	if in.HotelName != nil {
		updates["hotel_name"] = *in.HotelName
	}
	if in.Highlights != nil {
		updates["highlights"] = *in.Highlights
	}
	if in.AboutDescription != nil {
		updates["about_description"] = *in.AboutDescription
	}
	if in.AmenitiesList != nil {
		updates["amenities_list"] = in.AmenitiesList
	}
	if in.Rules != nil {
		updates["rules"] = *in.Rules
	}
	if in.ContactEmail != nil {
		updates["contact_email"] = *in.ContactEmail
	}
	if in.ContactPhone != nil {
		updates["contact_phone"] = *in.ContactPhone
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.MapURL != nil {
		updates["map_url"] = *in.MapURL
	}
	if in.FacebookURL != nil {
		updates["facebook_url"] = *in.FacebookURL
	}
	if in.InstagramURL != nil {
		updates["instagram_url"] = *in.InstagramURL
	}
	if in.YoutubeURL != nil {
		updates["youtube_url"] = *in.YoutubeURL
	}
	if in.ThemeID != nil {
		updates["theme_id"] = *in.ThemeID
	}
	if in.BookingExpirationHours != nil {
		updates["booking_expiration_hours"] = *in.BookingExpirationHours
	}
	if in.BookingSuccessMessage != nil {
		updates["booking_success_message"] = *in.BookingSuccessMessage
	}

	site, err := s.GetSettings(siteID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return site, nil
	}
	if err := s.DB.Model(site).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update site settings: %w", err)
	}
	return s.GetSettings(siteID)
}

// AddHeroImages registers landing-page slider URLs for a site.
func (s *SiteService) AddHeroImages(siteID uint, urls []string, actor string) ([]models.HeroImage, error) {
	images := make([]models.HeroImage, 0, len(urls))
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, url := range urls {
			img := models.HeroImage{SiteConfigID: siteID, URL: url}
			if err := tx.Create(&img).Error; err != nil {
				return fmt.Errorf("failed to create hero image: %w", err)
			}
			images = append(images, img)
		}
		audit := &AuditService{DB: tx, Now: s.Now}
		detail := fmt.Sprintf("Uploaded %d images", len(urls))
		return audit.Log(siteID, actor, "Upload Photos", "Hero Slider", detail)
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteHeroImage drops one slider image. Not audited.
func (s *SiteService) DeleteHeroImage(siteID, imageID uint) error {
	res := s.DB.Where("site_config_id = ?", siteID).Delete(&models.HeroImage{}, imageID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete hero image: %w", res.Error)
	}
	return nil
}

// ListSites returns every tenant site for the owner console.
func (s *SiteService) ListSites() ([]models.SiteConfig, error) {
	var sites []models.SiteConfig
	if err := s.DB.Order("id ASC").Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}

// CreateSiteInput provisions a tenant: the URL extension plus the initial
// admin and staff credentials.
type CreateSiteInput struct {
	Extension     string
	HotelName     string
	AdminPassword string
	StaffPassword string
}

// CreateSite provisions a new tenant with its two conventional accounts,
// "<extension>_ad" (admin) and "<extension>_user" (staff).
func (s *SiteService) CreateSite(in CreateSiteInput) (*models.SiteConfig, error) {
	var site models.SiteConfig
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SiteConfig{}).Where("extension = ?", in.Extension).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check extension: %w", err)
		}
		if count > 0 {
			return ErrDuplicateExtension
		}

		site = models.SiteConfig{
			Extension: in.Extension,
			HotelName: in.HotelName,
			IsActive:  true,
		}
		if err := tx.Create(&site).Error; err != nil {
			if isDuplicateEntry(err) {
				return ErrDuplicateExtension
			}
			return fmt.Errorf("failed to create site: %w", err)
		}

		accounts := []struct {
			suffix   string
			role     string
			password string
		}{
			{"_ad", models.RoleAdmin, in.AdminPassword},
			{"_user", models.RoleStaff, in.StaffPassword},
		}
		for _, a := range accounts {
			hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user := models.User{
				SiteConfigID: &site.ID,
				Username:     in.Extension + a.suffix,
				PasswordHash: string(hash),
				Role:         a.role,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create site user: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("site provisioned",
		zap.Uint("site_id", site.ID),
		zap.String("extension", site.Extension),
	)
	return &site, nil
}

// PatchSiteInput is the owner-level partial update.
type PatchSiteInput struct {
	HotelName *string
	IsActive  *bool
	ThemeID   *string
}

func (s *SiteService) PatchSite(ctx context.Context, siteID uint, in PatchSiteInput) (*models.SiteConfig, error) {
	site, err := s.GetSettings(siteID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.HotelName != nil {
		updates["hotel_name"] = *in.HotelName
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.ThemeID != nil {
		updates["theme_id"] = *in.ThemeID
	}
	if len(updates) > 0 {
		if err := s.DB.Model(site).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to patch site: %w", err)
		}
		s.invalidateExtension(ctx, site.Extension)
	}
	return s.GetSettings(siteID)
}

// DeleteSite removes a tenant and everything it owns. Deletion order runs
// child tables first so no foreign key is left dangling mid-transaction.
func (s *SiteService) DeleteSite(ctx context.Context, siteID uint) error {
	site, err := s.GetSettings(siteID)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var typeIDs []uint
		err := tx.Model(&models.RoomType{}).
			Where("site_config_id = ?", siteID).
			Pluck("id", &typeIDs).Error
		if err != nil {
			return fmt.Errorf("failed to list room types: %w", err)
		}

		siteScoped := []interface{}{
			&models.AuditLog{},
			&models.Visitor{},
			&models.MaintenanceBlock{},
			&models.Booking{},
			&models.SeasonalRate{},
			&models.HeroImage{},
			&models.User{},
		}
		for _, m := range siteScoped {
			if err := tx.Where("site_config_id = ?", siteID).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete site records: %w", err)
			}
		}

		if len(typeIDs) > 0 {
			if err := tx.Where("room_type_id IN ?", typeIDs).Delete(&models.RoomUnit{}).Error; err != nil {
				return fmt.Errorf("failed to delete room units: %w", err)
			}
			if err := tx.Where("room_type_id IN ?", typeIDs).Delete(&models.RoomImage{}).Error; err != nil {
				return fmt.Errorf("failed to delete room images: %w", err)
			}
			if err := tx.Where("site_config_id = ?", siteID).Delete(&models.RoomType{}).Error; err != nil {
				return fmt.Errorf("failed to delete room types: %w", err)
			}
		}

		if err := tx.Delete(&models.SiteConfig{}, siteID).Error; err != nil {
			return fmt.Errorf("failed to delete site: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateExtension(ctx, site.Extension)
	s.Logger.Info("site deleted",
		zap.Uint("site_id", siteID),
		zap.String("extension", site.Extension),
	)
	return nil
}

// resetPasswordValue is what owner-triggered resets set; the tenant is told
// out of band and expected to change it.
const resetPasswordValue = "ResetToday"

// ResetPassword sets the first account of the given role on a site back to
// the well-known reset value.
func (s *SiteService) ResetPassword(siteID uint, role string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.
			Where("site_config_id = ? AND role = ?", siteID, role).
			Order("id ASC").
			First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(resetPasswordValue), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := tx.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			return fmt.Errorf("failed to reset password: %w", err)
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		return audit.Log(siteID, "Owner", "Password Reset", fmt.Sprintf("%s User", role), "Reset")
	})
}
