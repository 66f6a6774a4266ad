package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"roomdesk-backend/models"
)

// UserService manages tenant staff accounts and credential checks.
type UserService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewUserService(db *gorm.DB, now func() time.Time) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{DB: db, Now: now}
}

func (s *UserService) ListUsers(siteID uint) ([]models.User, error) {
	var users []models.User
	err := s.DB.
		Where("site_config_id = ?", siteID).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser adds a staff or admin account to a site. Usernames are unique
// across the whole platform, since login does not carry a site.
func (s *UserService) CreateUser(siteID uint, username, password, role, actor string) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleStaff {
		role = models.RoleStaff
	}

	var user models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if count > 0 {
			return ErrDuplicateUsername
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user = models.User{
			SiteConfigID: &siteID,
			Username:     username,
			PasswordHash: string(hash),
			Role:         role,
		}
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicateEntry(err) {
				return ErrDuplicateUsername
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		audit := &AuditService{DB: tx, Now: s.Now}
		return audit.Log(siteID, actor, "Create User", username, fmt.Sprintf("Role: %s", role))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a site account. Not audited.
func (s *UserService) DeleteUser(siteID, userID uint) error {
	res := s.DB.Where("site_config_id = ?", siteID).Delete(&models.User{}, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Authenticate checks a username and password against the store. Accounts of
// a deactivated site cannot log in.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("SiteConfig").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if user.SiteConfig != nil && !user.SiteConfig.IsActive {
		return nil, ErrAccountDisabled
	}
	return &user, nil
}

// ChangeOwnPassword lets a user rotate their own credential after proving
// the current one.
func (s *UserService) ChangeOwnPassword(userID uint, currentPassword, newPassword string) error {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(s.DB, &user, newPassword)
}

// ChangeStaffPassword rotates the password of a site's first staff account,
// the shared front-desk login.
func (s *UserService) ChangeStaffPassword(siteID uint, newPassword, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.
			Where("site_config_id = ? AND role = ?", siteID, models.RoleStaff).
			Order("id ASC").
			First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load staff user: %w", err)
		}
		if err := s.setPassword(tx, &user, newPassword); err != nil {
			return err
		}
		audit := &AuditService{DB: tx, Now: s.Now}
		detail := fmt.Sprintf("Password changed by %s", actor)
		return audit.Log(siteID, actor, "Security", "Staff Password", detail)
	})
}

// UpdateUserPassword sets a new password for any account of the site.
func (s *UserService) UpdateUserPassword(siteID, userID uint, newPassword string) error {
	var user models.User
	err := s.DB.Where("site_config_id = ?", siteID).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	return s.setPassword(s.DB, &user, newPassword)
}

func (s *UserService) setPassword(db *gorm.DB, user *models.User, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
