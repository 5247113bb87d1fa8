package repository

import (
	"context"
	"errors"

	"github.com/stagebook/stagebook-api/internal/crypto"
	"github.com/stagebook/stagebook-api/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access.
// Phone numbers are encrypted before writes and decrypted after reads.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id uint, role string) error
}

type userRepository struct {
	db     *gorm.DB
	cipher *crypto.FieldCipher
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, cipher *crypto.FieldCipher) UserRepository {
	return &userRepository{db: db, cipher: cipher}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("discarded_at IS NULL").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	r.cipher.DecryptCustomer(&user)
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND discarded_at IS NULL", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	r.cipher.DecryptCustomer(&user)
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	r.cipher.EncryptCustomer(user)
	defer r.cipher.DecryptCustomer(user)

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKeyError(err, "users_email_key") {
			return errors.New("a user with this email already exists")
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	r.cipher.EncryptCustomer(user)
	defer r.cipher.DecryptCustomer(user)
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role).Error
}
