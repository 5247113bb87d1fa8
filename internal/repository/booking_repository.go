package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stagebook/stagebook-api/internal/crypto"
	"github.com/stagebook/stagebook-api/internal/models"
	"gorm.io/gorm"
)

// BookingRepository defines the interface for booking data access.
// The sensitive event fields are encrypted before every write and decrypted
// after every read, so rows on disk never hold their plaintext.
type BookingRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByNumber(ctx context.Context, number string) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, limit, offset int) ([]models.Booking, int64, error)
}

type bookingRepository struct {
	db     *gorm.DB
	cipher *crypto.FieldCipher
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB, cipher *crypto.FieldCipher) BookingRepository {
	return &bookingRepository{db: db, cipher: cipher}
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	r.cipher.DecryptBooking(&booking)
	return &booking, nil
}

func (r *bookingRepository) FindByNumber(ctx context.Context, number string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("booking_number = ?", number).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	r.cipher.DecryptBooking(&booking)
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	r.cipher.EncryptBooking(booking)
	defer r.cipher.DecryptBooking(booking)

	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		if isDuplicateKeyError(err, "bookings_booking_number_key") {
			return errors.New("a booking with this booking number already exists")
		}
		return err
	}
	return nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	r.cipher.EncryptBooking(booking)
	defer r.cipher.DecryptBooking(booking)
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) List(ctx context.Context, limit, offset int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range bookings {
		r.cipher.DecryptBooking(&bookings[i])
	}
	return bookings, total, nil
}

func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
	}
	return false
}
