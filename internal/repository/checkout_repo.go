package repository

import (
	"context"

	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
)

// CheckoutRepository checkout session data access
type CheckoutRepository struct {
	db *gorm.DB
}

// NewCheckoutRepository creates a new CheckoutRepository
func NewCheckoutRepository(db *gorm.DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// Create inserts a session
func (r *CheckoutRepository) Create(ctx context.Context, s *domain.CheckoutSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindByOrderID finds a session by its order id
func (r *CheckoutRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.CheckoutSession, error) {
	var s domain.CheckoutSession
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&s).Error; err != nil {
		return nil, wrapNotFound(err, "checkout", orderID)
	}
	return &s, nil
}

// TransitionStatus moves a pending session to status. It reports false when the
// session was no longer pending, which makes webhook redelivery a no-op.
func (r *CheckoutRepository) TransitionStatus(ctx context.Context, orderID, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.CheckoutSession{}).
		Where("order_id = ? AND status = ?", orderID, domain.CheckoutPending).
		Update("status", status)
	return res.RowsAffected == 1, res.Error
}

// SetRedirect stores the checkout page URL
func (r *CheckoutRepository) SetRedirect(ctx context.Context, orderID, url string) error {
	return r.db.WithContext(ctx).Model(&domain.CheckoutSession{}).
		Where("order_id = ?", orderID).Update("redirect_url", url).Error
}
