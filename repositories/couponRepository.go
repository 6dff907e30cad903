package repositories

import (
	"TeleClinic/cache"
	"TeleClinic/database"
	"TeleClinic/models"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

const CouponCacheExpiry = 24 * time.Hour

type CouponRepository struct {
	cache *cache.Cache
}

func NewCouponRepository(cache *cache.Cache) *CouponRepository {
	return &CouponRepository{cache: cache}
}

// Create stores a coupon; codes are unique case-insensitively.
func (r *CouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)

	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Coupon{}).
		Where("code = ?", coupon.Code).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check coupon code: %w", err)
	}
	if count > 0 {
		return ErrCouponCodeExists
	}

	if err := database.DB.WithContext(ctx).Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// GetByCode looks a coupon up by code, case-insensitively.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.ToUpper(code)

	cacheKey := r.getCouponCacheKey(code)
	var cached models.Coupon
	if found, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		log.Printf("Failed to get coupon from cache: %v", err)
	}

	var coupon models.Coupon
	err := database.DB.WithContext(ctx).First(&coupon, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, coupon, CouponCacheExpiry); err != nil {
		log.Printf("Failed to set coupon in cache: %v", err)
	}
	return &coupon, nil
}

// List returns every coupon, newest first.
func (r *CouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := database.DB.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// SetActive flips a coupon's active flag.
func (r *CouponRepository) SetActive(ctx context.Context, code string, active bool) error {
	code = strings.ToUpper(code)
	res := database.DB.WithContext(ctx).Model(&models.Coupon{}).
		Where("code = ?", code).
		Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to update coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := r.cache.Delete(ctx, r.getCouponCacheKey(code)); err != nil {
		log.Printf("Failed to delete coupon cache: %v", err)
	}
	return nil
}

// Delete removes a coupon entirely.
func (r *CouponRepository) Delete(ctx context.Context, code string) error {
	code = strings.ToUpper(code)
	res := database.DB.WithContext(ctx).Where("code = ?", code).Delete(&models.Coupon{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := r.cache.Delete(ctx, r.getCouponCacheKey(code)); err != nil {
		log.Printf("Failed to delete coupon cache: %v", err)
	}
	return nil
}

func (r *CouponRepository) getCouponCacheKey(code string) string {
	return fmt.Sprintf("coupon_cache:%s", code)
}
