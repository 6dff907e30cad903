package services

import (
	"TeleClinic/models"
	"TeleClinic/repositories"
	"TeleClinic/utils"
	"context"
	"time"
)

// CouponService manages the admin-owned discount coupons.
type CouponService struct {
	couponRepo *repositories.CouponRepository
}

func NewCouponService(couponRepo *repositories.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

func (s *CouponService) Create(ctx context.Context, in utils.CouponInput) (*models.Coupon, error) {
	if err := utils.ValidateCouponInput(in, time.Now()); err != nil {
		return nil, err
	}
	coupon := &models.Coupon{
		Code:           in.Code,
		Discount:       in.Discount,
		ExpirationDate: in.ExpirationDate,
		IsActive:       in.IsActive,
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	return s.couponRepo.List(ctx)
}

// Check resolves a code for the booking form, returning the coupon only if it
// is currently usable.
func (s *CouponService) Check(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !coupon.Usable(time.Now()) {
		return nil, ErrCouponNotUsable
	}
	return coupon, nil
}

func (s *CouponService) SetActive(ctx context.Context, code string, active bool) error {
	return s.couponRepo.SetActive(ctx, code, active)
}

func (s *CouponService) Delete(ctx context.Context, code string) error {
	return s.couponRepo.Delete(ctx, code)
}
