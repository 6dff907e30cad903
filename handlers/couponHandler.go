package handlers

import (
	"TeleClinic/services"
	"TeleClinic/utils"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	coupons *services.CouponService
}

func NewCouponHandler(coupons *services.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// CreateCoupon mints a discount coupon (admin only).
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var in utils.CouponInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	coupon, err := h.coupons.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, coupon)
}

// ListCoupons returns every coupon (admin only).
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.coupons.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, coupons)
}

// CheckCoupon resolves a code for the booking form; unusable codes read as
// bad requests so the form can surface the reason.
func (h *CouponHandler) CheckCoupon(c *gin.Context) {
	coupon, err := h.coupons.Check(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, coupon)
}

// SetCouponActive enables or disables a coupon (admin only).
func (h *CouponHandler) SetCouponActive(c *gin.Context) {
	var body struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.coupons.SetActive(c.Request.Context(), c.Param("code"), body.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"is_active": body.IsActive})
}

// DeleteCoupon removes a coupon (admin only).
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.coupons.Delete(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Coupon deleted"})
}
