package services

import (
	"skinlib-api/config"
)

// Calculator prices texture storage. All amounts are score.
type Calculator struct {
	publicRate  int64
	privateRate int64
	closetFee   int64
}

func NewCalculator(cfg config.Skinlib) Calculator {
	return Calculator{
		publicRate:  cfg.PublicRatePerKB,
		privateRate: cfg.PrivateRatePerKB,
		closetFee:   cfg.PerClosetItemFee,
	}
}

func (c Calculator) rate(public bool) int64 {
	if public {
		return c.publicRate
	}
	return c.privateRate
}

// UploadCost includes the fee for the closet entry the uploader receives.
func (c Calculator) UploadCost(sizeKB int64, public bool) int64 {
	return sizeKB*c.rate(public) + c.closetFee
}

func (c Calculator) RefundOnDelete(sizeKB int64, public bool) int64 {
	return sizeKB * c.rate(public)
}

// PrivacyToggleDelta is the amount charged to the uploader when visibility
// flips away from fromPublic. A negative value is a refund.
func (c Calculator) PrivacyToggleDelta(sizeKB int64, fromPublic bool) int64 {
	d := sizeKB * (c.privateRate - c.publicRate)
	if fromPublic {
		return d
	}
	return -d
}

func (c Calculator) ClosetItemFee() int64 { return c.closetFee }
