package usecase

import (
	"context"
	"time"

	"github.com/spf13/viper"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/utils"
)

// DiscountPolicy adjusts the commission of a settling order. The ledger
// clamps whatever comes back to [0, commission]; a policy can only ever
// lower the platform's cut.
type DiscountPolicy func(ctx context.Context, rider *entity.Rider, commission int64) int64

// NewGoldDiscountPolicy reduces commission by a configured percentage
// while the rider's merit (gold) status is unexpired.
func NewGoldDiscountPolicy(v *viper.Viper, clock func() time.Time) DiscountPolicy {
	return func(ctx context.Context, rider *entity.Rider, commission int64) int64 {
		if rider == nil || !rider.GoldActive(clock()) {
			return commission
		}
		pct := v.GetFloat64("ledger.gold_discount_pct")
		if pct <= 0 {
			return commission
		}
		discount := utils.RoundHalfUp(float64(commission) * pct / 100.0)
		return commission - discount
	}
}
