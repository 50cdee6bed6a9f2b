// Package summary derives the money breakdowns shown to the buyer from the
// current cart and home-trial state. It holds no state of its own.
package summary

import (
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
)

type Input struct {
	Lines          []domain.CartLineItem
	TrialItemCount int
	Coupon         *domain.Coupon
	Policy         pricing.Policy
}

type OrderSummary struct {
	cart.Totals
	CouponCode string `json:"coupon_code,omitempty"`
	// TotalItems counts cart quantities plus home-trial items.
	TotalItems int `json:"total_items"`
}

func Compute(in Input) OrderSummary {
	s := OrderSummary{
		Totals:     cart.ComputeTotals(in.Lines, in.Coupon, in.Policy),
		TotalItems: cart.ItemCount(in.Lines) + in.TrialItemCount,
	}
	if in.Coupon != nil {
		s.CouponCode = in.Coupon.Code
	}
	return s
}

// FeeSchedule holds the home-trial charges.
type FeeSchedule struct {
	ServiceFee       pricing.Amount
	DepositPerItem   pricing.Amount
	SecurityDeposit  pricing.Amount
	KeptItemFallback pricing.Amount
}

func DefaultFees() FeeSchedule {
	return FeeSchedule{
		ServiceFee:       499,
		DepositPerItem:   100,
		SecurityDeposit:  1000,
		KeptItemFallback: 2500,
	}
}

type TrialFeeBreakdown struct {
	ServiceFee     pricing.Amount `json:"service_fee"`
	DepositPerItem pricing.Amount `json:"deposit_per_item"`
	ItemCount      int            `json:"item_count"`
	TotalDeposit   pricing.Amount `json:"total_deposit"`
	TotalPayable   pricing.Amount `json:"total_payable"`
}

// TrialFees is what the buyer pays up front for a home trial.
func TrialFees(serviceFee, depositPerItem pricing.Amount, itemCount int) TrialFeeBreakdown {
	deposit := depositPerItem * pricing.Amount(itemCount)
	return TrialFeeBreakdown{
		ServiceFee:     serviceFee,
		DepositPerItem: depositPerItem,
		ItemCount:      itemCount,
		TotalDeposit:   deposit,
		TotalPayable:   serviceFee + deposit,
	}
}

type BillingBreakdown struct {
	ServiceFee      pricing.Amount `json:"service_fee"`
	KeptItemPrice   pricing.Amount `json:"kept_item_price"`
	SecurityDeposit pricing.Amount `json:"security_deposit"`
	TotalDue        pricing.Amount `json:"total_due"`
}

// Billing settles a finished trial. The deposit is credited back; the amount
// due never goes below zero.
func Billing(serviceFee, keptItemPrice, securityDeposit pricing.Amount) BillingBreakdown {
	return BillingBreakdown{
		ServiceFee:      serviceFee,
		KeptItemPrice:   keptItemPrice,
		SecurityDeposit: securityDeposit,
		TotalDue:        max(0, serviceFee+keptItemPrice-securityDeposit),
	}
}

// KeptItemPrice is the price of the item the buyer kept. Only the first item of
// the bag is considered; an empty bag uses fallback.
// TODO: take the kept items from the buyer once returns are recorded per item.
func KeptItemPrice(items []domain.HomeTrialItem, fallback pricing.Amount) pricing.Amount {
	if len(items) == 0 || items[0].Price <= 0 {
		return fallback
	}
	return items[0].Price
}
