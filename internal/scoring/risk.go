// Package scoring implements the privacy scoring engine: a weighted,
// normalized score over a user's tracked services, with trend tracking
// and human-readable insights.
package scoring

import "github.com/akarlov/privacymeter/internal/models"

// Sub-score weights. They must sum to 1.0.
const (
	// WeightDataCollection weighs how much data services collect.
	WeightDataCollection = 0.35
	// WeightDataSharing weighs how much data is shared externally.
	WeightDataSharing = 0.25
	// WeightUserControl weighs how much control the user has.
	WeightUserControl = 0.25
	// WeightPreferenceMatch weighs how well services match preferences.
	WeightPreferenceMatch = 0.15
)

// riskMultipliers maps category kinds to risk multipliers. Identity,
// biometric, financial, and health data outrank behavioral and device
// data; kinds missing from the table carry the neutral multiplier 1.0.
var riskMultipliers = map[models.CategoryKind]float64{
	// High-risk data types
	models.KindGovernmentID:     3.0,
	models.KindSocialSecurity:   3.0,
	models.KindFinancialHistory: 2.8,
	models.KindHealthRecords:    2.8,
	models.KindPreciseLocation:  2.5,
	models.KindFingerprints:     2.5,
	models.KindFaceID:           2.5,

	// Medium-high risk
	models.KindCreditCardInfo:  2.2,
	models.KindPhoneNumber:     2.0,
	models.KindContactsList:    2.0,
	models.KindPhotos:          1.8,
	models.KindLocationHistory: 1.8,

	// Medium risk
	models.KindEmailAddress:    1.5,
	models.KindBrowsingHistory: 1.5,
	models.KindPurchaseHistory: 1.5,
	models.KindFullName:        1.3,

	// Lower risk
	models.KindApproximateLocation: 1.2,
	models.KindDeviceSpecs:         1.0,
	models.KindAppUsage:            1.0,
}

// RiskMultiplier returns the risk multiplier for a category kind.
// Unknown kinds return 1.0.
func RiskMultiplier(kind models.CategoryKind) float64 {
	if m, ok := riskMultipliers[kind]; ok {
		return m
	}
	return 1.0
}
