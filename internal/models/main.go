// Package models defines the core data structures for users, tracked
// services, data-collection metadata, and privacy scores.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Email is the login email chosen by the user.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string
	// CreatedAt is when the account was registered.
	CreatedAt time.Time
}

// Service is a third-party online service that users can track.
type Service struct {
	// ID is the unique identifier for the service.
	ID string `json:"id"`
	// Name is the display name of the service.
	Name string `json:"name"`
	// Domain is the primary web domain of the service.
	Domain string `json:"domain"`
	// Category groups the service ("social_media", "shopping", etc.).
	Category string `json:"category"`
	// IsActive marks whether the service is still offered to users.
	IsActive bool `json:"is_active"`
}

// CategoryKind identifies one type of personal data a service may collect.
type CategoryKind string

// Category kinds, grouped by the nature of the data.
const (
	// Identity data
	KindFullName       CategoryKind = "full_name"
	KindEmailAddress   CategoryKind = "email_address"
	KindPhoneNumber    CategoryKind = "phone_number"
	KindDateOfBirth    CategoryKind = "date_of_birth"
	KindGovernmentID   CategoryKind = "government_id"
	KindSocialSecurity CategoryKind = "social_security"

	// Location data
	KindPreciseLocation     CategoryKind = "precise_location"
	KindApproximateLocation CategoryKind = "approximate_location"
	KindLocationHistory     CategoryKind = "location_history"
	KindIPAddress           CategoryKind = "ip_address"

	// Contact data
	KindContactsList CategoryKind = "contacts_list"
	KindCallHistory  CategoryKind = "call_history"
	KindSMSMessages  CategoryKind = "sms_messages"

	// Media data
	KindPhotos          CategoryKind = "photos"
	KindVideos          CategoryKind = "videos"
	KindAudioRecordings CategoryKind = "audio_recordings"

	// Behavioral data
	KindBrowsingHistory CategoryKind = "browsing_history"
	KindSearchHistory   CategoryKind = "search_history"
	KindAppUsage        CategoryKind = "app_usage"
	KindPurchaseHistory CategoryKind = "purchase_history"

	// Biometric data
	KindFingerprints CategoryKind = "fingerprints"
	KindFaceID       CategoryKind = "face_id"
	KindVoicePrint   CategoryKind = "voice_print"

	// Financial data
	KindCreditCardInfo   CategoryKind = "credit_card_info"
	KindBankAccount      CategoryKind = "bank_account"
	KindFinancialHistory CategoryKind = "financial_history"

	// Health data
	KindHealthRecords CategoryKind = "health_records"
	KindFitnessData   CategoryKind = "fitness_data"

	// Device data
	KindDeviceSpecs CategoryKind = "device_specs"
)

// DataCategory records one type of personal data a service collects,
// together with the collection terms. A kind appears at most once per
// service.
type DataCategory struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// ServiceID references the owning Service.
	ServiceID string `json:"service_id"`
	// Kind is the type of personal data.
	Kind CategoryKind `json:"kind"`
	// IsCollected is whether the service collects this data type.
	IsCollected bool `json:"is_collected"`
	// IsRequired is whether providing the data is mandatory.
	IsRequired bool `json:"is_required"`
	// IsSharedWithThirdParties is whether the data leaves the service.
	IsSharedWithThirdParties bool `json:"is_shared_with_third_parties"`
	// OptOutAvailable is whether the user can opt out of collection.
	OptOutAvailable bool `json:"opt_out_available"`
	// CanBeDeleted is whether the user can delete the data.
	CanBeDeleted bool `json:"can_be_deleted"`
	// RiskScore is an optional externally assessed 0-100 risk score.
	RiskScore *float64 `json:"risk_score,omitempty"`
}

// PolicyType identifies the kind of analyzed policy document.
type PolicyType string

const (
	// PrivacyPolicy is a service's privacy policy.
	PrivacyPolicy PolicyType = "privacy_policy"
	// TermsOfService is a service's terms of service.
	TermsOfService PolicyType = "terms_of_service"
)

// Policy holds externally computed sub-scores for a service's policy
// document. At most one current policy exists per (service, type) pair.
type Policy struct {
	// ID is the unique identifier for the policy record.
	ID string
	// ServiceID references the owning Service.
	ServiceID string
	// Type is the policy document type.
	Type PolicyType
	// DataSharingScore is 0-100 where 100 is the most sharing. Nil when
	// the analysis has not produced one.
	DataSharingScore *float64
	// UserControlScore is 0-100 where 100 is the most user control.
	UserControlScore *float64
	// IsCurrent marks the authoritative policy for the service.
	IsCurrent bool
}

// ServiceStatus is the user's relationship to a tracked service.
type ServiceStatus string

const (
	// StatusActive means the user currently uses the service.
	StatusActive ServiceStatus = "active"
	// StatusInactive means the user stopped using the service.
	StatusInactive ServiceStatus = "inactive"
	// StatusConsidering means the user is evaluating the service.
	StatusConsidering ServiceStatus = "considering"
)

// UserService links a user to a service they track. Only active entries
// participate in scoring.
type UserService struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// UserID references the owning user.
	UserID string `json:"user_id"`
	// ServiceID references the tracked service.
	ServiceID string `json:"service_id"`
	// Status is the usage status (active, inactive, considering).
	Status ServiceStatus `json:"status"`
	// AddedAt is when the user added the service.
	AddedAt time.Time `json:"added_at"`
}

// UserPreference declares a data kind the user wants to avoid sharing.
type UserPreference struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// UserID references the owning user.
	UserID string `json:"user_id"`
	// Kind is the data category kind the preference applies to.
	Kind CategoryKind `json:"kind"`
	// AvoidSharing is whether the user wants to avoid sharing this kind.
	AvoidSharing bool `json:"avoid_sharing"`
	// ImportanceLevel weighs the preference on a 1-5 scale.
	ImportanceLevel int `json:"importance_level"`
}

// Trend labels the direction of a user's score over the last 30 days.
type Trend string

const (
	// TrendImproving means the score rose by more than 5 points.
	TrendImproving Trend = "improving"
	// TrendDeclining means the score fell by more than 5 points.
	TrendDeclining Trend = "declining"
	// TrendStable means no significant movement, or not enough history.
	TrendStable Trend = "stable"
)

// Score is an immutable snapshot of a computed privacy score. Snapshots
// are append-only; past snapshots are never mutated.
type Score struct {
	// ID is the unique identifier for the snapshot.
	ID string `json:"id"`
	// UserID references the scored user.
	UserID string `json:"user_id"`
	// Overall is the weighted combination of the four sub-scores.
	Overall float64 `json:"overall_score"`
	// DataCollection scores exposure from collected data, 0-100.
	DataCollection float64 `json:"data_collection_score"`
	// DataSharing scores exposure from third-party sharing, 0-100.
	DataSharing float64 `json:"data_sharing_score"`
	// UserControl scores available deletion/opt-out options, 0-100.
	UserControl float64 `json:"user_control_score"`
	// PreferenceMatch scores how well services respect the user's
	// avoid-sharing preferences, 0-100.
	PreferenceMatch float64 `json:"preference_match_score"`
	// ImprovementPotential estimates how much the score could improve,
	// capped at 50.
	ImprovementPotential float64 `json:"improvement_potential"`
	// TrendLabel compares this score with recent history.
	TrendLabel Trend `json:"score_trend"`
	// FactorsAnalyzed is the number of active services analyzed.
	FactorsAnalyzed int `json:"factors_analyzed"`
	// ServicesCount duplicates FactorsAnalyzed for API compatibility.
	ServicesCount int `json:"services_count"`
	// RecommendationsCount is the number of tips generated alongside.
	RecommendationsCount int `json:"recommendations_count"`
	// Note explains a default bundle ("no services tracked",
	// "calculation error"); empty for regular calculations.
	Note string `json:"calculation_note,omitempty"`
	// CalculatedAt is when the snapshot was computed.
	CalculatedAt time.Time `json:"calculated_at"`
}
