package scoring

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/akarlov/privacymeter/internal/models"
)

// Multipliers applied on top of the per-kind risk multiplier.
const (
	// requiredFactor raises the risk of data the user can't withhold.
	requiredFactor = 1.5
	// sharedFactor raises the risk of data passed to third parties.
	sharedFactor = 1.3

	// maxCategoriesPerService normalizes a service's summed risk.
	maxCategoriesPerService = 20.0
	// maxSharedCategories normalizes the shared-category fallback count.
	maxSharedCategories = 10.0

	// neutralPreferenceScore is returned when the user set no
	// avoid-sharing preferences.
	neutralPreferenceScore = 75.0
	// maxImprovementPotential caps the improvement estimate.
	maxImprovementPotential = 50.0

	// trendWindow is how far back the trend comparison looks.
	trendWindow = 30 * 24 * time.Hour
	// trendThreshold is the minimum overall-score delta that counts as
	// movement.
	trendThreshold = 5.0
)

// Sentinel notes attached to default score bundles.
const (
	// NoteNoServices marks a bundle for a user with no active services.
	NoteNoServices = "no services tracked"
	// NoteCalculationError marks a bundle produced after a data-access
	// failure.
	NoteCalculationError = "calculation error"
)

// Store defines the data-access operations the engine depends on.
type Store interface {
	// ActiveUserServices returns the user's tracked services with
	// status "active".
	ActiveUserServices(ctx context.Context, userID string) ([]models.UserService, error)
	// UserPreferences returns all preferences for the user.
	UserPreferences(ctx context.Context, userID string) ([]models.UserPreference, error)
	// DataCategories returns all data category records for a service.
	DataCategories(ctx context.Context, serviceID string) ([]models.DataCategory, error)
	// CurrentPolicy returns the current policy of the given type for a
	// service, or nil when none exists.
	CurrentPolicy(ctx context.Context, serviceID string, policyType models.PolicyType) (*models.Policy, error)
	// RecentScores returns score snapshots for the user calculated at
	// or after since, most recent first.
	RecentScores(ctx context.Context, userID string, since time.Time) ([]models.Score, error)
	// SaveScore appends a new score snapshot for the user.
	SaveScore(ctx context.Context, userID string, score models.Score) (models.Score, error)
}

// Engine computes privacy scores. It holds no per-user state, so
// concurrent computations for different users are independent.
type Engine struct {
	store Store
	log   *zap.Logger
}

// NewEngine constructs an Engine over the given store.
func NewEngine(store Store, log *zap.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Compute calculates the privacy score bundle for a user. It never
// returns an error: a user without active services yields the default
// bundle tagged with NoteNoServices, and any data-access failure
// degrades to the default bundle tagged with NoteCalculationError.
func (e *Engine) Compute(ctx context.Context, userID string) models.Score {
	score, err := e.compute(ctx, userID)
	if err != nil {
		e.log.Error("privacy score calculation failed",
			zap.String("user_id", userID), zap.Error(err))
		return DefaultScore(userID, NoteCalculationError)
	}
	return score
}

func (e *Engine) compute(ctx context.Context, userID string) (models.Score, error) {
	e.log.Info("calculating privacy score", zap.String("user_id", userID))

	services, err := e.store.ActiveUserServices(ctx, userID)
	if err != nil {
		return models.Score{}, err
	}
	prefs, err := e.store.UserPreferences(ctx, userID)
	if err != nil {
		return models.Score{}, err
	}

	if len(services) == 0 {
		e.log.Warn("no active services for user", zap.String("user_id", userID))
		return DefaultScore(userID, NoteNoServices), nil
	}

	collection, err := e.dataCollectionScore(ctx, services)
	if err != nil {
		return models.Score{}, err
	}
	sharing, err := e.dataSharingScore(ctx, services)
	if err != nil {
		return models.Score{}, err
	}
	control, err := e.userControlScore(ctx, services)
	if err != nil {
		return models.Score{}, err
	}
	prefMatch, err := e.preferenceMatchScore(ctx, services, prefs)
	if err != nil {
		return models.Score{}, err
	}

	overall := collection*WeightDataCollection +
		sharing*WeightDataSharing +
		control*WeightUserControl +
		prefMatch*WeightPreferenceMatch

	improvement, err := e.improvementPotential(ctx, services)
	if err != nil {
		return models.Score{}, err
	}

	trend, err := e.scoreTrend(ctx, userID, overall)
	if err != nil {
		return models.Score{}, err
	}

	score := models.Score{
		UserID:               userID,
		Overall:              round2(overall),
		DataCollection:       round2(collection),
		DataSharing:          round2(sharing),
		UserControl:          round2(control),
		PreferenceMatch:      round2(prefMatch),
		ImprovementPotential: round2(improvement),
		TrendLabel:           trend,
		FactorsAnalyzed:      len(services),
		ServicesCount:        len(services),
		CalculatedAt:         time.Now().UTC(),
	}

	e.log.Info("privacy score calculated",
		zap.String("user_id", userID), zap.Float64("overall", score.Overall))
	return score, nil
}

// Save appends the score as a new snapshot via the store. Save failures
// are the caller's to surface; past snapshots are never touched.
func (e *Engine) Save(ctx context.Context, userID string, score models.Score) (models.Score, error) {
	return e.store.SaveScore(ctx, userID, score)
}

// dataCollectionScore scores how much data the user's services collect.
// Heavier collection means a lower score.
func (e *Engine) dataCollectionScore(ctx context.Context, services []models.UserService) (float64, error) {
	totalRisk := 0.0
	for _, us := range services {
		categories, err := e.store.DataCategories(ctx, us.ServiceID)
		if err != nil {
			return 0, err
		}

		serviceRisk := 0.0
		for _, c := range categories {
			if !c.IsCollected {
				continue
			}
			risk := RiskMultiplier(c.Kind)
			if c.IsRequired {
				risk *= requiredFactor
			}
			if c.IsSharedWithThirdParties {
				risk *= sharedFactor
			}
			serviceRisk += risk
		}

		totalRisk += math.Min(serviceRisk/maxCategoriesPerService, 1.0)
	}

	averageRisk := totalRisk / float64(len(services))
	return math.Max(0, 100-averageRisk*100), nil
}

// dataSharingScore scores third-party sharing. The current policy's
// sharing score is preferred; without one the count of shared categories
// estimates the risk.
func (e *Engine) dataSharingScore(ctx context.Context, services []models.UserService) (float64, error) {
	totalRisk := 0.0
	for _, us := range services {
		policy, err := e.store.CurrentPolicy(ctx, us.ServiceID, models.PrivacyPolicy)
		if err != nil {
			return 0, err
		}

		var risk float64
		if policy != nil && policy.DataSharingScore != nil {
			risk = *policy.DataSharingScore / 100.0
		} else {
			categories, err := e.store.DataCategories(ctx, us.ServiceID)
			if err != nil {
				return 0, err
			}
			shared := 0
			for _, c := range categories {
				if c.IsSharedWithThirdParties {
					shared++
				}
			}
			risk = math.Min(float64(shared)/maxSharedCategories, 1.0)
		}
		totalRisk += risk
	}

	averageRisk := totalRisk / float64(len(services))
	return math.Max(0, 100-averageRisk*100), nil
}

// userControlScore scores the deletion and opt-out options available to
// the user. More control means a higher score.
func (e *Engine) userControlScore(ctx context.Context, services []models.UserService) (float64, error) {
	totalControl := 0.0
	for _, us := range services {
		policy, err := e.store.CurrentPolicy(ctx, us.ServiceID, models.PrivacyPolicy)
		if err != nil {
			return 0, err
		}

		var control float64
		if policy != nil && policy.UserControlScore != nil {
			control = *policy.UserControlScore / 100.0
		} else {
			categories, err := e.store.DataCategories(ctx, us.ServiceID)
			if err != nil {
				return 0, err
			}

			factors := 0
			for _, c := range categories {
				if c.CanBeDeleted {
					factors++
				}
				if c.OptOutAvailable {
					factors++
				}
			}
			if len(categories) > 0 {
				// Max 2 factors per category.
				control = float64(factors) / float64(len(categories)*2)
			} else {
				control = 0.5
			}
		}
		totalControl += control
	}

	return totalControl / float64(len(services)) * 100, nil
}

// preferenceMatchScore scores how well the user's services respect the
// user's avoid-sharing preferences. With no preferences the score is
// neutral. When a kind appears in more than one preference row the later
// row wins; uniqueness per (user, kind) is the data layer's job.
func (e *Engine) preferenceMatchScore(ctx context.Context, services []models.UserService, prefs []models.UserPreference) (float64, error) {
	if len(prefs) == 0 {
		return neutralPreferenceScore, nil
	}

	avoid := make(map[models.CategoryKind]int)
	for _, p := range prefs {
		if p.AvoidSharing {
			avoid[p.Kind] = p.ImportanceLevel
		}
	}
	if len(avoid) == 0 {
		return neutralPreferenceScore, nil
	}

	totalViolations := 0.0
	maxPossible := 0.0

	for _, us := range services {
		categories, err := e.store.DataCategories(ctx, us.ServiceID)
		if err != nil {
			return 0, err
		}
		for _, c := range categories {
			if !c.IsCollected {
				continue
			}
			importance, avoided := avoid[c.Kind]
			if !avoided {
				continue
			}
			weight := float64(importance) / 5.0
			if c.IsRequired {
				weight *= requiredFactor
			}
			if c.IsSharedWithThirdParties {
				weight *= sharedFactor
			}
			totalViolations += weight
			maxPossible += 1.0
		}
	}

	if maxPossible == 0 {
		// None of the avoided kinds is collected: no conflicts possible.
		return 100.0, nil
	}
	return math.Max(0, 100-totalViolations/maxPossible*100), nil
}

// improvementPotential estimates how much the score could improve based
// on the share of categories with an opt-out or deletion option.
func (e *Engine) improvementPotential(ctx context.Context, services []models.UserService) (float64, error) {
	improvable := 0
	total := 0

	for _, us := range services {
		categories, err := e.store.DataCategories(ctx, us.ServiceID)
		if err != nil {
			return 0, err
		}
		for _, c := range categories {
			total++
			if c.OptOutAvailable || c.CanBeDeleted {
				improvable++
			}
		}
	}

	if total == 0 {
		return 0, nil
	}
	potential := float64(improvable) / float64(total) * 100
	return math.Min(potential, maxImprovementPotential), nil
}

// scoreTrend compares the current overall score against the second most
// recent snapshot within the trend window. Fewer than two snapshots in
// the window means "stable".
func (e *Engine) scoreTrend(ctx context.Context, userID string, current float64) (models.Trend, error) {
	since := time.Now().UTC().Add(-trendWindow)
	previous, err := e.store.RecentScores(ctx, userID, since)
	if err != nil {
		return "", err
	}
	if len(previous) < 2 {
		return models.TrendStable, nil
	}

	change := current - previous[1].Overall
	switch {
	case change > trendThreshold:
		return models.TrendImproving, nil
	case change < -trendThreshold:
		return models.TrendDeclining, nil
	default:
		return models.TrendStable, nil
	}
}

// DefaultScore returns the neutral bundle used when a calculation isn't
// possible, tagged with the reason.
func DefaultScore(userID, reason string) models.Score {
	return models.Score{
		UserID:               userID,
		Overall:              50.0,
		DataCollection:       50.0,
		DataSharing:          50.0,
		UserControl:          50.0,
		PreferenceMatch:      50.0,
		ImprovementPotential: 25.0,
		TrendLabel:           models.TrendStable,
		FactorsAnalyzed:      0,
		ServicesCount:        0,
		Note:                 reason,
		CalculatedAt:         time.Now().UTC(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
