package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akarlov/privacymeter/internal/models"
	"github.com/akarlov/privacymeter/internal/scoring"
)

// Calculator defines the scoring engine operations the privacy service
// depends on.
type Calculator interface {
	// Compute calculates the current score bundle for the user. It
	// degrades to a default bundle instead of returning an error.
	Compute(ctx context.Context, userID string) models.Score
	// Save appends the score as a new snapshot.
	Save(ctx context.Context, userID string, score models.Score) (models.Score, error)
}

// ScoreHistory defines snapshot retrieval for the latest/history APIs.
type ScoreHistory interface {
	// LatestScore returns the most recent snapshot, or nil when none
	// exist.
	LatestScore(ctx context.Context, userID string) (*models.Score, error)
	// RecentScores returns snapshots calculated at or after since,
	// most recent first.
	RecentScores(ctx context.Context, userID string, since time.Time) ([]models.Score, error)
}

// PrivacyService orchestrates score calculation, persistence, and
// insight generation. Compute-and-save is serialized per user so two
// concurrent requests for one user cannot interleave their snapshot
// reads and writes; different users proceed in parallel.
type PrivacyService struct {
	calc    Calculator
	history ScoreHistory

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// ScoreResult pairs a score snapshot with its report.
type ScoreResult struct {
	// Score is the persisted (or retrieved) snapshot.
	Score models.Score `json:"scores"`
	// Report is the human-readable interpretation of the score.
	Report scoring.Report `json:"insights"`
}

// NewPrivacyService constructs a PrivacyService.
func NewPrivacyService(calc Calculator, history ScoreHistory) *PrivacyService {
	return &PrivacyService{
		calc:    calc,
		history: history,
		locks:   make(map[string]*sync.Mutex),
	}
}

// CalculateAndSave computes the user's score, persists it as a new
// snapshot, and returns it with its report. The snapshot records the
// number of generated tips.
func (s *PrivacyService) CalculateAndSave(ctx context.Context, userID string) (ScoreResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	score := s.calc.Compute(ctx, userID)
	report := scoring.BuildReport(score)
	score.RecommendationsCount = len(report.Tips)

	saved, err := s.calc.Save(ctx, userID, score)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("save score: %w", err)
	}
	return ScoreResult{Score: saved, Report: report}, nil
}

// Latest returns the most recent snapshot with its report, or nil when
// the user has no snapshots yet.
func (s *PrivacyService) Latest(ctx context.Context, userID string) (*ScoreResult, error) {
	score, err := s.history.LatestScore(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest score: %w", err)
	}
	if score == nil {
		return nil, nil
	}
	return &ScoreResult{Score: *score, Report: scoring.BuildReport(*score)}, nil
}

// History returns the user's snapshots from the last days days, most
// recent first.
func (s *PrivacyService) History(ctx context.Context, userID string, days int) ([]models.Score, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	scores, err := s.history.RecentScores(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("score history: %w", err)
	}
	return scores, nil
}

func (s *PrivacyService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}
