package scoring

import "github.com/akarlov/privacymeter/internal/models"

// Finding is one concern or strength identified from a score bundle.
type Finding struct {
	// Area names the sub-score the finding refers to.
	Area string `json:"area"`
	// Score is the sub-score value the finding is based on.
	Score float64 `json:"score"`
	// Message is the human-readable explanation.
	Message string `json:"message"`
}

// Report is the human-readable interpretation of a score bundle.
type Report struct {
	// Level is the qualitative privacy level ("Excellent" .. "Critical").
	Level string `json:"privacy_level"`
	// LevelColor is the indicator color associated with the level.
	LevelColor string `json:"level_color"`
	// Description summarizes the level in a sentence.
	Description string `json:"level_description"`
	// Concerns lists sub-scores below the attention threshold.
	Concerns []Finding `json:"concerns"`
	// Strengths lists sub-scores at or above the threshold.
	Strengths []Finding `json:"strengths"`
	// ImprovementPotential echoes the bundle's improvement estimate.
	ImprovementPotential float64 `json:"improvement_potential"`
	// Tips are quick actions shown when there is room to improve.
	Tips []string `json:"quick_tips"`
	// Trend echoes the bundle's trend label.
	Trend models.Trend `json:"trend"`
	// ServicesAnalyzed is the number of services behind the score.
	ServicesAnalyzed int `json:"services_analyzed"`
}

// concernThreshold separates a concern from a strength.
const concernThreshold = 50.0

// tipThreshold is the improvement potential above which tips are shown.
const tipThreshold = 20.0

// BuildReport maps a score bundle to its report. It is pure: every
// bundle maps to exactly one report.
func BuildReport(score models.Score) Report {
	r := Report{
		ImprovementPotential: score.ImprovementPotential,
		Trend:                score.TrendLabel,
		ServicesAnalyzed:     score.ServicesCount,
		Concerns:             []Finding{},
		Strengths:            []Finding{},
		Tips:                 []string{},
	}

	switch {
	case score.Overall >= 80:
		r.Level = "Excellent"
		r.LevelColor = "green"
		r.Description = "Your privacy practices are excellent!"
	case score.Overall >= 65:
		r.Level = "Good"
		r.LevelColor = "light_green"
		r.Description = "Good privacy practices with room for improvement."
	case score.Overall >= 50:
		r.Level = "Fair"
		r.LevelColor = "yellow"
		r.Description = "Your privacy could use some attention."
	case score.Overall >= 35:
		r.Level = "Poor"
		r.LevelColor = "orange"
		r.Description = "Several privacy concerns need attention."
	default:
		r.Level = "Critical"
		r.LevelColor = "red"
		r.Description = "Immediate privacy improvements needed."
	}

	classify := func(area string, value float64, concern, strength string) {
		f := Finding{Area: area, Score: value}
		if value < concernThreshold {
			f.Message = concern
			r.Concerns = append(r.Concerns, f)
		} else {
			f.Message = strength
			r.Strengths = append(r.Strengths, f)
		}
	}

	classify("Data Collection", score.DataCollection,
		"Services are collecting significant amounts of your data",
		"Good control over data collection")
	classify("Data Sharing", score.DataSharing,
		"Your data may be shared extensively with third parties",
		"Limited data sharing with third parties")
	classify("User Control", score.UserControl,
		"Limited control over your personal data",
		"Good control options available")

	if score.ImprovementPotential > tipThreshold {
		r.Tips = append(r.Tips,
			"Review privacy settings in your most-used apps",
			"Consider alternatives to high-risk services",
			"Update your privacy preferences to be more specific",
		)
	}

	return r
}
