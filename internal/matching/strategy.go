package matching

import (
	"fmt"
	"time"

	"github.com/guided-platform/matching-service/internal/models"
)

// ScoringStrategy scores a student-mentor pair. The forward and reverse
// directions deliberately use different rule sets; keeping them behind one
// interface makes the asymmetry visible instead of hiding it in duplicated
// ranking code.
type ScoringStrategy interface {
	Name() string
	Score(student *models.Student, mentor *models.Mentor, now time.Time) PairScore
}

// WeightedStrategy is the full compatibility scorer used when a student
// browses mentors.
type WeightedStrategy struct{}

func (WeightedStrategy) Name() string { return "weighted" }

func (WeightedStrategy) Score(student *models.Student, mentor *models.Mentor, now time.Time) PairScore {
	return ScorePair(student, mentor, now)
}

// Reverse-direction point values. The mentor-facing view uses a coarser
// heuristic than the student-facing one; that asymmetry is intentional.
const (
	reverseLanguagePoints = 35.0
	reverseInterestWeight = 35.0
	reverseCityBonus      = 15.0
	reverseMeetingBonus   = 15.0
)

// ReverseStrategy is the simpler rule set used when a mentor browses
// students: exact language overlap, skills-vs-interests overlap, a same-city
// bonus and a meeting-preference bonus.
type ReverseStrategy struct{}

func (ReverseStrategy) Name() string { return "reverse" }

func (ReverseStrategy) Score(student *models.Student, mentor *models.Mentor, _ time.Time) PairScore {
	if len(student.Languages) == 0 || len(mentor.Languages) == 0 {
		return PairScore{Score: 0, Reasons: []string{ReasonIncompleteProfile}}
	}

	if !hasCommonLanguage(student.Languages, mentor.Languages) {
		return PairScore{Score: 0, Reasons: []string{ReasonHardGate}}
	}

	score := reverseLanguagePoints
	reasons := []string{"Common language"}

	overlap := MatchSets(student.Interests, mentor.Skills)
	if overlap.Count > 0 {
		score += float64(overlap.Count) / float64(maxInt(len(student.Interests), 1)) * reverseInterestWeight
		reasons = append(reasons, fmt.Sprintf("%d shared interest%s", overlap.Count, plural(overlap.Count)))
	}

	if student.City != "" && student.City == mentor.City {
		score += reverseCityBonus
		reasons = append(reasons, "Same city")
	}

	if meetingCompatible(student.MeetingPref, mentor.MeetingPref) {
		score += reverseMeetingBonus
		reasons = append(reasons, "Meeting preference match")
	}

	return PairScore{Score: clampScore(int(score + 0.5)), Reasons: reasons}
}
