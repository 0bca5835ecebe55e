package matching

import (
	"fmt"
	"math"
	"time"

	"github.com/guided-platform/matching-service/internal/models"
)

// Factor weights. They sum to 100; the final score is rounded and then
// clamped because float rounding can nudge a perfect pair to 101.
const (
	weightInterests    = 40.0
	weightSubjects     = 20.0
	weightLanguages    = 15.0
	weightEducation    = 10.0
	weightMeetingPref  = 5.0
	weightAvailability = 10.0
)

// ReasonHardGate is the single reason attached to pairs that fail the hard
// compatibility gate.
const ReasonHardGate = "No common language or education mismatch"

// ReasonIncompleteProfile is attached when a candidate profile is missing the
// array fields scoring needs. The candidate scores 0 but the batch goes on.
const ReasonIncompleteProfile = "Incomplete profile"

// PairScore is the outcome of scoring one student-mentor pair.
type PairScore struct {
	Score        int        `json:"score"`
	Reasons      []string   `json:"reasons"`
	FirstOverlap *time.Time `json:"first_overlap,omitempty"`
}

// ScorePair computes the weighted compatibility score for a student-mentor
// pair. Pairs without a common language, or where the mentor's age preference
// excludes the student's education level, short-circuit to 0.
func ScorePair(student *models.Student, mentor *models.Mentor, now time.Time) PairScore {
	if len(student.Languages) == 0 || len(student.Interests) == 0 ||
		len(mentor.Languages) == 0 || len(mentor.Skills) == 0 {
		return PairScore{Score: 0, Reasons: []string{ReasonIncompleteProfile}}
	}

	if !hasCommonLanguage(student.Languages, mentor.Languages) || !mentor.AcceptsLevel(student.EducationLevel) {
		return PairScore{Score: 0, Reasons: []string{ReasonHardGate}}
	}

	var score float64
	var reasons []string

	// Interests vs the mentor's skills and hobbies.
	skillsAndHobbies := append(append([]string{}, mentor.Skills...), mentor.Hobbies...)
	interests := MatchSets(student.Interests, skillsAndHobbies)
	if interests.Count > 0 {
		score += float64(interests.Count) / float64(maxInt(len(student.Interests), 1)) * weightInterests
		reasons = append(reasons, fmt.Sprintf("%d shared interest%s", interests.Count, plural(interests.Count)))
	}

	// Subjects vs the mentor's skills.
	subjects := MatchSets(student.Subjects, mentor.Skills)
	if subjects.Count > 0 {
		score += float64(subjects.Count) / float64(maxInt(len(student.Subjects), 1)) * weightSubjects
		reasons = append(reasons, fmt.Sprintf("%d matching subject%s", subjects.Count, plural(subjects.Count)))
	}

	// Language overlap, fuzzy beyond the exact match the gate required.
	languages := MatchSets(student.Languages, mentor.Languages)
	if languages.Count > 0 {
		score += float64(languages.Count) / float64(maxInt(len(student.Languages), 1)) * weightLanguages
		reasons = append(reasons, fmt.Sprintf("%d common language%s", languages.Count, plural(languages.Count)))
	}

	// Education fit is a flat award once past the gate; the reason spells out
	// whether the mentor asked for this level or takes anyone.
	score += weightEducation
	if string(mentor.AgePref) == string(student.EducationLevel) {
		reasons = append(reasons, fmt.Sprintf("Perfect education match (%s)", student.EducationLevel.Label()))
	} else {
		reasons = append(reasons, "Education level compatible")
	}

	if meetingCompatible(student.MeetingPref, mentor.MeetingPref) {
		score += weightMeetingPref
		reasons = append(reasons, "Meeting preference match")
	}

	firstOverlap := FirstOverlap(student.Availability, mentor.Availability, now)
	if firstOverlap != nil {
		score += weightAvailability
		reasons = append(reasons, fmt.Sprintf("Available %s", firstOverlap.Format("Jan 2")))
	}

	return PairScore{
		Score:        clampScore(int(math.Round(score))),
		Reasons:      reasons,
		FirstOverlap: firstOverlap,
	}
}

// hasCommonLanguage is the exact-equality gate check. The fuzzy language
// factor above is scoring flavor; the gate itself does not forgive typos.
func hasCommonLanguage(a, b []string) bool {
	set := make(map[string]bool, len(b))
	for _, lang := range b {
		set[lang] = true
	}
	for _, lang := range a {
		if set[lang] {
			return true
		}
	}
	return false
}

func meetingCompatible(a, b models.MeetingPref) bool {
	return a == b || a == models.MeetingEither || b == models.MeetingEither
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
