package matching

import (
	"sort"
	"time"

	"github.com/guided-platform/matching-service/internal/models"
)

// ShortlistFloor is the minimum score for the facilitator's curated
// shortlist. Student-facing discovery is unfiltered so weak matches stay
// visible together with the reason they scored low.
const ShortlistFloor = 30

// RankOptions tunes a ranking pass.
type RankOptions struct {
	// MinScore drops candidates scoring below it. Zero keeps everyone.
	MinScore int
	// Now anchors the availability horizon; the zero value means time.Now().
	Now time.Time
}

func (o RankOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// MentorMatch is one ranked candidate in the student-facing direction.
type MentorMatch struct {
	Mentor *models.Mentor `json:"mentor"`
	PairScore
}

// StudentMatch is one ranked candidate in the mentor-facing direction.
type StudentMatch struct {
	Student *models.Student `json:"student"`
	PairScore
}

// RankMentors scores a student against every candidate mentor and returns
// them sorted by score descending. Ties keep the candidate input order, so
// repeated calls over the same inputs produce identical rankings.
func RankMentors(strategy ScoringStrategy, student *models.Student, mentors []*models.Mentor, opts RankOptions) []MentorMatch {
	now := opts.now()
	matches := make([]MentorMatch, 0, len(mentors))

	for _, mentor := range mentors {
		score := strategy.Score(student, mentor, now)
		if score.Score < opts.MinScore {
			continue
		}
		matches = append(matches, MentorMatch{Mentor: mentor, PairScore: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// RankStudents is the reverse-direction counterpart of RankMentors.
func RankStudents(strategy ScoringStrategy, mentor *models.Mentor, students []*models.Student, opts RankOptions) []StudentMatch {
	now := opts.now()
	matches := make([]StudentMatch, 0, len(students))

	for _, student := range students {
		score := strategy.Score(student, mentor, now)
		if score.Score < opts.MinScore {
			continue
		}
		matches = append(matches, StudentMatch{Student: student, PairScore: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
