package matching

import (
	"testing"
	"time"

	"github.com/guided-platform/matching-service/internal/models"
)

func TestRankMentors_SortedAndStable(t *testing.T) {
	student := testStudent()

	strong := testMentor()
	strong.ID = "mentor-strong"

	weak := testMentor()
	weak.ID = "mentor-weak"
	weak.Skills = tags("Finance")

	// Same profile as weak, listed after it; must keep input order on ties.
	weakTwin := testMentor()
	weakTwin.ID = "mentor-weak-twin"
	weakTwin.Skills = tags("Finance")

	got := RankMentors(WeightedStrategy{}, student, []*models.Mentor{weak, strong, weakTwin}, RankOptions{})

	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].Mentor.ID != "mentor-strong" {
		t.Errorf("top match = %s, want mentor-strong", got[0].Mentor.ID)
	}
	if got[1].Mentor.ID != "mentor-weak" || got[2].Mentor.ID != "mentor-weak-twin" {
		t.Errorf("tie order broken: %s, %s", got[1].Mentor.ID, got[2].Mentor.ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("ranking not descending at %d: %d > %d", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestRankMentors_UnfilteredKeepsZeroScores(t *testing.T) {
	student := testStudent()
	gated := testMentor()
	gated.Languages = tags("Mandarin")

	got := RankMentors(WeightedStrategy{}, student, []*models.Mentor{gated}, RankOptions{})
	if len(got) != 1 {
		t.Fatalf("discovery mode must keep zero-score candidates, got %d", len(got))
	}
	if got[0].Score != 0 || !containsReason(got[0].Reasons, ReasonHardGate) {
		t.Errorf("gated candidate = %+v, want score 0 with gate reason", got[0].PairScore)
	}
}

func TestRankMentors_ShortlistFloor(t *testing.T) {
	student := testStudent()

	strong := testMentor()
	strong.ID = "mentor-strong"

	gated := testMentor()
	gated.ID = "mentor-gated"
	gated.Languages = tags("Mandarin")

	got := RankMentors(WeightedStrategy{}, student, []*models.Mentor{strong, gated}, RankOptions{MinScore: ShortlistFloor})
	if len(got) != 1 {
		t.Fatalf("expected floor to drop 1 candidate, got %d matches", len(got))
	}
	if got[0].Mentor.ID != "mentor-strong" {
		t.Errorf("kept %s, want mentor-strong", got[0].Mentor.ID)
	}
}

func TestRankStudents_ReverseStrategy(t *testing.T) {
	mentor := testMentor()

	near := testStudent()
	near.ID = "student-near"

	far := testStudent()
	far.ID = "student-far"
	far.City = "Gothenburg"
	far.Interests = tags("Cooking")

	got := RankStudents(ReverseStrategy{}, mentor, []*models.Student{far, near}, RankOptions{})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Student.ID != "student-near" {
		t.Errorf("top match = %s, want student-near", got[0].Student.ID)
	}
	if !containsReason(got[0].Reasons, "Same city") {
		t.Errorf("reasons = %v, want same-city bonus", got[0].Reasons)
	}
}

func TestReverseStrategy_NoCommonLanguage(t *testing.T) {
	mentor := testMentor()
	mentor.Languages = tags("Mandarin")
	student := testStudent()

	got := ReverseStrategy{}.Score(student, mentor, time.Now())
	if got.Score != 0 {
		t.Errorf("score = %d, want 0", got.Score)
	}
}
