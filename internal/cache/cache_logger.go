package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateStudentCache invalidates the student's profile entry and every
// ranking computed from it.
func InvalidateStudentCache(ctx context.Context, cm *CacheManager, studentID string) {
	SafeDelete(ctx, cm.Student, fmt.Sprintf("id:%s", studentID))
	SafeInvalidatePattern(ctx, cm.Match, fmt.Sprintf("student:%s:*", studentID))
	SafeInvalidatePattern(ctx, cm.Student, "list:*")
}

// InvalidateMentorCache invalidates the mentor's profile entry; rankings for
// all students are invalidated wholesale because any of them may include
// this mentor.
func InvalidateMentorCache(ctx context.Context, cm *CacheManager, mentorID string) {
	SafeDelete(ctx, cm.Mentor, fmt.Sprintf("id:%s", mentorID))
	SafeInvalidatePattern(ctx, cm.Mentor, "list:*")
	SafeInvalidatePattern(ctx, cm.Match, "*")
}

// InvalidateInviteCache invalidates invite entries for both sides of a pair.
// Rankings depend on rejected pairs, so they go too.
func InvalidateInviteCache(ctx context.Context, cm *CacheManager, inviteID, studentID, mentorID string) {
	SafeDelete(ctx, cm.Invite, fmt.Sprintf("id:%s", inviteID))
	SafeInvalidatePattern(ctx, cm.Invite, fmt.Sprintf("student:%s:*", studentID))
	SafeInvalidatePattern(ctx, cm.Invite, fmt.Sprintf("mentor:%s:*", mentorID))
	SafeInvalidatePattern(ctx, cm.Match, fmt.Sprintf("student:%s:*", studentID))
}
