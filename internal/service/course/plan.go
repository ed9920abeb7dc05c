package course

import "ProgJulia/entity"

type LessonUpdate struct {
	Existing entity.Lesson
	Incoming entity.Lesson
}

// ReplacePlan pairs stored lessons with the re-read sheet by position.
type ReplacePlan struct {
	Update []LessonUpdate
	Delete []entity.Lesson
	Add    []entity.Lesson
}

// PlanReplace updates the first min(old, new) lessons in place, deletes stored
// lessons past the new count and appends incoming lessons past the old count.
func PlanReplace(existing, incoming []entity.Lesson) ReplacePlan {
	n := min(len(existing), len(incoming))

	plan := ReplacePlan{}
	for i := 0; i < n; i++ {
		plan.Update = append(plan.Update, LessonUpdate{Existing: existing[i], Incoming: incoming[i]})
	}
	if len(existing) > n {
		plan.Delete = append(plan.Delete, existing[n:]...)
	}
	if len(incoming) > n {
		plan.Add = append(plan.Add, incoming[n:]...)
	}
	return plan
}

// merge keeps the identity of the stored lesson and takes everything else from the sheet.
func merge(existing, incoming entity.Lesson) entity.Lesson {
	merged := incoming
	merged.ID = existing.ID
	return merged
}
