package planner

// OrderSubjects returns a new slice sorted by exam date ascending, then
// difficulty descending when dates are equal. The sort is a stable merge
// sort, so subjects tied on both keys keep their input order. The result
// is only the deterministic candidate list; daily allocation order is
// decided by urgency, not by this ordering.
func OrderSubjects(subjects []Subject) []Subject {
	ordered := make([]Subject, len(subjects))
	copy(ordered, subjects)
	mergeSortSubjects(ordered)
	return ordered
}

func mergeSortSubjects(s []Subject) {
	if len(s) < 2 {
		return
	}

	mid := len(s) / 2
	left := make([]Subject, mid)
	right := make([]Subject, len(s)-mid)
	copy(left, s[:mid])
	copy(right, s[mid:])

	mergeSortSubjects(left)
	mergeSortSubjects(right)

	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		// <= keeps the left run first on full ties, which preserves
		// the relative input order.
		if !subjectAfter(left[i], right[j]) {
			s[k] = left[i]
			i++
		} else {
			s[k] = right[j]
			j++
		}
		k++
	}
	for i < len(left) {
		s[k] = left[i]
		i++
		k++
	}
	for j < len(right) {
		s[k] = right[j]
		j++
		k++
	}
}

// subjectAfter reports whether a sorts strictly after b.
func subjectAfter(a, b Subject) bool {
	da := dateOnly(a.ExamDate)
	db := dateOnly(b.ExamDate)
	if !da.Equal(db) {
		return da.After(db)
	}
	return a.Difficulty < b.Difficulty
}
