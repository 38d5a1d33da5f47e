package assessment

// IsUnlocked reports whether the category is currently accessible.
//
// The first category (order 1) is always accessible. Every later
// category requires a remote-confirmed completion record for the one
// before it: a submission the server never acknowledged must not open
// the next section. Cooldown is a global override that locks everything.
func IsUnlocked(c Category, records CompletionSet, onCooldown bool) bool {
	if onCooldown {
		return false
	}
	if c.Order == 1 {
		return true
	}
	// Order is 1-based, so the previous category's index is Order-2.
	return records.Confirmed(c.Order - 2)
}

// UnlockedSet returns the accessibility of every category, indexed the
// same way as Categories.
func UnlockedSet(records CompletionSet, onCooldown bool) []bool {
	unlocked := make([]bool, len(Categories))
	for i, c := range Categories {
		unlocked[i] = IsUnlocked(c, records, onCooldown)
	}
	return unlocked
}
