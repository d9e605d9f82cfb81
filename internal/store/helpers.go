package store

// maxListLimit is a defense-in-depth cap on limit values for list queries.
const maxListLimit = 1000

// clampLimit applies the default and maximum bounds to a list limit.
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}

	if limit > maxListLimit {
		return maxListLimit
	}

	return limit
}

// clampOffset floors an offset at zero.
func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}

	return offset
}
