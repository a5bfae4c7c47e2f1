package game

// NextIndex returns the seat after current in the given direction,
// wrapping around a table of count players. It returns 0 for an empty
// table.
func NextIndex(current, direction, count int) int {
	if count <= 0 {
		return 0
	}
	next := (current + direction) % count
	if next < 0 {
		next += count
	}
	return next
}
