package engine

// abs is a plain integer absolute value.
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ApplyDelta computes the next score for a battle winner. With forced set,
// that branch is taken unconditionally; otherwise the branch whose result
// lies closer to target wins, ties preferring addition. Returns the new
// score and the operation taken. Pure.
func ApplyDelta(current, diff, target int, forced Op) (int, Op) {
	add := current + diff
	sub := current - diff
	switch forced {
	case OpAdd:
		return add, OpAdd
	case OpSub:
		return sub, OpSub
	}
	if abs(add-target) <= abs(sub-target) {
		return add, OpAdd
	}
	return sub, OpSub
}

// BestOp returns the operation ApplyDelta would pick without a forced branch.
func BestOp(current, diff, target int) Op {
	_, op := ApplyDelta(current, diff, target, OpNone)
	return op
}
