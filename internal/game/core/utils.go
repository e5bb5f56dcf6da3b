package core

import "fmt"

// FormatCounter renders n as a fixed-width, zero-padded counter the way a
// seven-segment display would: 7 -> "007", -3 -> "-03". Values that do not
// fit are clamped to the widest representable number.
func FormatCounter(n int, width int) string {
	if width <= 0 {
		return ""
	}
	limit := 1
	for i := 0; i < width; i++ {
		limit *= 10
	}
	if n >= 0 {
		if n >= limit {
			n = limit - 1
		}
		return fmt.Sprintf("%0*d", width, n)
	}
	negLimit := limit / 10
	if -n >= negLimit {
		n = -(negLimit - 1)
	}
	if width == 1 {
		return "-"
	}
	return fmt.Sprintf("-%0*d", width-1, -n)
}

func GetActionType(action Action) string {
	if action == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", action)
}
