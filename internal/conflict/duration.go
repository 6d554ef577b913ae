package conflict

// maxShowHours caps the estimate for festival-sized lineups.
const maxShowHours = 10

// EstimateDuration returns how many hours a show is expected to run given
// the number of performers on the bill.
//
// Headliner-only shows get 2 hours and two-act bills get 3. Bigger bills get
// one hour per act, capped at maxShowHours. A count below one yields 0.
func EstimateDuration(performers int) int {
	switch {
	case performers < 1:
		return 0
	case performers == 1:
		return 2
	case performers == 2:
		return 3
	default:
		return min(performers, maxShowHours)
	}
}
