package odds

import "strconv"

// FormatAmerican renders American odds the way a sportsbook displays
// them: positive quotes carry an explicit plus sign.
func FormatAmerican(american int) string {
	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}
