package market

import "fmt"

// FormatAmount renders a traded value in hundred-millions (億) from
// 100,000,000 upward, else in ten-thousands (萬).
func FormatAmount(amount float64) string {
	if amount >= 1e8 {
		return fmt.Sprintf("%.1f億", amount/1e8)
	}
	return fmt.Sprintf("%.0f萬", amount/1e4)
}

// FormatVolume renders share volume in board lots of 1000.
func FormatVolume(volume float64) string {
	return fmt.Sprintf("%.0f張", volume/1000)
}
