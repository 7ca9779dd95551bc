package utils

import (
	"fmt"
	"strings"
)

// sizeUnits are the suffixes applied as a byte count is divided down by 1024.
var sizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count in the largest unit that keeps the value
// above one, as a compact lower-case string such as "512b", "1.5kb", or
// "16kb". Scaled values under ten keep a single decimal digit, with a
// trailing ".0" dropped.
func FormatFileSize(byteCount int64) string {
	if byteCount < 1024 {
		if byteCount < 0 {
			byteCount = 0
		}
		return fmt.Sprintf("%d%s", byteCount, sizeUnits[0])
	}
	scaledValue := float64(byteCount) / 1024
	unitIndex := 1
	for scaledValue >= 1024 && unitIndex < len(sizeUnits)-1 {
		scaledValue /= 1024
		unitIndex++
	}
	if scaledValue >= 10 {
		return fmt.Sprintf("%.0f%s", scaledValue, sizeUnits[unitIndex])
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", scaledValue), ".0") + sizeUnits[unitIndex]
}
