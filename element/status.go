package element

import (
	"fmt"
	"math"
)

// Sentinel status sizes. Non-negative values below the sentinels are
// transfer offsets in bytes, and negative values encode a playback
// position as -1-seconds, so any state change lands on a different
// cached value.
const (
	statusSizeReady  int64 = math.MaxInt64 - 3
	statusSizeLoaded int64 = math.MaxInt64 - 2
	statusSizeFailed int64 = math.MaxInt64 - 1

	statusSizeNone int64 = math.MinInt64
)

// formatSizeText renders a byte count like "23.4 KB".
func formatSizeText(size int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case size >= gb:
		return fmt.Sprintf("%.1f GB", float64(size)/gb)
	case size >= mb:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	case size >= kb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// formatDownloadText renders transfer progress like "12.3 / 45.6 KB".
func formatDownloadText(ready, total int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	var unit string
	var div float64
	switch {
	case total >= gb:
		unit, div = "GB", gb
	case total >= mb:
		unit, div = "MB", mb
	case total >= kb:
		unit, div = "KB", kb
	default:
		return fmt.Sprintf("%d / %d B", ready, total)
	}
	return fmt.Sprintf("%.1f / %.1f %s", float64(ready)/div, float64(total)/div, unit)
}

// formatDurationText renders whole seconds like "1:03" or "1:02:03".
func formatDurationText(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds/60)%60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// formatPlayedText renders a playback position like "0:12 / 1:03".
func formatPlayedText(played, duration int) string {
	return formatDurationText(played) + " / " + formatDurationText(duration)
}

// formatDurationAndSizeText renders "1:03, 234.5 KB".
func formatDurationAndSizeText(seconds int, size int64) string {
	return formatDurationText(seconds) + ", " + formatSizeText(size)
}
