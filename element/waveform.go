package element

import (
	"image"
	"image/color"

	"git.sr.ht/~gioverse/media/render"
)

// waveformSamples is the canonical sample count of a stored waveform.
// Voice notes without one paint this many silent bars.
const waveformSamples = 100

// WaveformBar is one painted bar: the peak value of its bucket and
// how many source samples the bucket consumed.
type WaveformBar struct {
	Value   int
	Samples int
}

// ResampleWaveform buckets samples into at most barCount bars, each
// bar holding the maximum of its bucket. Every sample lands in exactly
// one bucket, so the bucket sizes sum to len(samples).
func ResampleWaveform(samples []int, barCount int) []WaveformBar {
	n := len(samples)
	if n == 0 || barCount <= 0 {
		return nil
	}
	if barCount > n {
		barCount = n
	}
	bars := make([]WaveformBar, 0, barCount)
	sum, maxValue, count := 0, 0, 0
	for _, v := range samples {
		if sum+barCount < n {
			if v > maxValue {
				maxValue = v
			}
			sum += barCount
			count++
			continue
		}
		sum += barCount - n
		// The boundary sample joins whichever bucket it overlaps more.
		if sum < (barCount+1)/2 {
			if v > maxValue {
				maxValue = v
			}
			bars = append(bars, WaveformBar{Value: maxValue, Samples: count + 1})
			maxValue, count = 0, 0
		} else {
			bars = append(bars, WaveformBar{Value: maxValue, Samples: count})
			maxValue, count = v, 1
		}
	}
	if count > 0 {
		// Fold the trailing partial bucket into the last bar.
		last := &bars[len(bars)-1]
		last.Samples += count
		if maxValue > last.Value {
			last.Value = maxValue
		}
	}
	return bars
}

// paintWaveform draws the resampled waveform into rect, splitting the
// bar under the playback boundary proportionally between the active
// and inactive colors.
func paintWaveform(s render.Surface, samples []int, rect image.Rectangle, progress float64, m Metrics, active, inactive color.NRGBA) {
	if samples == nil {
		samples = make([]int, waveformSamples)
	}
	step := m.WaveformBarWidth + m.WaveformBarSkip
	if step <= 0 || rect.Dx() < m.WaveformBarWidth {
		return
	}
	barCount := minInt((rect.Dx()+m.WaveformBarSkip)/step, len(samples))
	bars := ResampleWaveform(samples, barCount)
	if len(bars) == 0 {
		return
	}
	peak := 0
	for _, b := range bars {
		if b.Value > peak {
			peak = b.Value
		}
	}
	norm := peak + 1
	maxDelta := m.WaveformMax - m.WaveformMin
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	activeWidth := int(float64(rect.Dx())*progress + 0.5)

	left := rect.Min.X
	for _, b := range bars {
		value := (b.Value*maxDelta + norm/2) / norm
		barHeight := m.WaveformMin + value
		barTop := rect.Min.Y + (m.WaveformMax-barHeight)/2
		bar := image.Rect(left, barTop, left+m.WaveformBarWidth, barTop+barHeight)

		boundary := rect.Min.X + activeWidth
		switch {
		case bar.Max.X <= boundary:
			s.FillRect(bar, active)
		case bar.Min.X >= boundary:
			s.FillRect(bar, inactive)
		default:
			s.FillRect(image.Rect(bar.Min.X, bar.Min.Y, boundary, bar.Max.Y), active)
			s.FillRect(image.Rect(boundary, bar.Min.Y, bar.Max.X, bar.Max.Y), inactive)
		}
		left += step
	}
}
