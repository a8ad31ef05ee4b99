package survey

import (
	"math"
	"sort"
)

// voltsThreshold is the mean-magnitude cutoff (in the output unit, mV) below
// which a channel is assumed to have been recorded in volts. Pipe-to-soil
// potentials sit around −0.8 to −1.5 V, i.e. hundreds of millivolts, so a
// channel averaging under 100 in magnitude is almost certainly volts. The
// heuristic is fragile for very short or badly corrupted datasets; the
// assumed unit is therefore always recorded in the run log.
const voltsThreshold = 100.0

// CleanVoltages rescales both voltage channels to millivolts and removes
// instrumentation spikes with a centered rolling-median filter: a point is a
// spike when it deviates from its local median by more than the configured
// threshold, and is replaced by that median (the medians are computed once,
// before any replacement). An optional rolling-mean pass smooths the
// spike-corrected series afterwards; it exists for report aesthetics and
// always runs after spike removal so spikes cannot bleed into neighbours.
// The two channels are independent. Returns the per-channel replacement
// counts.
func CleanVoltages(points []Point, cfg CleaningConfig, rl *RunLog) (onSpikes, offSpikes int) {
	on := make([]float64, len(points))
	off := make([]float64, len(points))
	for i := range points {
		on[i] = points[i].OnVoltage
		off[i] = points[i].OffVoltage
	}

	onSpikes = cleanChannel(on, "on", cfg, rl)
	offSpikes = cleanChannel(off, "off", cfg, rl)

	for i := range points {
		points[i].OnVoltage = on[i]
		points[i].OffVoltage = off[i]
	}
	return onSpikes, offSpikes
}

func cleanChannel(values []float64, name string, cfg CleaningConfig, rl *RunLog) int {
	// Unit detection and rescale to millivolts.
	sum, n := 0.0, 0
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		sum += math.Abs(v)
		n++
	}
	if n == 0 {
		rl.Warnf("clean: %s channel has no values; skipping", name)
		return 0
	}
	if mean := sum / float64(n); mean < voltsThreshold {
		for i, v := range values {
			if !IsMissing(v) {
				values[i] = round2(v * 1000)
			}
		}
		rl.Infof("clean: %s channel mean magnitude %.2f read as volts; rescaled to millivolts", name, mean)
	} else {
		rl.Infof("clean: %s channel mean magnitude %.1f read as millivolts; no rescale", name, mean)
	}

	// Spike rejection against the pre-replacement rolling medians.
	medians := rollingMedian(values, cfg.DetectionWindow)
	spikes := 0
	for i, v := range values {
		if IsMissing(v) || IsMissing(medians[i]) {
			continue
		}
		if math.Abs(v-medians[i]) > cfg.SpikeThreshold {
			values[i] = medians[i]
			spikes++
		}
	}
	rl.Infof("clean: %s channel: replaced %d spike(s) (threshold %.0f mV, window %d)",
		name, spikes, cfg.SpikeThreshold, cfg.DetectionWindow)

	if cfg.Smooth {
		smoothed := rollingMean(values, cfg.SmoothingWindow)
		for i := range values {
			values[i] = round2(smoothed[i])
		}
		rl.Infof("clean: %s channel: smoothed with rolling mean (window %d)", name, cfg.SmoothingWindow)
	}
	return spikes
}

// rollingMedian computes a centered rolling median of odd width w. Edge
// windows shrink to the available neighbourhood rather than padding, and
// missing values are skipped inside each window; a window with no values
// yields a missing median.
func rollingMedian(values []float64, w int) []float64 {
	half := w / 2
	out := make([]float64, len(values))
	buf := make([]float64, 0, w)
	for i := range values {
		lo, hi := i-half, i+half
		if lo < 0 {
			lo = 0
		}
		if hi > len(values)-1 {
			hi = len(values) - 1
		}
		buf = buf[:0]
		for j := lo; j <= hi; j++ {
			if !IsMissing(values[j]) {
				buf = append(buf, values[j])
			}
		}
		out[i] = median(buf)
	}
	return out
}

// rollingMean computes a centered rolling mean of width w. For even widths
// the window covers [i−(w−1)/2, i+w/2], which keeps even and odd widths on
// the same centering convention.
func rollingMean(values []float64, w int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		lo, hi := i-(w-1)/2, i+w/2
		if lo < 0 {
			lo = 0
		}
		if hi > len(values)-1 {
			hi = len(values) - 1
		}
		sum, n := 0.0, 0
		for j := lo; j <= hi; j++ {
			if !IsMissing(values[j]) {
				sum += values[j]
				n++
			}
		}
		if n == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// median returns the median of buf, averaging the middle pair for even
// counts. buf is sorted in place; an empty buf yields a missing value.
func median(buf []float64) float64 {
	if len(buf) == 0 {
		return math.NaN()
	}
	sort.Float64s(buf)
	mid := len(buf) / 2
	if len(buf)%2 == 1 {
		return buf[mid]
	}
	return (buf[mid-1] + buf[mid]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
