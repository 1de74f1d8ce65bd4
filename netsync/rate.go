package netsync

import "time"

// maxSampleFactor caps one arrival gap at this multiple of the current
// estimate. A single stall would otherwise inflate the interval for several
// packets, and local stepping runs on that interval.
const maxSampleFactor = 4

// RateEstimator keeps an exponential moving average of the wall time between
// snapshot arrivals.
type RateEstimator struct {
	alpha       float64
	intervalMs  float64
	lastArrival time.Time
	samples     int
}

// NewRateEstimator seeds the average with nominal so the first frames never
// divide by a near-zero interval. The smoothing constant is 2/(samples+1).
func NewRateEstimator(nominal time.Duration, samples int) *RateEstimator {
	if samples < 1 {
		samples = 1
	}
	ms := float64(nominal) / float64(time.Millisecond)
	if ms <= 0 {
		ms = 1
	}
	return &RateEstimator{
		alpha:      2 / float64(samples+1),
		intervalMs: ms,
	}
}

// OnPacketArrival folds the gap since the previous arrival into the average.
// The first arrival, and the first after ResetArrival, only sets the baseline.
func (r *RateEstimator) OnPacketArrival(now time.Time) {
	if !r.lastArrival.IsZero() {
		delta := float64(now.Sub(r.lastArrival)) / float64(time.Millisecond)
		if delta < 0 {
			delta = 0
		}
		if limit := r.intervalMs * maxSampleFactor; delta > limit {
			delta = limit
		}
		next := r.intervalMs*(1-r.alpha) + delta*r.alpha
		// A run of same-instant arrivals can only shrink the average
		// geometrically, keep it strictly positive regardless.
		if next > 0 {
			r.intervalMs = next
		}
		r.samples++
	}
	r.lastArrival = now
}

// ResetArrival forgets the last arrival time but keeps the learned interval.
func (r *RateEstimator) ResetArrival() {
	r.lastArrival = time.Time{}
}

// IntervalMs is the smoothed milliseconds between snapshots. Always > 0.
func (r *RateEstimator) IntervalMs() float64 { return r.intervalMs }

func (r *RateEstimator) Interval() time.Duration {
	return time.Duration(r.intervalMs * float64(time.Millisecond))
}

// ServerTickRate returns snapshots per second as measured.
func (r *RateEstimator) ServerTickRate() float64 { return 1000 / r.intervalMs }

// Samples counts the gaps folded into the average so far.
func (r *RateEstimator) Samples() int { return r.samples }
