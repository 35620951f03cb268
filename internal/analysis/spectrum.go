package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the one-sided magnitude spectrum of samples taken every
// dt. The mean is removed and a Hann window applied first. freqs[i] is the
// frequency of mags[i] in cycles per unit time.
func Spectrum(samples []float64, dt float64) (freqs, mags []float64) {
	n := len(samples)
	if n < 2 || !(dt > 0) {
		return nil, nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range samples {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)

	half := n/2 + 1
	freqs = make([]float64, half)
	mags = make([]float64, half)
	for i := 0; i < half; i++ {
		freqs[i] = float64(i) / (float64(n) * dt)
		mags[i] = cmplx.Abs(spectrum[i])
	}
	return freqs, mags
}

// DominantFrequency is the strongest non-zero frequency of samples, or 0
// when the series is too short or flat.
func DominantFrequency(samples []float64, dt float64) float64 {
	freqs, mags := Spectrum(samples, dt)
	best, peak := 0.0, 1e-12
	for i := 1; i < len(mags); i++ {
		if mags[i] > peak {
			best, peak = freqs[i], mags[i]
		}
	}
	return best
}
