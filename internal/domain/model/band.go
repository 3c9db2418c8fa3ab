// Package model contains the acoustic project model shared between layers:
// third-octave spectra, sources and receivers, computation results and the
// project that owns them.
package model

// NumBands is the number of third-octave bands in a spectrum.
const NumBands = 31

// Sentinel is the level, in dB, standing for a contribution that is absent
// from a result. Its power equivalent is negligible next to any real level.
const Sentinel = -200.0

// Frequencies lists the nominal centre frequency, in Hz, of each band.
var Frequencies = [NumBands]float64{
	16.0, 20.0, 25.0, 31.5, 40.0,
	50.0, 63.0, 80.0, 100.0, 125.0,
	160.0, 200.0, 250.0, 315.0, 400.0,
	500.0, 630.0, 800.0, 1000.0, 1250.0, 1600.0,
	2000.0, 2500.0, 3150.0, 4000.0, 5000.0,
	6300.0, 8000.0, 10000.0, 12500.0, 16000.0,
}

// IsAbsent reports whether level encodes a missing contribution.
func IsAbsent(level float64) bool {
	return level <= Sentinel
}
