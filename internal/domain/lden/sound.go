package lden

import "math"

func toDB(power float64) float64 {
	return 10 * math.Log10(power)
}

func fromDB(level float64) float64 {
	return math.Pow(10, level/10)
}
