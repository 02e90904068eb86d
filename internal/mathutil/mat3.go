package mathutil

// Mat3 is a 3×3 rotation block stored row-major.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}
