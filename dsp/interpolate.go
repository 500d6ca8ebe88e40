package dsp

// Interpolate4Point performs 4-point, third-order (Catmull-Rom style)
// interpolation between four consecutive frames, where fraction is the
// position between p1 and p2 in [0, 1). It is used anywhere a signal is
// read at a fractional sample position: the delay effect's read head and
// streaming resampling.
func Interpolate4Point(p0, p1, p2, p3 Frame, fraction float64) Frame {
	return Frame{
		Left:  interpolate4PointScalar(p0.Left, p1.Left, p2.Left, p3.Left, fraction),
		Right: interpolate4PointScalar(p0.Right, p1.Right, p2.Right, p3.Right, fraction),
	}
}

func interpolate4PointScalar(x0, x1, x2, x3, t float64) float64 {
	c0 := x1
	c1 := 0.5 * (x2 - x0)
	c2 := x0 - 2.5*x1 + 2.0*x2 - 0.5*x3
	c3 := 0.5*(x3-x0) + 1.5*(x1-x2)
	return ((c3*t+c2)*t+c1)*t + c0
}
