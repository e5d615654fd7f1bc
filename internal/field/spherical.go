package field

import "math"

// SphericalToCartesian converts spherical coordinates (radius r, polar
// angle theta, azimuth phi, both in radians) to cartesian coordinates:
//
//	x = r sin(theta) cos(phi)
//	y = r sin(theta) sin(phi)
//	z = r cos(theta)
func SphericalToCartesian(r, theta, phi float64) (x, y, z float64) {
	st := math.Sin(theta)
	return r * st * math.Cos(phi), r * st * math.Sin(phi), r * math.Cos(theta)
}

// CartesianToSpherical is the inverse of SphericalToCartesian. For the
// origin all angles are zero.
func CartesianToSpherical(x, y, z float64) (r, theta, phi float64) {
	r = math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return 0, 0, 0
	}
	return r, math.Acos(z / r), math.Atan2(y, x)
}
