package math

/**
 * @brief Creates an identity quaternion.
 */
func NewQuatIdentity() Quaternion {
	return Quaternion{X: 0, Y: 0, Z: 0, W: 1.0}
}

/**
 * @brief Creates a unit quaternion from an angle in degrees and an axis.
 *
 * The axis is expected to be of unit length. Axes that are not are
 * normalized first; a zero axis yields the identity rotation.
 *
 * @param angle_degrees The angle of rotation in degrees.
 * @param axis The axis of rotation.
 * @return A new quaternion.
 */
func NewQuatFromAxisAngle(angle_degrees float32, axis Vec3) Quaternion {
	length_sq := axis.LengthSquared()
	if length_sq == 0 {
		return NewQuatIdentity()
	}
	if kabs(1.0-length_sq) > K_QUAT_NORMALIZE_THRESHOLD {
		axis = axis.Normalized()
	}

	half_angle := 0.5 * DegToRad(angle_degrees)
	s := ksin(half_angle)
	return Quaternion{
		X: s * axis.X,
		Y: s * axis.Y,
		Z: s * axis.Z,
		W: kcos(half_angle),
	}
}

/**
 * @brief Returns the squared magnitude of the provided quaternion.
 */
func (q Quaternion) LengthSquared() float32 {
	return q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
}

/**
 * @brief Returns the magnitude of the provided quaternion.
 */
func (q Quaternion) Normal() float32 {
	return ksqrt(q.LengthSquared())
}

/**
 * @brief Returns a unit-length copy of q.
 *
 * The square root is only taken when the squared magnitude is off by more
 * than K_QUAT_NORMALIZE_THRESHOLD; otherwise q is returned untouched.
 */
func (q Quaternion) Normalize() Quaternion {
	sum := q.LengthSquared()
	if kabs(1.0-sum) < K_QUAT_NORMALIZE_THRESHOLD {
		return q
	}
	mag := ksqrt(sum)
	if mag == 0 {
		return NewQuatIdentity()
	}
	return Quaternion{
		X: q.X / mag,
		Y: q.Y / mag,
		Z: q.Z / mag,
		W: q.W / mag,
	}
}

/**
 * @brief Returns the conjugate of the provided quaternion. That is,
 * The x, y and z elements are negated, but the w element is untouched.
 */
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

/**
 * @brief Returns the Hamilton product q * other. As a rotation the result
 * applies other first, then q.
 */
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// QuatMultiply composes two rotations: the result applies r, then s
// (s * r). It is renormalized so that repeated compositions do not drift.
func QuatMultiply(r, s Quaternion) Quaternion {
	return s.Mul(r).Normalize()
}

/**
 * @brief Calculates the dot product of the provided quaternions.
 */
func (q Quaternion) Dot(other Quaternion) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Compare reports whether every component of q is within tolerance of other.
func (q Quaternion) Compare(other Quaternion, tolerance float32) bool {
	return Vec4(q).Sub(Vec4(other)).maxAbs() <= tolerance
}

/**
 * @brief Creates a rotation matrix from the given quaternion. q must be of
 * unit length; the result is not a rotation otherwise.
 */
func (q Quaternion) ToMat4() Mat4 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0 - 2.0*y*y - 2.0*z*z
	out_matrix.Data[1] = 2.0*x*y + 2.0*w*z
	out_matrix.Data[2] = 2.0*x*z - 2.0*w*y
	out_matrix.Data[4] = 2.0*x*y - 2.0*w*z
	out_matrix.Data[5] = 1.0 - 2.0*x*x - 2.0*z*z
	out_matrix.Data[6] = 2.0*y*z + 2.0*w*x
	out_matrix.Data[8] = 2.0*x*z + 2.0*w*y
	out_matrix.Data[9] = 2.0*y*z - 2.0*w*x
	out_matrix.Data[10] = 1.0 - 2.0*x*x - 2.0*y*y
	out_matrix.Data[15] = 1.0
	return out_matrix
}

func (v Vec4) maxAbs() float32 {
	out := kabs(v.X)
	for _, c := range [3]float32{v.Y, v.Z, v.W} {
		if a := kabs(c); a > out {
			out = a
		}
	}
	return out
}
