package math

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned when a projection is requested with
// parameters that would produce a degenerate matrix.
var ErrInvalidParameter = errors.New("invalid parameter")

/**
 * @brief Creates and returns a symmetric-frustum perspective matrix.
 *
 * @param fov_degrees The vertical field of view in degrees, in (0, 180).
 * @param aspect_ratio Viewport width divided by height.
 * @param near_clip The near clipping plane distance.
 * @param far_clip The far clipping plane distance, greater than near_clip.
 * @return A new perspective matrix, or an error wrapping ErrInvalidParameter.
 */
func BuildPerspective(fov_degrees, aspect_ratio, near_clip, far_clip float32) (Mat4, error) {
	for _, p := range [4]float32{fov_degrees, aspect_ratio, near_clip, far_clip} {
		if !IsFinite(p) {
			return Mat4{}, fmt.Errorf("perspective: non-finite input: %w", ErrInvalidParameter)
		}
	}
	if fov_degrees <= 0 || fov_degrees >= 180 {
		return Mat4{}, fmt.Errorf("perspective: fov %.2f must be in (0, 180) degrees: %w", fov_degrees, ErrInvalidParameter)
	}
	if aspect_ratio <= 0 {
		return Mat4{}, fmt.Errorf("perspective: aspect ratio %.4f must be positive: %w", aspect_ratio, ErrInvalidParameter)
	}
	if near_clip <= 0 || far_clip <= near_clip {
		return Mat4{}, fmt.Errorf("perspective: need far > near > 0, got near=%g far=%g: %w", near_clip, far_clip, ErrInvalidParameter)
	}

	fov := DegToRad(fov_degrees)
	rng := ktan(fov*0.5) * near_clip
	sx := (2.0 * near_clip) / (rng*aspect_ratio + rng*aspect_ratio)
	sy := near_clip / rng
	sz := -(far_clip + near_clip) / (far_clip - near_clip)
	pz := -(2.0 * far_clip * near_clip) / (far_clip - near_clip)

	out_matrix := Mat4{}
	out_matrix.Data[0] = sx
	out_matrix.Data[5] = sy
	out_matrix.Data[10] = sz
	out_matrix.Data[11] = -1.0
	out_matrix.Data[14] = pz
	return out_matrix, nil
}

// AspectRatio returns width/height, or 1 when height is zero (minimized window).
func AspectRatio(width, height uint32) float32 {
	if height == 0 {
		return 1.0
	}
	return float32(width) / float32(height)
}
