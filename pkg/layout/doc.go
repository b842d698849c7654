// Package layout computes 3D placement transforms for image sequences.
//
// Given a list of images (with pixel dimensions) and a small set of layout
// parameters, [Compute] produces one transform per image arranging the
// sequence in rows on the horizontal plane, centered on the origin. A curve
// fraction interpolates each row continuously between a straight line (0)
// and a circular arc (1), with every image yawing to face outward along
// the arc.
//
// Physical sizing is derived from pixel dimensions and a target print
// density: an image's quad is scaled to its printed size in centimeters at
// the given pixels-per-inch.
//
// The engine is a pure function. It performs no I/O, holds no state between
// calls, and is safe to invoke concurrently from multiple goroutines.
package layout
