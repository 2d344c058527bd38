// Package anchor computes where a floating element should be placed so that
// it stays attached to one of eight anchor points on a target rectangle.
//
// The calculation is pure. Given the target's bounding rectangle, an anchor
// point, a pixel offset, a positioning strategy and the current scroll
// offset, Calculate returns top/left coordinates plus a CSS translate pair.
// Applying translate(x, y) to the floating element shifts its own box so
// that its matching corner or edge lands on the anchor point:
//
//	top-left      (0%, -100%)     top-center    (-50%, -100%)
//	top-right     (-100%, -100%)  right-center  (-100%, -50%)
//	bottom-right  (-100%, 0%)     bottom-center (-50%, 0%)
//	bottom-left   (0%, 0%)        left-center   (0%, -50%)
//
// Absolute coordinates are page-relative (scroll offset added) and Fixed
// coordinates are viewport-relative.
package anchor
