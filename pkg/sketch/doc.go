// Package sketch defines the geometric model of a 2D parametric sketch:
// joints (named points), shapes (lines and circles built on joints) and the
// constraints that bind them. Constraints only enter a Sketch through the
// factory in this package, which validates and deduplicates them.
package sketch
