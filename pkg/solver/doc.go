// Package solver satisfies sketch constraints by iterative relaxation.
//
// Each pass visits the constraints in insertion order and applies a partial
// correction to the free joints each one references, reading the positions
// already corrected earlier in the same pass (Gauss-Seidel order). Fixed
// joints are never written. Constraints whose references cannot be
// resolved, or whose geometry is degenerate, are skipped for that pass.
//
// Over-constrained systems do not converge to a unique solution; they
// settle into a damped compromise that depends on constraint order.
package solver
