// Package coral lays out the strands of a Collatz graph as 3D polylines.
//
// # Overview
//
// A coral is drawn by walking the tree rooted at [Config.Start] depth-first.
// The walk carries a pen ([Frame]): a position plus a heading in degrees.
// Stepping from a node to one of its children turns the heading by the odd
// or even branch angle (depending on the child's parity), advances
// [Config.Spacing] units along the new heading in the XY plane, and rises
// [Config.Rise] units along Z.
//
// Points accumulate into a path until one of two things happens:
//
//   - The walk reaches a leaf. The path is finished.
//   - The walk reaches a branch point (more than one child). The path up to
//     the branch point is finished, and each child starts a new path at the
//     branch point's position.
//
// Finished paths with fewer than two points are dropped. Everything else is
// a [Strand], ready to be fitted with a curve and extruded into a tube by a
// renderer.
//
// # Ordering
//
// Children are visited in ascending numeric order, so the sequence of
// strands is fully determined by the strand grouping and the [Config].
//
// # Usage
//
//	g, _ := collatz.Build(9000)
//	c, err := coral.New(collatz.Group(g), coral.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for s := range c.All() {
//	    draw(s)
//	}
//
// [Coral.All] yields strands one at a time, so a renderer can pace its own
// consumption. [Coral.Strands] collects them into a slice.
//
// The walk uses an explicit stack, so arbitrarily deep chains are safe. A
// Coral is immutable and safe for concurrent use; every call to All starts a
// fresh walk.
package coral
