// Package layout positions mission dependency graphs for left-to-right
// rendering and decides how each dependency edge is drawn.
//
// # Positions
//
// Nodes are grouped by level (see transform.AssignLevels) and stacked in
// snapshot order within a level:
//
//	x = level * (NodeWidth + HorizontalGap) + Margin
//	y = index * (NodeHeight + VerticalGap) + Margin
//
// x grows strictly with level and nodes in one level never overlap. The
// spacing is configuration; only those two properties are contractual.
// Identical snapshots always produce identical layouts.
//
// # Edge Styles
//
// An edge is styled by its source task's status, since finishing the source
// is what unblocks the target. [StyleFor] is total over [tasks.Status]:
//
//	done         solid, success color
//	in progress  dashed, animated, progress color
//	anything else solid, neutral color
package layout
