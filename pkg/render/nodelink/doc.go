// Package nodelink renders mission graphs as left-to-right node-link
// diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// tasks appear as boxes connected by arrows from prerequisite to dependent.
// Every level of the layout becomes one Graphviz rank, so a task sits one
// column to the right of its deepest prerequisite.
//
// # Usage
//
// Convert a serialized layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Styling
//
// Edges follow the layout's edge styles: solid or dashed, colored by tone.
// Edges on a dependency cycle are drawn with constraint=false so they do not
// reorder ranks, and optimistic edges are drawn faded. Node fill reflects
// the task status.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
