// Package render provides visualization output for mission graphs.
//
// # Overview
//
// This package contains the rendering steps that turn a laid-out mission
// graph into files. It provides:
//
//   - Output format names shared by the CLI, server, and pipeline
//   - Generic format conversion (SVG to PDF/PNG)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/missiongraph/pkg/render/nodelink
package render
