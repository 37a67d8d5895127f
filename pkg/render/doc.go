// Package render draws tech path graphs.
//
// # Overview
//
// Rendering happens in two steps. [BuildScene] turns a graph and its layout
// into a device-independent [Scene]: pixel positions, node radii and colors,
// clipped edge segments with arrowheads, label boxes, the colorbar legend and
// the title, already cropped to the drawn content. Sinks then paint a scene:
//
//   - [RenderPNG]: raster output with git.sr.ht/~sbinet/gg
//   - [RenderSVG]: vector output with github.com/ajstarks/svgo
//   - [ToPDF]: PDF converted from the SVG by rsvg-convert
//
// DOT output lives in the [nodelink] subpackage.
//
// # Appearance
//
// Node area grows with repetition count (node sizes are areas in square
// points, as in matplotlib's node_size). Node color is the node's color key
// mapped through a [ColorScale], normalized against the smallest and largest
// key; a zero-width range maps every node to the middle of the scale. Edges
// are thin gray arrows labeled with the destination time. A vertical
// colorbar on the right maps color back to elapsed minutes.
//
// # Files
//
// [FileName] derives the output name from the player id and [WriteFile]
// replaces the destination atomically, so a failed write never leaves a
// truncated image behind.
//
// [nodelink]: github.com/matzehuels/techpath/pkg/render/nodelink
package render
