// Package server exposes mission graphs over HTTP.
//
// # Routes
//
//	GET    /healthz                              liveness and build version
//	GET    /missions                             stored mission IDs
//	PUT    /missions/{mission}                   replace a mission's tasks (JSON or YAML body)
//	GET    /missions/{mission}/graph             layout JSON
//	GET    /missions/{mission}/graph.{format}    rendering (json, dot, svg, png, pdf)
//	POST   /missions/{mission}/dependencies      {"source": "a", "target": "b"}: b depends on a
//	DELETE /missions/{mission}/dependencies?source=a&target=b&confirm=true
//
// Dependency mutations go through an [editor.Engine] and are fire-and-forget:
// a 202 response means the store call was dispatched, not that it
// succeeded. Clients observe the result by fetching the graph again.
// Removals require confirm=true; without it the server answers 409 and
// nothing is dispatched.
//
// Errors are JSON bodies with a pkg/errors code (see pkg/httputil).
package server
