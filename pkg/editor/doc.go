// Package editor implements interactive editing of a mission's dependency
// graph.
//
// An [Engine] owns the current task snapshot and its layout and turns user
// gestures into calls on an external [Mutator]:
//
//   - [Engine.Connect] proposes "target depends on source". Self-loops are
//     rejected before the mutator is called. Accepted proposals call
//     Mutator.AddDependency exactly once and show the new edge immediately,
//     drawn with the neutral style.
//   - [Engine.RequestRemoval] enters the awaiting-confirmation state for an
//     edge and [Engine.ResolveRemoval] leaves it. Only a confirmed request
//     calls Mutator.RemoveDependency, exactly once. [Engine.Disconnect] runs
//     both steps with the engine's [Confirmer].
//
// # Consistency
//
// Mutations are fire-and-forget. The engine does not wait for the mutator,
// does not retry, and does not roll back local edits when a call fails; the
// failure is logged and reported to observability hooks. The next snapshot
// passed to [Engine.Load] is the only reconciliation: it replaces all local
// edits and abandons any pending confirmation. Callers that need stronger
// guarantees must refresh the snapshot after each call.
//
// Cycles are not checked on add. A proposal that closes a cycle is sent as
// is and the next layout degrades as described in package transform.
package editor
