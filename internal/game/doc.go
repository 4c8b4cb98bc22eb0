// Package game implements the rules of a duskfall match.
//
// A Game owns the roster, the phase state machine, role state, chat and
// graves. It performs no I/O and starts no goroutines: every mutation is a
// method call from a single owner, and every notification leaves through the
// Sink given to New. The engine package provides that owner.
//
// Cross-cutting behaviour is expressed as events (OnPhaseStart, OnAnyDeath,
// OnMidnight and so on). Each event type lists its listeners in a fixed order
// and dispatch walks priorities ascending, then listeners in that order, so a
// given seed and input sequence always produce the same game.
//
// Night actions are resolved as one batch when the Night ends: visits are
// collected from saved selections, OnMidnight sweeps every Priority, and the
// deaths it scheduled are applied in order before the Obituary begins.
package game
