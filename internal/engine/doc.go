// Package engine hosts running games.
//
// Each game is owned by a Runner: a single goroutine that drains a FIFO
// command queue and is the only code that ever touches its *game.Game.
// Transport handlers, phase timers and snapshot requests all enqueue
// commands instead of calling the game directly.
//
// Command Processing Flow:
//  1. Submit/Connect/Disconnect/Snapshot enqueue a Command
//  2. Runner.Run stamps it with the logical Clock and applies it to the game
//  3. Packets produced by the game go to the Outbox, tagged with the game id
//  4. A per-runner ticker enqueues Tick commands that drive phase timers
//
// Runners for different games run in parallel under a Manager. Stats about
// started and finished games are handed to a StatsRecorder from background
// goroutines; a failing recorder is logged and never stalls a game.
package engine
