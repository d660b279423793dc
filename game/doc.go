// Package game implements single-player gameplay on a generated maze.
//
// StartLevel derives the maze size from the level, acquires a solvable maze
// and returns an active Session positioned at the start cell. Session.Move
// applies one directional move at a time: moves into walls are silently
// ignored, and landing on the goal completes the session and yields a
// Completion carrying the elapsed time and score. A completed session rejects
// further moves with ErrInvalidStateTransition.
package game
