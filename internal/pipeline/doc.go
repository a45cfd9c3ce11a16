// Package pipeline runs one kiosk session: select the playlist source,
// resolve the playlist, report on every file, wait, then play forever.
//
// [Orchestrator] owns the per-file report and the playback loop; it only
// talks to the prober and the player through small interfaces so tests can
// drive it without ffprobe or a display. [Runner] sequences the selector,
// the resolver and the orchestrator and guarantees the drive is unmounted
// on the way out.
package pipeline
