// Package sound plays audio cues for lobby events.
package sound

// Cue names a sound; the file assets/sounds/<cue>.wav or .mp3 provides it.
type Cue string

const (
	CueJoin    Cue = "join"
	CueLeave   Cue = "leave"
	CueComment Cue = "comment"
	CueStart   Cue = "start"
	CueError   Cue = "error"
)

const DefaultDir = "assets/sounds"
