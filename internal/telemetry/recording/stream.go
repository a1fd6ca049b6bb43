package recording

// TrackKind distinguishes media track types.
type TrackKind string

const (
	TrackAudio TrackKind = "audio"
	TrackVideo TrackKind = "video"
)

// Mode selects what a recording session captures.
type Mode string

const (
	ModeAudio      Mode = "audio"
	ModeAudioVideo Mode = "audio_video"
)

// Track is one media track of a capture stream.
type Track struct {
	ID   string
	Kind TrackKind
	Live bool
}

// Stream is a live capture stream shared with the device-capture owner.
// The manager only reads tracks from it; it never stops tracks it does not
// own. Streams returned by DeriveAudio are manager-owned.
type Stream struct {
	ID     string
	Tracks []Track
}

// HasLive reports whether the stream has at least one live track of kind.
func (s *Stream) HasLive(kind TrackKind) bool {
	for _, t := range s.Tracks {
		if t.Kind == kind && t.Live {
			return true
		}
	}
	return false
}

// DeriveAudio returns a new stream containing only the live audio tracks.
// Used for audio-mode recording against an audio+video capture.
func (s *Stream) DeriveAudio() *Stream {
	out := &Stream{ID: s.ID + "/audio"}
	for _, t := range s.Tracks {
		if t.Kind == TrackAudio && t.Live {
			out.Tracks = append(out.Tracks, t)
		}
	}
	return out
}
