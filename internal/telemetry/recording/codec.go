package recording

import "errors"

// ErrUnsupportedCodec is returned when no entry of the preference list
// passes the capability probe.
var ErrUnsupportedCodec = errors.New("recording: no supported codec")

// Ordered codec preference lists per mode, best first.
var (
	audioCodecPrefs = []string{
		"audio/webm;codecs=opus",
		"audio/webm",
		"audio/ogg;codecs=opus",
		"audio/mp4",
	}
	videoCodecPrefs = []string{
		"video/webm;codecs=vp9,opus",
		"video/webm;codecs=vp8,opus",
		"video/webm",
		"video/mp4",
	}
)

// PreferredCodecs returns the ordered preference list for a mode.
func PreferredCodecs(mode Mode) []string {
	if mode == ModeAudio {
		return audioCodecPrefs
	}
	return videoCodecPrefs
}

// Negotiate selects the first codec of prefs accepted by the capability
// probe. Pure over its inputs; independent of any session state.
func Negotiate(supported func(string) bool, prefs []string) (string, error) {
	if supported != nil {
		for _, c := range prefs {
			if supported(c) {
				return c, nil
			}
		}
	}
	return "", ErrUnsupportedCodec
}
