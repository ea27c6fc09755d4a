package asset

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectFlags sniffs the media kind from the leading bytes of a file,
// with the filename as a tie-breaker for containers that serve both
// voice notes and music.
func DetectFlags(data []byte, filename string) Flags {
	mime := mimetype.Detect(data)
	name := strings.ToLower(filename)
	switch {
	case mime.Is("video/webm"), mime.Is("video/mp4"), mime.Is("video/quicktime"):
		return FlagVideo
	case mime.Is("audio/ogg"), mime.Is("audio/opus"):
		// Telegram voice notes are opus-in-ogg; anything else in an
		// ogg container is treated as music.
		if strings.HasSuffix(name, ".oga") || strings.HasSuffix(name, ".opus") || name == "" {
			return FlagVoice
		}
		return FlagSong
	case strings.HasPrefix(mime.String(), "audio/"):
		return FlagSong
	case mime.Is("application/gzip") && strings.HasSuffix(name, ".tgs"):
		return FlagStickerEmoji
	default:
		return 0
	}
}
