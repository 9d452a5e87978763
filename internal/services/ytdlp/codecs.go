package ytdlp

import (
	"fmt"
	"strings"
)

// Resolution renders the probed height as a release-name token, falling
// back when the probe carried no height.
func (m *Metadata) Resolution(fallback string) string {
	if m.Height > 0 {
		return fmt.Sprintf("%dp", m.Height)
	}
	return fallback
}

// VideoCodecLabel maps the probed vcodec string to its release-name
// label. Unknown codecs fall back to the configured default.
func (m *Metadata) VideoCodecLabel(fallback string) string {
	codec := strings.ToLower(m.VCodec)
	switch {
	case strings.Contains(codec, "avc"):
		return "H.264"
	case strings.Contains(codec, "hevc"), strings.Contains(codec, "hvc"):
		return "H.265"
	case strings.Contains(codec, "vp9"):
		return "VP9"
	case strings.Contains(codec, "av01"):
		return "AV1"
	default:
		return fallback
	}
}

// AudioCodecLabel maps the probed acodec string to its release-name
// label. Unknown codecs fall back to the configured default.
func (m *Metadata) AudioCodecLabel(fallback string) string {
	codec := strings.ToLower(m.ACodec)
	switch {
	case strings.Contains(codec, "mp4a"), strings.Contains(codec, "aac"):
		return "AAC"
	case strings.Contains(codec, "eac3"), strings.Contains(codec, "ec-3"):
		return "EAC3"
	case strings.Contains(codec, "ac3"), strings.Contains(codec, "ac-3"):
		return "AC3"
	case strings.Contains(codec, "opus"):
		return "Opus"
	case strings.Contains(codec, "vorbis"):
		return "Vorbis"
	default:
		return fallback
	}
}

// ChannelLayout renders the probed channel count as a release-name token.
// Surround counts use their conventional names, so 6 channels is "5.1" and
// 8 is "7.1". Falls back when the probe carried none.
func (m *Metadata) ChannelLayout(fallback string) string {
	switch {
	case m.AudioChannels == 6:
		return "5.1"
	case m.AudioChannels == 8:
		return "7.1"
	case m.AudioChannels > 0:
		return fmt.Sprintf("%d.0", m.AudioChannels)
	}
	return fallback
}
