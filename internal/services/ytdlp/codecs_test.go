package ytdlp

import "testing"

func TestCodecLabels(t *testing.T) {
	tests := []struct {
		vcodec string
		acodec string
		wantV  string
		wantA  string
	}{
		{"avc1.640028", "mp4a.40.2", "H.264", "AAC"},
		{"hevc", "opus", "H.265", "Opus"},
		{"vp9", "vorbis", "VP9", "Vorbis"},
		{"av01.0.08M.08", "ec-3", "AV1", "EAC3"},
		{"", "ac3", "H.264", "AC3"},
		{"mystery", "mystery", "H.264", "AAC"},
	}
	for _, tt := range tests {
		meta := &Metadata{VCodec: tt.vcodec, ACodec: tt.acodec}
		if got := meta.VideoCodecLabel("H.264"); got != tt.wantV {
			t.Errorf("VideoCodecLabel(%q) = %q, want %q", tt.vcodec, got, tt.wantV)
		}
		if got := meta.AudioCodecLabel("AAC"); got != tt.wantA {
			t.Errorf("AudioCodecLabel(%q) = %q, want %q", tt.acodec, got, tt.wantA)
		}
	}
}

func TestResolutionAndChannels(t *testing.T) {
	meta := &Metadata{Height: 2160, AudioChannels: 6}
	if got := meta.Resolution("1080p"); got != "2160p" {
		t.Fatalf("Resolution = %q", got)
	}
	if got := meta.ChannelLayout("2.0"); got != "5.1" {
		t.Fatalf("ChannelLayout = %q", got)
	}
	if got := (&Metadata{AudioChannels: 8}).ChannelLayout("2.0"); got != "7.1" {
		t.Fatalf("ChannelLayout(8) = %q", got)
	}
	if got := (&Metadata{AudioChannels: 2}).ChannelLayout("5.1"); got != "2.0" {
		t.Fatalf("ChannelLayout(2) = %q", got)
	}

	empty := &Metadata{}
	if got := empty.Resolution("1080p"); got != "1080p" {
		t.Fatalf("fallback Resolution = %q", got)
	}
	if got := empty.ChannelLayout("2.0"); got != "2.0" {
		t.Fatalf("fallback ChannelLayout = %q", got)
	}
}
