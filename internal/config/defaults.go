package config

const (
	defaultDownloadDir    = "~/Downloads/beacon"
	defaultStagingDir     = "~/.local/share/beacon-dl/staging"
	defaultLogDir         = "~/.local/share/beacon-dl/logs"
	defaultHistoryDB      = "~/.local/share/beacon-dl/history.db"
	defaultReleaseGroup   = "Pawsty"
	defaultResolution     = "1080p"
	defaultSourceTag      = "WEB-DL"
	defaultContainer      = "mkv"
	defaultAudioCodec     = "AAC"
	defaultAudioChannels  = "2.0"
	defaultVideoCodec     = "H.264"
	defaultAPIEndpoint    = "https://beacon.tv/api/graphql"
	defaultBaseURL        = "https://beacon.tv"
	defaultSeries         = "campaign-4"
	defaultCookieFile     = "~/.config/beacon-dl/cookies.txt"
	defaultRequestTimeout = 10
	defaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultYtdlpBinary  = "yt-dlp"
	defaultFFmpegBinary = "ffmpeg"
	defaultFetchTimeout = 3600
	defaultMuxTimeout   = 900
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			StagingDir:  defaultStagingDir,
			LogDir:      defaultLogDir,
			HistoryDB:   defaultHistoryDB,
		},
		Naming: Naming{
			ReleaseGroup:  defaultReleaseGroup,
			Resolution:    defaultResolution,
			SourceTag:     defaultSourceTag,
			Container:     defaultContainer,
			AudioCodec:    defaultAudioCodec,
			AudioChannels: defaultAudioChannels,
			VideoCodec:    defaultVideoCodec,
		},
		Beacon: Beacon{
			APIEndpoint: defaultAPIEndpoint,
			BaseURL:     defaultBaseURL,
			Series:      defaultSeries,
			CookieFile:  defaultCookieFile,
			UserAgent:   defaultUserAgent,
			Collections: map[string]string{
				"campaign-4": "68caf69e7a76bce4b7aa689a",
			},
			RequestTimeout: defaultRequestTimeout,
		},
		Tools: Tools{
			YtdlpBinary:  defaultYtdlpBinary,
			FFmpegBinary: defaultFFmpegBinary,
			FetchTimeout: defaultFetchTimeout,
			MuxTimeout:   defaultMuxTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
