package config

import "time"

// StreamConfig holds the pacing knobs for the relay's output stream.
type StreamConfig struct {
	// CharDelay separates consecutive characters of the replayed answer.
	CharDelay time.Duration
	// KeepAliveInterval separates filler bytes after the replay is done.
	KeepAliveInterval time.Duration
	// KeepAliveWindow is how long the connection is held open past the
	// replay before the stream closes.
	KeepAliveWindow time.Duration
}

func GetStreamConfig() StreamConfig {
	return StreamConfig{
		CharDelay:         parseEnvDuration("STREAM_CHAR_DELAY", 30*time.Millisecond),
		KeepAliveInterval: parseEnvDuration("STREAM_KEEPALIVE_INTERVAL", time.Second),
		KeepAliveWindow:   parseEnvDuration("STREAM_KEEPALIVE_WINDOW", 15*time.Second),
	}
}
