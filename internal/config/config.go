// Package config loads client configuration from the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"voxchat/internal/speech"
	"voxchat/internal/transcript"
)

// Config holds application configuration.
type Config struct {
	ChatURL          string
	RecognizerSocket string
	Language         string
	SpeechEngine     string
	DBPath           string
	MirrorAddress    string
	LogFile          string
}

// Load reads environment variables and returns Config with sane
// defaults. MirrorAddress and SpeechEngine default to empty: the mirror
// stays off and the TTS engine is auto-probed.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ChatURL:          getenv("CHAT_URL", "http://localhost:5000/api/chat"),
		RecognizerSocket: getenv("RECOGNIZER_SOCKET", speech.DefaultSocketPath()),
		Language:         getenv("SPEECH_LANGUAGE", "en-US"),
		SpeechEngine:     os.Getenv("TTS_COMMAND"),
		DBPath:           getenv("VOXCHAT_DB", transcript.DefaultDBPath()),
		MirrorAddress:    os.Getenv("MIRROR_ADDRESS"),
		LogFile:          getenv("VOXCHAT_LOG", defaultLogPath()),
	}
}

func defaultLogPath() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "voxchat", "voxchat.log")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
