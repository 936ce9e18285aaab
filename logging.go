package bshell

import (
	"io"

	"github.com/phuslu/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging points the default logger at cfg.LogFile. Without a log
// file every entry is dropped, since the terminal belongs to the user.
func SetupLogging(cfg *Config) io.Closer {
	if cfg.LogFile == "" {
		log.DefaultLogger = log.Logger{
			Level:  log.ErrorLevel,
			Writer: &log.IOWriter{Writer: io.Discard},
		}
		return nopCloser{}
	}

	w := &log.FileWriter{
		Filename:   cfg.LogFile,
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 3,
		LocalTime:  true,
	}
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(cfg.LogLevel),
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Writer:     w,
	}
	return w
}
