package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"connecty/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger and installs it as the zerolog global.
// The returned closer flushes the rotating log file when one is configured.
func New(app config.AppConfig, cfg config.LogConfig) (zerolog.Logger, io.Closer) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var console io.Writer = os.Stdout
	if app.IsDevelopment() {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	var out io.Writer = console
	var closer io.Closer = nopCloser{}
	if cfg.Folder != "" {
		file := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Folder, "connecty.log"),
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(file, console)
		closer = file
	}

	l := zerolog.New(out).Level(level).With().Timestamp().Str("app", app.AppName).Logger()
	log.Logger = l
	return l, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
