package logx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level                string // debug|info|warn|error
	FilePath             string // path template, e.g. "logs/{start}.log" or "" (no file)
	ConsoleOnly          bool   // if true, do not write to the file
	HideSecretsInConsole bool   // if true, seeds and keys are masked in the console
	Quiet                bool   // if true, console only receives warnings and errors
}

var StartTime = time.Now()

var (
	global  = zap.NewNop()
	sugar   = global.Sugar()
	fileOut *os.File
	level   = zapcore.InfoLevel
)

// Init initializes the global logger.
// cfg.FilePath may contain {start} and {pid}; if empty, or cfg.ConsoleOnly=true, no file is written.
// cfg.HideSecretsInConsole controls masking in the console.
// Calling Init again replaces the previous logger and closes its file.
func Init(cfg Config) error {
	lvl := parseLevel(cfg.Level)

	consoleEncCfg := baseEncoderConfig()
	consoleEncCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncCfg)

	consoleLevel := lvl
	if cfg.Quiet {
		consoleLevel = zapcore.WarnLevel
	}

	var cores []zapcore.Core

	// console goes to stderr so prompts and results on stdout stay clean
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), consoleLevel)
	if cfg.HideSecretsInConsole {
		consoleCore = newMaskingCore(consoleCore)
	}
	cores = append(cores, consoleCore)

	var f *os.File
	if cfg.FilePath != "" && !cfg.ConsoleOnly {
		var err error
		f, err = openLogFile(resolvePath(cfg.FilePath))
		if err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(fileEncoder(), zapcore.AddSync(f), lvl))
	}

	Close()

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.PanicLevel),
	)
	zap.ReplaceGlobals(logger)

	global = logger
	sugar = logger.Sugar()
	fileOut = f
	level = lvl
	return nil
}

// Fork returns a logger that writes wherever the global logger does and
// also to path. The returned func flushes and closes that file.
func Fork(path string) (*zap.SugaredLogger, func() error, error) {
	f, err := openLogFile(path)
	if err != nil {
		return nil, nil, err
	}
	core := zapcore.NewTee(global.Core(), zapcore.NewCore(fileEncoder(), zapcore.AddSync(f), level))
	l := zap.New(core, zap.AddCaller())
	return l.Sugar(), func() error {
		_ = l.Sync()
		return f.Close()
	}, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func fileEncoder() zapcore.Encoder {
	cfg := baseEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func baseEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "lvl",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     timeEncoderRFC3339,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// Close syncs the logger and closes the file (if open).
func Close() {
	_ = global.Sync()
	if fileOut != nil {
		_ = fileOut.Sync()
		_ = fileOut.Close()
		fileOut = nil
	}
}

func L() *zap.Logger        { return global }
func S() *zap.SugaredLogger { return sugar }

func With(name string) *zap.SugaredLogger     { return sugar.Named(name) }
func WithFields(kv ...any) *zap.SugaredLogger { return sugar.With(kv...) }

func resolvePath(tmpl string) string {
	startLocal := StartTime.UTC().Format("2006-01-02_15-04-05")
	repl := map[string]string{
		"{start}": startLocal,
		"{pid}":   fmt.Sprintf("%d", os.Getpid()),
	}
	path := tmpl
	for k, v := range repl {
		path = strings.ReplaceAll(path, k, v)
	}
	return path
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error", "err":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func timeEncoderRFC3339(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(time.RFC3339))
}
