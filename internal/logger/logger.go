// Package logger
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ==========================================
// Sistema de log estruturado (slog + rotação)
// ==========================================

// Options parâmetros de inicialização do log
type Options struct {
	// Nível: debug, info, warn, error
	Level string
	// Caminho do arquivo de log; vazio desabilita o arquivo
	FilePath string
	// Rotação via lumberjack
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // dias
	Compress   bool
	// Espelha o log no stdout (desenvolvimento)
	Stdout bool
}

var (
	defaultLogger *slog.Logger
	setupOnce     sync.Once
)

// Setup inicializa o logger global
// Deve ser chamado uma única vez no início do main
func Setup(opts Options) error {
	var err error

	setupOnce.Do(func() {
		var writers []io.Writer

		if opts.FilePath != "" {
			if mkErr := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); mkErr != nil {
				err = fmt.Errorf("failed to create log dir: %w", mkErr)
				return
			}
			writers = append(writers, &lumberjack.Logger{
				Filename:   opts.FilePath,
				MaxSize:    opts.MaxSize,
				MaxBackups: opts.MaxBackups,
				MaxAge:     opts.MaxAge,
				Compress:   opts.Compress,
			})
		}
		if opts.Stdout || len(writers) == 0 {
			writers = append(writers, os.Stdout)
		}

		handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
			Level: parseLevel(opts.Level),
		})
		defaultLogger = slog.New(handler)
		slog.SetDefault(defaultLogger)
	})

	return err
}

// parseLevel converte a string de configuração para slog.Level
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// get retorna o logger global com fallback para stdout
// Permite usar o pacote em testes sem chamar Setup
func get() *slog.Logger {
	if defaultLogger == nil {
		return slog.Default()
	}
	return defaultLogger
}

// ==========================================
// Atalhos de nível de pacote
// ==========================================

func Debug(msg string, args ...any) { get().Debug(msg, args...) }
func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }
