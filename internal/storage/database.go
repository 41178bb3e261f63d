// Package storage persistência em SQLite via GORM
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/resper1965/DataFogScanner/internal/logger"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Options opções de inicialização do banco
type Options struct {
	DataDir         string
	FileName        string
	LogLevel        string        // silent, error, warn, info
	MaxOpenConns    int           // recomendado: 1
	MaxIdleConns    int           // recomendado: 1
	ConnMaxLifetime time.Duration // recomendado: 1h
	JournalMode     string        // WAL
	Synchronous     string        // NORMAL
	TempStore       string        // MEMORY
	ForeignKeys     bool          // true
}

// Setup inicializa o banco global uma única vez
// Retorna erro para o chamador decidir se aborta a subida do daemon
func Setup(opts Options) error {
	var err error

	once.Do(func() {
		var conn *gorm.DB
		conn, err = Open(opts)
		if err != nil {
			logger.Error("Erro na inicialização do banco", "details", err)
			return
		}
		db = conn

		logger.Info("Banco de dados inicializado",
			"path", filepath.Join(opts.DataDir, opts.FileName),
			"journal_mode", opts.JournalMode,
			"foreign_keys", opts.ForeignKeys,
		)
	})

	return err
}

// Open abre uma conexão independente, aplica os PRAGMAs e migra o esquema
// O daemon usa o singleton via Setup; os testes abrem bancos descartáveis
func Open(opts Options) (*gorm.DB, error) {
	if err := os.MkdirAll(opts.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório do banco %s: %w", opts.DataDir, err)
	}

	dbPath := filepath.Join(opts.DataDir, opts.FileName)

	var gormLogLevel gormlogger.LogLevel
	switch strings.ToLower(opts.LogLevel) {
	case "silent":
		gormLogLevel = gormlogger.Silent
	case "error":
		gormLogLevel = gormlogger.Error
	case "info":
		gormLogLevel = gormlogger.Info
	default:
		gormLogLevel = gormlogger.Warn
	}

	gormConfig := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormLogLevel),
		PrepareStmt: true,
		// Sem transação implícita por operação: evita conflito com o
		// lock de escritor único do SQLite
		SkipDefaultTransaction: true,
	}

	conn, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir sqlite %s: %w", dbPath, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("falha ao obter sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	// PRAGMAs valem por conexão, mas com MaxOpenConns=1
	// executar uma vez aqui é suficiente
	pragmas := []string{
		fmt.Sprintf("PRAGMA journal_mode = %s;", opts.JournalMode),
		fmt.Sprintf("PRAGMA synchronous = %s;", opts.Synchronous),
		fmt.Sprintf("PRAGMA temp_store = %s;", opts.TempStore),
	}
	if opts.ForeignKeys {
		pragmas = append(pragmas, "PRAGMA foreign_keys = ON;")
	}

	for _, p := range pragmas {
		if err := conn.Exec(p).Error; err != nil {
			return nil, fmt.Errorf("falha ao executar pragma %s: %w", p, err)
		}
	}

	if err := conn.AutoMigrate(
		&CaseRecord{},
		&FileRecord{},
		&DetectionRecord{},
		&ProcessingJob{},
	); err != nil {
		return nil, fmt.Errorf("falha na migração do esquema: %w", err)
	}

	return conn, nil
}

// GetDB instância global do banco
func GetDB() (*gorm.DB, error) {
	if db == nil {
		return nil, fmt.Errorf("banco não inicializado, chame Setup() antes")
	}
	return db, nil
}

// CloseDB fecha a conexão global, usado ao encerrar o daemon
func CloseDB() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("falha ao obter sql.DB: %w", err)
		}
		return sqlDB.Close()
	}
	return nil
}
