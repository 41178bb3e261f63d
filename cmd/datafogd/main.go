package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/resper1965/DataFogScanner/internal/classifier"
	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/detector/pii"
	"github.com/resper1965/DataFogScanner/internal/extractor"
	"github.com/resper1965/DataFogScanner/internal/intake"
	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/pipeline"
	"github.com/resper1965/DataFogScanner/internal/scanner"
	"github.com/resper1965/DataFogScanner/internal/storage"
)

// ==========================================
// Configuração e infraestrutura
// ==========================================

// loadConfig carrega o .env (se existir) e o arquivo de configuração
func loadConfig(configPath string) error {
	_ = godotenv.Load()

	fmt.Printf("Carregando configuração: %s\n", configPath)
	if err := config.LoadConfig(configPath); err != nil {
		return fmt.Errorf("falha ao carregar configuração: %w", err)
	}
	return nil
}

// initLogger inicializa o sistema de logs
func initLogger() error {
	cfg := config.Get()
	if err := logger.Setup(logger.Options{
		Level:      cfg.App.LogLevel,
		FilePath:   cfg.App.LogFile,
		MaxSize:    cfg.App.LogMaxSize,
		MaxBackups: cfg.App.LogMaxBackups,
		MaxAge:     cfg.App.LogMaxAge,
		Compress:   cfg.App.LogCompress,
		Stdout:     cfg.App.LogStdout,
	}); err != nil {
		return fmt.Errorf("falha ao inicializar logs: %w", err)
	}
	logger.Info("Daemon iniciando", "versao", config.Version)
	return nil
}

// initDatabase inicializa o banco SQLite e as migrações
func initDatabase() error {
	cfg := config.Get()
	dbCfg := cfg.Database

	if err := storage.Setup(storage.Options{
		DataDir:         cfg.App.DataDir,
		FileName:        dbCfg.FileName,
		LogLevel:        dbCfg.LogLevel,
		MaxOpenConns:    dbCfg.MaxOpenConns,
		MaxIdleConns:    dbCfg.MaxIdleConns,
		ConnMaxLifetime: dbCfg.ConnMaxLifetime,
		JournalMode:     dbCfg.JournalMode,
		Synchronous:     dbCfg.Synchronous,
		TempStore:       dbCfg.TempStore,
		ForeignKeys:     dbCfg.ForeignKeys,
	}); err != nil {
		return fmt.Errorf("falha ao inicializar banco de dados: %w", err)
	}
	logger.Info("Banco de dados pronto", "dir", cfg.App.DataDir)
	return nil
}

// initStores inicializa as filas híbridas memória/disco
func initStores() error {
	cfg := config.Get()

	db, err := storage.GetDB()
	if err != nil {
		return fmt.Errorf("falha ao obter instância do banco: %w", err)
	}
	if err := storage.SetupStores(db, storage.StoresOptions{
		PendingMemoryLimit:    cfg.Storage.PendingMemoryLimit,
		DetectionsMemoryLimit: cfg.Storage.DetectionsMemoryLimit,
	}); err != nil {
		return fmt.Errorf("falha ao inicializar filas: %w", err)
	}
	logger.Info("Filas híbridas prontas")
	return nil
}

// ==========================================
// Execução do daemon
// ==========================================

func runDaemon(configPath string) error {
	// Fase 1: configuração e infraestrutura
	if err := loadConfig(configPath); err != nil {
		return err
	}
	if err := initLogger(); err != nil {
		return err
	}
	if err := initDatabase(); err != nil {
		return err
	}
	if err := initStores(); err != nil {
		return err
	}

	cfg := config.Get()
	db, err := storage.GetDB()
	if err != nil {
		return err
	}
	repo := storage.NewRepository(db)
	stores := storage.GetStores()

	// Fase 2: estágios do pipeline
	scannerSvc := scanner.New(cfg.Scanner)
	extractorSvc := extractor.New(cfg.Extractor)
	detectorSvc := pii.New(cfg.Detector)
	classifierSvc := classifier.New(cfg.Classifier)
	if classifierSvc.Enabled() {
		logger.Info("Classificação semântica habilitada", "modelo", cfg.Classifier.Model)
	} else {
		logger.Info("Classificação semântica desabilitada, usando apenas padrões")
	}

	pipe := pipeline.New(scannerSvc, extractorSvc, detectorSvc, classifierSvc, repo, stores.Detections)
	worker := pipeline.NewWorker(pipe, stores.PendingFiles, stores.Detections, cfg.Pipeline.BatchSize, cfg.Pipeline.JobTimeout)
	reporter := pipeline.NewStatusReporter(repo, stores)
	intakeSvc := intake.New(cfg.Intake, scannerSvc, repo, stores.PendingFiles)

	// Fase 3: operação
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	heartbeatDone := make(chan struct{})
	go reporter.Heartbeat(heartbeatDone, cfg.App.HeartbeatInterval)
	go worker.Run(ctx)
	go func() {
		if err := intakeSvc.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Monitor de ingestão encerrou com erro", "error", err)
		}
	}()

	fmt.Println("=== DataFog Scanner em execução (Ctrl+C para encerrar) ===")
	logger.Info("Daemon em execução", "watch_dir", cfg.Intake.WatchDir)

	// Fase 4: desligamento gracioso
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	fmt.Printf("\nSinal recebido: %v, encerrando...\n", sig)

	cancel()
	close(heartbeatDone)
	if err := stores.FlushAll(); err != nil {
		logger.Error("Falha ao persistir filas no desligamento", "error", err)
	}
	if err := storage.CloseDB(); err != nil {
		logger.Error("Falha ao fechar banco de dados", "error", err)
	}
	logger.Info("Daemon encerrado")
	return nil
}

// ==========================================
// Entrada
// ==========================================

func main() {
	var configPath string

	root := &cobra.Command{
		Use:     "datafogd",
		Short:   "Daemon de detecção de dados pessoais em documentos (LGPD)",
		Version: config.VersionInfo(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(configPath)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "configs/config.yml", "caminho do arquivo de configuração")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		os.Exit(1)
	}
}
