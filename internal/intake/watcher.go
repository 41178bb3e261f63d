package intake

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/resper1965/DataFogScanner/internal/config"
	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/model"
	"github.com/resper1965/DataFogScanner/internal/scanner"
	"github.com/resper1965/DataFogScanner/internal/storage"
)

// Intervalo de espera padrão após o último write antes de enfileirar
const defaultSettleDelay = 500 * time.Millisecond

// FileScanner verifica um arquivo antes da expansão de ZIPs
type FileScanner interface {
	ScanFile(ctx context.Context, path string) (*model.ScanVerdict, error)
}

// ==========================================
// Monitoramento do diretório de ingestão
// ==========================================

// Service observa o diretório de ingestão e enfileira arquivos novos
// para o pipeline. Escritas em andamento são aguardadas via debounce:
// cada evento reinicia o timer do arquivo e o enfileiramento só ocorre
// após SettleDelay sem novos eventos.
type Service struct {
	cfg     config.IntakeConfig
	scanner FileScanner
	repo    *storage.Repository
	queue   *storage.HybridStore[model.PendingFile]
	allowed map[string]bool

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New cria o serviço de ingestão com os padrões de configuração aplicados
func New(cfg config.IntakeConfig, sc FileScanner, repo *storage.Repository, queue *storage.HybridStore[model.PendingFile]) *Service {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = []string{".txt", ".pdf", ".doc", ".docx", ".csv", ".json", ".xml"}
	}
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}
	return &Service{
		cfg:     cfg,
		scanner: sc,
		repo:    repo,
		queue:   queue,
		allowed: allowed,
		timers:  make(map[string]*time.Timer),
	}
}

// Run observa o diretório configurado até o contexto ser cancelado
func (s *Service) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.WatchDir, 0o755); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.cfg.WatchDir); err != nil {
		return err
	}
	logger.Info("Monitorando diretório de ingestão", "dir", s.cfg.WatchDir)

	for {
		select {
		case <-ctx.Done():
			s.stopTimers()
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				s.schedule(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Erro do monitor de arquivos", "error", err)
		}
	}
}

// schedule reinicia o timer de debounce do arquivo
func (s *Service) schedule(ctx context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[path]; ok {
		timer.Stop()
	}
	s.timers[path] = time.AfterFunc(s.cfg.SettleDelay, func() {
		s.mu.Lock()
		delete(s.timers, path)
		s.mu.Unlock()
		s.handlePath(ctx, path)
	})
}

func (s *Service) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, timer := range s.timers {
		timer.Stop()
		delete(s.timers, path)
	}
}

// handlePath decide o destino de um arquivo estabilizado
func (s *Service) handlePath(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".zip" {
		s.handleZip(ctx, path)
		return
	}
	if !s.allowed[ext] {
		logger.Debug("Arquivo com extensão não suportada ignorado", "path", path)
		return
	}
	s.enqueue(path, filepath.Base(path), info.Size())
}

// handleZip verifica o contêiner antes de expandir e enfileirar os membros
func (s *Service) handleZip(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	record, err := s.repo.CreateFile(path, filepath.Base(path), scanner.MimeType(path), "", info.Size())
	if err != nil {
		logger.Error("Falha ao registrar zip recebido", "path", path, "error", err)
		return
	}

	verdict, err := s.scanner.ScanFile(ctx, path)
	if err != nil {
		logger.Warn("Falha na verificação do zip", "path", path, "error", err)
		_ = s.repo.UpdateFileStatus(record.ID, model.FileError)
		return
	}
	_ = s.repo.SaveScanVerdict(record.ID, verdict)
	if !verdict.IsClean {
		logger.Warn("Zip rejeitado pela verificação de segurança",
			"path", path, "risco", verdict.RiskLevel)
		_ = s.repo.UpdateFileStatus(record.ID, model.FileError)
		return
	}

	members, err := ExpandZip(path, s.cfg.ExtractDir, s.allowed)
	if err != nil {
		logger.Warn("Falha ao expandir zip", "path", path, "error", err)
		_ = s.repo.UpdateFileStatus(record.ID, model.FileError)
		return
	}
	for _, member := range members {
		memberInfo, err := os.Stat(member)
		if err != nil {
			continue
		}
		s.enqueue(member, filepath.Base(member), memberInfo.Size())
	}
	_ = s.repo.UpdateFileStatus(record.ID, model.FileCompleted)
	logger.Info("Zip expandido", "path", path, "membros", len(members))
}

// enqueue registra o arquivo e o envia para a fila do pipeline
func (s *Service) enqueue(path, originalName string, size int64) {
	record, err := s.repo.CreateFile(path, originalName, scanner.MimeType(path), "", size)
	if err != nil {
		logger.Error("Falha ao registrar arquivo recebido", "path", path, "error", err)
		return
	}
	job, err := s.repo.CreateJob(record.ID)
	if err != nil {
		logger.Error("Falha ao criar job de processamento", "file", record.ID, "error", err)
		return
	}
	pending := model.PendingFile{
		FileID:       record.ID,
		JobID:        job.ID,
		Path:         path,
		OriginalName: originalName,
		EnqueuedAt:   time.Now(),
	}
	if err := s.queue.Push(pending); err != nil {
		logger.Error("Falha ao enfileirar arquivo", "file", record.ID, "error", err)
		return
	}
	logger.Info("Arquivo enfileirado", "file", record.ID, "path", path)
}
