package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/model"
	"github.com/resper1965/DataFogScanner/internal/storage"
)

// Worker consome a fila de arquivos pendentes em lotes concorrentes
type Worker struct {
	pipeline     *Pipeline
	queue        *storage.HybridStore[model.PendingFile]
	backlog      *storage.HybridStore[model.DetectionBatch]
	batchSize    int
	jobTimeout   time.Duration
	pollInterval time.Duration
}

// NewWorker monta o consumidor da fila
func NewWorker(p *Pipeline, queue *storage.HybridStore[model.PendingFile],
	backlog *storage.HybridStore[model.DetectionBatch],
	batchSize int, jobTimeout time.Duration) *Worker {

	if batchSize <= 0 {
		batchSize = 3
	}
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Second
	}

	return &Worker{
		pipeline:     p,
		queue:        queue,
		backlog:      backlog,
		batchSize:    batchSize,
		jobTimeout:   jobTimeout,
		pollInterval: 2 * time.Second,
	}
}

// Run drena a fila até o contexto ser cancelado
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker do pipeline encerrado")
			return
		case <-ticker.C:
			w.replayBacklog()

			pending, err := w.queue.PopAll()
			if err != nil {
				logger.Error("Falha ao drenar fila de pendentes", "error", err)
				continue
			}
			if len(pending) > 0 {
				w.ProcessBatch(ctx, pending)
			}
		}
	}
}

// ProcessBatch processa os arquivos com concorrência limitada ao lote
// Falha ou timeout de um arquivo nunca interrompe os demais
func (w *Worker) ProcessBatch(ctx context.Context, pending []model.PendingFile) {
	var g errgroup.Group
	g.SetLimit(w.batchSize)

	for _, item := range pending {
		item := item
		g.Go(func() error {
			jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
			defer cancel()

			if err := w.pipeline.ProcessFile(jobCtx, item); err != nil {
				// Erro de orquestração: registra e segue para o próximo
				logger.Error("Erro de orquestração no processamento",
					"file", item.OriginalName,
					"job", item.JobID,
					"error", err,
				)
			}
			return nil
		})
	}

	// Erros individuais já foram tratados; Wait só sincroniza
	_ = g.Wait()
}

// replayBacklog persiste os lotes de detecções retidos em ciclos anteriores
// Lote que volta a falhar retorna para a fila e tenta no próximo ciclo
func (w *Worker) replayBacklog() {
	if w.backlog == nil {
		return
	}
	batches, err := w.backlog.PopAll()
	if err != nil {
		logger.Error("Falha ao drenar fila de contingência", "error", err)
		return
	}
	for _, batch := range batches {
		if err := w.pipeline.repo.ReplaceDetections(batch.FileID, batch.Detections); err != nil {
			logger.Warn("Persistência de detecções adiada novamente",
				"file", batch.FileID, "error", err)
			if pushErr := w.backlog.Push(batch); pushErr != nil {
				logger.Error("Lote de detecções perdido na recolocação",
					"file", batch.FileID, "error", pushErr)
			}
			continue
		}
		logger.Info("Detecções retidas persistidas",
			"file", batch.FileID, "detections", len(batch.Detections))
	}
}
