// Package pipeline orquestra o fluxo scan -> extração -> detecção ->
// classificação -> persistência por arquivo
package pipeline

import (
	"context"
	"fmt"

	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/model"
	"github.com/resper1965/DataFogScanner/internal/storage"
)

// Progresso avança em marcos fixos, não por unidade de trabalho
const (
	progressScanned   = 10
	progressExtracted = 30
	progressDetected  = 90
	progressPersist   = 95
)

// FileScanner verificação de segurança de um arquivo
type FileScanner interface {
	ScanFile(ctx context.Context, path string) (*model.ScanVerdict, error)
}

// TextExtractor extração de texto de um arquivo
type TextExtractor interface {
	Extract(path string) model.ExtractionResult
}

// EntityDetector detecção regex de dados pessoais
type EntityDetector interface {
	Detect(text string) []model.Detection
}

// SemanticClassifier refinamento semântico das detecções
type SemanticClassifier interface {
	Enabled() bool
	Classify(ctx context.Context, text string, candidates []model.Detection) []model.Detection
}

// Pipeline executa os estágios de processamento de cada arquivo
type Pipeline struct {
	scanner    FileScanner
	extractor  TextExtractor
	detector   EntityDetector
	classifier SemanticClassifier
	repo       *storage.Repository

	// Fila de contingência para detecções cuja gravação falhou; o
	// worker as reprocessa no próximo ciclo. Pode ser nil
	backlog *storage.HybridStore[model.DetectionBatch]
}

// New monta o pipeline com os estágios injetados
func New(scanner FileScanner, extractor TextExtractor, detector EntityDetector,
	classifier SemanticClassifier, repo *storage.Repository,
	backlog *storage.HybridStore[model.DetectionBatch]) *Pipeline {

	return &Pipeline{
		scanner:    scanner,
		extractor:  extractor,
		detector:   detector,
		classifier: classifier,
		repo:       repo,
		backlog:    backlog,
	}
}

// ProcessFile roda todos os estágios para um arquivo pendente
// Rejeição de segurança e falha de extração encerram o job como falho sem
// propagar erro; só erros de orquestração (banco indisponível) retornam
func (p *Pipeline) ProcessFile(ctx context.Context, pending model.PendingFile) error {
	if err := p.repo.StartJob(pending.JobID); err != nil {
		return fmt.Errorf("falha ao iniciar job %s: %w", pending.JobID, err)
	}
	if err := p.repo.UpdateFileStatus(pending.FileID, model.FileProcessing); err != nil {
		return fmt.Errorf("falha ao atualizar arquivo %s: %w", pending.FileID, err)
	}

	// 1. Verificação de segurança
	verdict, err := p.scanner.ScanFile(ctx, pending.Path)
	if err != nil {
		return p.failFile(pending, fmt.Sprintf("falha na verificação de segurança: %v", err))
	}
	if err := p.repo.SaveScanVerdict(pending.FileID, verdict); err != nil {
		return fmt.Errorf("falha ao gravar veredito: %w", err)
	}
	p.advance(pending.JobID, progressScanned)

	if !verdict.IsClean {
		logger.Warn("Arquivo rejeitado pela verificação de segurança",
			"file", pending.OriginalName,
			"risk", verdict.RiskLevel,
			"threats", len(verdict.Threats),
		)
		return p.failFile(pending, "arquivo rejeitado pela verificação de segurança: "+string(verdict.RiskLevel))
	}

	if err := ctx.Err(); err != nil {
		return p.failFile(pending, "tempo de processamento excedido")
	}

	// 2. Extração de texto
	extraction := p.extractor.Extract(pending.Path)
	if !extraction.Success {
		return p.failFile(pending, "falha na extração de texto: "+extraction.Error)
	}
	p.advance(pending.JobID, progressExtracted)

	// 3. Detecção regex
	detections := p.detector.Detect(extraction.Text)
	p.advance(pending.JobID, progressDetected)

	if err := ctx.Err(); err != nil {
		return p.failFile(pending, "tempo de processamento excedido")
	}

	// 4. Refinamento semântico, sempre de melhor esforço
	detections = p.classifier.Classify(ctx, extraction.Text, detections)

	// 5. Persistência atômica das detecções
	// Falha de gravação com fila de contingência disponível não derruba o
	// arquivo: o lote fica retido e o worker persiste no próximo ciclo
	p.advance(pending.JobID, progressPersist)
	if err := p.repo.ReplaceDetections(pending.FileID, detections); err != nil {
		if p.backlog == nil {
			return p.failFile(pending, fmt.Sprintf("falha ao persistir detecções: %v", err))
		}
		batch := model.DetectionBatch{FileID: pending.FileID, Detections: detections}
		if pushErr := p.backlog.Push(batch); pushErr != nil {
			return p.failFile(pending, fmt.Sprintf("falha ao persistir detecções: %v", err))
		}
		logger.Warn("Detecções retidas na fila de contingência",
			"file", pending.OriginalName,
			"detections", len(detections),
			"error", err,
		)
	}

	if err := p.repo.UpdateFileStatus(pending.FileID, model.FileCompleted); err != nil {
		return fmt.Errorf("falha ao concluir arquivo %s: %w", pending.FileID, err)
	}
	if err := p.repo.CompleteJob(pending.JobID); err != nil {
		return fmt.Errorf("falha ao concluir job %s: %w", pending.JobID, err)
	}

	logger.Info("Arquivo processado",
		"file", pending.OriginalName,
		"detections", len(detections),
	)
	return nil
}

// failFile marca arquivo e job como falhos, sem interromper o lote
func (p *Pipeline) failFile(pending model.PendingFile, reason string) error {
	if err := p.repo.UpdateFileStatus(pending.FileID, model.FileError); err != nil {
		return fmt.Errorf("falha ao marcar arquivo %s como erro: %w", pending.FileID, err)
	}
	if err := p.repo.FailJob(pending.JobID, reason); err != nil {
		return fmt.Errorf("falha ao marcar job %s como falho: %w", pending.JobID, err)
	}
	logger.Warn("Processamento de arquivo falhou",
		"file", pending.OriginalName,
		"reason", reason,
	)
	return nil
}

// advance atualiza o progresso ignorando falhas pontuais de escrita
func (p *Pipeline) advance(jobID string, progress int) {
	if err := p.repo.UpdateJobProgress(jobID, progress); err != nil {
		logger.Debug("Falha ao atualizar progresso", "job", jobID, "error", err)
	}
}
