package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resper1965/DataFogScanner/internal/model"
)

// Repository operações de persistência do pipeline
type Repository struct {
	db *gorm.DB
}

// NewRepository cria o repositório sobre uma conexão já inicializada
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ==========================================
// Casos
// ==========================================

// CreateCase cria um caso para agrupar arquivos
func (r *Repository) CreateCase(name, description string) (*CaseRecord, error) {
	rec := &CaseRecord{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	if err := r.db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("falha ao criar caso: %w", err)
	}
	return rec, nil
}

// ==========================================
// Arquivos
// ==========================================

// CreateFile registra um arquivo recém-recebido com status uploaded
func (r *Repository) CreateFile(name, originalName, mimeType, caseID string, size int64) (*FileRecord, error) {
	rec := &FileRecord{
		ID:           uuid.NewString(),
		Name:         name,
		OriginalName: originalName,
		Size:         size,
		MimeType:     mimeType,
		Status:       string(model.FileUploaded),
		CaseID:       caseID,
	}
	if err := r.db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("falha ao registrar arquivo: %w", err)
	}
	return rec, nil
}

// GetFile busca um arquivo pelo ID
func (r *Repository) GetFile(fileID string) (*FileRecord, error) {
	var rec FileRecord
	if err := r.db.First(&rec, "id = ?", fileID).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateFileStatus transiciona o status do arquivo
func (r *Repository) UpdateFileStatus(fileID string, status model.FileStatus) error {
	return r.db.Model(&FileRecord{}).
		Where("id = ?", fileID).
		Update("status", string(status)).Error
}

// SaveScanVerdict grava o veredito de segurança serializado no arquivo
func (r *Repository) SaveScanVerdict(fileID string, verdict *model.ScanVerdict) error {
	raw, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("falha ao serializar veredito: %w", err)
	}
	return r.db.Model(&FileRecord{}).
		Where("id = ?", fileID).
		Update("scan_verdict_json", string(raw)).Error
}

// ListFilesByCase arquivos de um caso, mais recentes primeiro
func (r *Repository) ListFilesByCase(caseID string) ([]FileRecord, error) {
	var recs []FileRecord
	err := r.db.Where("case_id = ?", caseID).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

// ==========================================
// Detecções
// ==========================================

// ReplaceDetections troca as detecções de um arquivo de forma atômica
// Reprocessamento limpa as detecções antigas antes de gravar as novas;
// a transação evita que uma falha deixe o arquivo com metade do resultado
func (r *Repository) ReplaceDetections(fileID string, detections []model.Detection) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", fileID).Delete(&DetectionRecord{}).Error; err != nil {
			return fmt.Errorf("falha ao limpar detecções antigas: %w", err)
		}

		if len(detections) == 0 {
			return nil
		}

		recs := make([]DetectionRecord, 0, len(detections))
		for _, d := range detections {
			recs = append(recs, DetectionRecord{
				FileID:     fileID,
				Type:       d.Type,
				Value:      d.Value,
				Position:   d.Position,
				Context:    d.Context,
				RiskLevel:  string(d.RiskLevel),
				Method:     string(d.Method),
				Confidence: d.Confidence,
				Owner:      d.Owner,
			})
		}
		return tx.CreateInBatches(recs, 100).Error
	})
}

// DetectionsByFile detecções persistidas de um arquivo, por posição
func (r *Repository) DetectionsByFile(fileID string) ([]DetectionRecord, error) {
	var recs []DetectionRecord
	err := r.db.Where("file_id = ?", fileID).
		Order("position ASC").
		Find(&recs).Error
	return recs, err
}

// ==========================================
// Jobs de processamento
// ==========================================

// CreateJob enfileira um job para o arquivo
func (r *Repository) CreateJob(fileID string) (*ProcessingJob, error) {
	job := &ProcessingJob{
		ID:     uuid.NewString(),
		FileID: fileID,
		Status: string(model.JobQueued),
	}
	if err := r.db.Create(job).Error; err != nil {
		return nil, fmt.Errorf("falha ao enfileirar job: %w", err)
	}
	return job, nil
}

// StartJob marca o job como em processamento
func (r *Repository) StartJob(jobID string) error {
	now := time.Now()
	return r.db.Model(&ProcessingJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":     string(model.JobProcessing),
			"started_at": &now,
		}).Error
}

// UpdateJobProgress avança o percentual de progresso
func (r *Repository) UpdateJobProgress(jobID string, progress int) error {
	return r.db.Model(&ProcessingJob{}).
		Where("id = ?", jobID).
		Update("progress", progress).Error
}

// CompleteJob conclui o job com sucesso
func (r *Repository) CompleteJob(jobID string) error {
	now := time.Now()
	return r.db.Model(&ProcessingJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":      string(model.JobCompleted),
			"progress":    100,
			"finished_at": &now,
		}).Error
}

// FailJob marca o job como falho com o motivo capturado
func (r *Repository) FailJob(jobID, reason string) error {
	now := time.Now()
	return r.db.Model(&ProcessingJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":      string(model.JobFailed),
			"error":       reason,
			"finished_at": &now,
		}).Error
}

// GetJob busca um job pelo ID
func (r *Repository) GetJob(jobID string) (*ProcessingJob, error) {
	var job ProcessingJob
	if err := r.db.First(&job, "id = ?", jobID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// NextQueuedJobs jobs na fila, mais antigos primeiro
func (r *Repository) NextQueuedJobs(limit int) ([]ProcessingJob, error) {
	var jobs []ProcessingJob
	err := r.db.Where("status = ?", string(model.JobQueued)).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// CountJobsByStatus contagem de jobs por status
func (r *Repository) CountJobsByStatus() (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := r.db.Model(&ProcessingJob{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
