package storage

import (
	"sync"

	"gorm.io/gorm"

	"github.com/resper1965/DataFogScanner/internal/model"
)

var (
	stores     *Stores
	storesOnce sync.Once
)

// Stores filas híbridas do pipeline
// Cada tipo de item tem a sua tabela de spillover; as instâncias são
// seguras para acesso concorrente
type Stores struct {
	// PendingFiles arquivos aceitos aguardando processamento
	PendingFiles *HybridStore[model.PendingFile]

	// Detections lotes de detecções cuja gravação direta falhou,
	// retidos para reprocessamento pelo worker
	Detections *HybridStore[model.DetectionBatch]
}

// StoresOptions limites de memória por fila
// Arquivos pendentes chegam em rajadas (expansão de zip), detecções em
// lotes por arquivo; os limites podem ser ajustados de forma independente
type StoresOptions struct {
	PendingMemoryLimit    int
	DetectionsMemoryLimit int
}

// SetupStores inicializa as filas uma única vez
// O banco precisa estar inicializado antes
func SetupStores(db *gorm.DB, opts StoresOptions) error {
	var err error

	storesOnce.Do(func() {
		pending, pendingErr := NewHybridStore[model.PendingFile](
			db,
			opts.PendingMemoryLimit,
			"queue_pending_files",
		)
		if pendingErr != nil {
			err = pendingErr
			return
		}

		detections, detErr := NewHybridStore[model.DetectionBatch](
			db,
			opts.DetectionsMemoryLimit,
			"queue_detections",
		)
		if detErr != nil {
			err = detErr
			return
		}

		stores = &Stores{
			PendingFiles: pending,
			Detections:   detections,
		}
	})

	return err
}

// GetStores acesso às filas, válido após SetupStores
func GetStores() *Stores {
	return stores
}

// FlushAll despeja todas as filas para o disco, usado no desligamento
func (s *Stores) FlushAll() error {
	if err := s.PendingFiles.FlushMemoryToDisk(); err != nil {
		return err
	}
	return s.Detections.FlushMemoryToDisk()
}
