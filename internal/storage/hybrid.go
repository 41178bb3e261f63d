package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/resper1965/DataFogScanner/internal/logger"
)

// HybridStore fila híbrida memória/disco
// Itens ficam em memória até o limite; o excedente transborda para uma
// tabela de spillover no SQLite e sobrevive a reinícios do daemon
type HybridStore[T any] struct {
	db        *gorm.DB
	tableName string // tabela de spillover (e.g., "queue_pending_files")

	memStore []T
	memLimit int
	mu       sync.RWMutex
}

// NewHybridStore inicializa a fila e garante a tabela de spillover
func NewHybridStore[T any](db *gorm.DB, limit int, tableName string) (*HybridStore[T], error) {
	if !db.Migrator().HasTable(tableName) {
		if err := db.Table(tableName).AutoMigrate(&DiskRecord{}); err != nil {
			logger.Error("Falha ao criar tabela de spillover", "table", tableName, "error", err)
			return nil, err
		}
		logger.Info("Tabela de spillover criada", "table", tableName)
	} else {
		logger.Debug("Tabela de spillover já existe", "table", tableName)
	}

	return &HybridStore[T]{
		db:        db,
		tableName: tableName,
		memStore:  make([]T, 0, limit),
		memLimit:  limit,
	}, nil
}

// Push enfileira um item
func (s *HybridStore[T]) Push(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.memStore) < s.memLimit {
		s.memStore = append(s.memStore, item)
		return nil
	}

	// Memória cheia: transborda para o disco
	return s.persistToDisk([]T{item})
}

// PopAll drena a fila inteira, memória e disco
func (s *HybridStore[T]) PopAll() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []T

	if len(s.memStore) > 0 {
		result = append(result, s.memStore...)
		s.memStore = make([]T, 0, s.memLimit)
	}

	var diskRecords []DiskRecord
	if err := s.db.Table(s.tableName).Order("id ASC").Find(&diskRecords).Error; err != nil {
		return nil, fmt.Errorf("falha ao ler spillover: %v", err)
	}

	if len(diskRecords) > 0 {
		for _, rec := range diskRecords {
			var item T
			if err := json.Unmarshal(rec.Data, &item); err != nil {
				// Registro ilegível não pode travar o consumo da fila
				logger.Error("Registro de spillover ilegível ignorado", "id", rec.ID, "error", err)
				continue
			}
			result = append(result, item)
		}

		if err := s.db.Table(s.tableName).Unscoped().Where("1 = 1").Delete(&DiskRecord{}).Error; err != nil {
			return nil, fmt.Errorf("falha ao limpar spillover: %v", err)
		}
	}

	return result, nil
}

// Len itens em memória mais itens no disco
func (s *HybridStore[T]) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var diskCount int64
	if err := s.db.Table(s.tableName).Count(&diskCount).Error; err != nil {
		return 0, err
	}
	return len(s.memStore) + int(diskCount), nil
}

// FlushMemoryToDisk despeja a memória no disco, usado no desligamento
func (s *HybridStore[T]) FlushMemoryToDisk() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.memStore) == 0 {
		return nil
	}

	if err := s.persistToDisk(s.memStore); err != nil {
		return err
	}

	flushedCount := len(s.memStore)
	s.memStore = make([]T, 0, s.memLimit)
	logger.Info("Fila despejada para o disco", "count", flushedCount, "table", s.tableName)
	return nil
}

// persistToDisk serializa e grava um lote na tabela de spillover
func (s *HybridStore[T]) persistToDisk(items []T) error {
	diskRecords := make([]DiskRecord, 0, len(items))

	for _, item := range items {
		jsonBytes, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("falha ao serializar item: %v", err)
		}
		diskRecords = append(diskRecords, DiskRecord{Data: jsonBytes})
	}

	if !s.db.Migrator().HasTable(s.tableName) {
		if err := s.db.Table(s.tableName).AutoMigrate(&DiskRecord{}); err != nil {
			return fmt.Errorf("falha ao criar tabela de spillover: %v", err)
		}
	}

	// Lote sem transação explícita: o SQLite já serializa as escritas
	return s.db.Table(s.tableName).CreateInBatches(diskRecords, 100).Error
}
