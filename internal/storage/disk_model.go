package storage

// DiskRecord linha física das tabelas de spillover
// Qualquer item da fila vira um blob JSON no disco
type DiskRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Data      []byte `gorm:"type:blob"` // JSON do item enfileirado
	CreatedAt int64  `gorm:"autoCreateTime"`
}
