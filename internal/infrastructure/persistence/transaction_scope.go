package persistence

import (
	"context"
	"database/sql"

	"github.com/haccp/backend/internal/application/costing"
	"github.com/haccp/backend/internal/application/inventory"
	"github.com/haccp/backend/internal/domain/material"
	"gorm.io/gorm"
)

// GormTransactionScope runs lot ledger work inside one GORM transaction
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction; any error rolls it back
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos inventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
}

type txRepositories struct {
	tx *gorm.DB
}

func (r *txRepositories) LotRepo() material.MaterialLotRepository {
	return NewGormMaterialLotRepository(r.tx)
}

func (r *txRepositories) ConsumptionRepo() material.LotConsumptionRepository {
	return NewGormLotConsumptionRepository(r.tx)
}

// GormSnapshotScope serves cost reports from a single read-only transaction,
// so every lot a report looks at comes from the same snapshot.
type GormSnapshotScope struct {
	db        *gorm.DB
	isolation sql.IsolationLevel
}

// NewGormSnapshotScope creates a snapshot scope using repeatable-read isolation
func NewGormSnapshotScope(db *gorm.DB) *GormSnapshotScope {
	return &GormSnapshotScope{db: db, isolation: sql.LevelRepeatableRead}
}

// ReadOnly runs fn against a lot repository bound to a read-only transaction
func (s *GormSnapshotScope) ReadOnly(ctx context.Context, fn func(lots material.MaterialLotRepository) error) error {
	opts := &sql.TxOptions{ReadOnly: true, Isolation: s.isolation}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormMaterialLotRepository(tx))
	}, opts)
}

var (
	_ inventory.TransactionScope = (*GormTransactionScope)(nil)
	_ costing.LotSnapshotScope   = (*GormSnapshotScope)(nil)
)
