package inventory

import (
	"context"

	"github.com/haccp/backend/internal/domain/material"
)

// TransactionScope provides transactional access to lot ledger repositories.
// All repository operations inside Execute share one database transaction and
// are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories within a transaction.
//
// Aggregate boundary notes:
//   - LotRepo: repository for the MaterialLot aggregate root. Lot quantity and status
//     only change through this repository, loaded with FindByIDForUpdate or
//     FindByMaterialForUpdate and written back with SaveWithLock.
//   - ConsumptionRepo: append-only consumption records used for traceability.
type TransactionalRepositories interface {
	// LotRepo returns the material lot repository scoped to the current transaction
	LotRepo() material.MaterialLotRepository
	// ConsumptionRepo returns the consumption record repository scoped to the current transaction
	ConsumptionRepo() material.LotConsumptionRepository
}

// NoOpTransactionScope runs the function against plain repositories without a transaction.
// It is used in tests and when transactions are not available.
type NoOpTransactionScope struct {
	lotRepo         material.MaterialLotRepository
	consumptionRepo material.LotConsumptionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	lotRepo material.MaterialLotRepository,
	consumptionRepo material.LotConsumptionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		lotRepo:         lotRepo,
		consumptionRepo: consumptionRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LotRepo returns the material lot repository.
func (s *NoOpTransactionScope) LotRepo() material.MaterialLotRepository {
	return s.lotRepo
}

// ConsumptionRepo returns the consumption record repository.
func (s *NoOpTransactionScope) ConsumptionRepo() material.LotConsumptionRepository {
	return s.consumptionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
