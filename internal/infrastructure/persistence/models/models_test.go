package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialLotModel_RoundTripKeepsVersionAndQuality(t *testing.T) {
	received := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	passed := true
	temp := decimal.RequireFromString("3.5")
	lot := &material.MaterialLot{
		LotNumber:            "L-001",
		MaterialID:           uuid.New(),
		SupplierID:           uuid.New(),
		ReceivedDate:         received,
		QuantityReceived:     decimal.NewFromInt(100),
		QuantityCurrent:      decimal.NewFromInt(40),
		UnitPrice:            decimal.NewFromInt(2000),
		Status:               material.LotStatusInUse,
		QualityTestPassed:    &passed,
		TemperatureAtReceipt: &temp,
	}
	lot.ID = uuid.New()
	lot.Version = 4

	back := MaterialLotModelFromDomain(lot).ToDomain()

	assert.Equal(t, lot.ID, back.ID)
	assert.Equal(t, 4, back.Version)
	assert.Equal(t, material.LotStatusInUse, back.Status)
	require.NotNil(t, back.QualityTestPassed)
	assert.True(t, *back.QualityTestPassed)
	assert.Nil(t, back.ExpiryDate)
	assert.True(t, back.QuantityCurrent.Equal(decimal.NewFromInt(40)))
}

func TestCCPModel_MapsLimits(t *testing.T) {
	minLimit := decimal.NewFromInt(75)
	ccp := &haccp.CCP{
		Code:   "CCP-1",
		Type:   haccp.CCPTypeTemperature,
		Limits: haccp.CriticalLimits{Min: &minLimit},
	}

	m := CCPModelFromDomain(ccp)
	assert.Equal(t, "temperature", m.CCPType)
	assert.Nil(t, m.CriticalLimitMax)

	back := m.ToDomain()
	require.NotNil(t, back.Limits.Min)
	assert.True(t, back.Limits.Min.Equal(minLimit))
}
