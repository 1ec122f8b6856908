package material

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaterialLot is a traceable batch of a raw material received from a supplier.
// It is the only place where the current quantity and lifecycle status change.
type MaterialLot struct {
	shared.BaseAggregateRoot
	LotNumber            string
	MaterialID           uuid.UUID
	SupplierID           uuid.UUID
	ReceivedDate         time.Time
	ExpiryDate           *time.Time // nil means unlimited shelf life
	QuantityReceived     decimal.Decimal
	QuantityCurrent      decimal.Decimal
	UnitPrice            decimal.Decimal
	Status               LotStatus
	QualityTestPassed    *bool // nil until tested
	QualityTestDate      *time.Time
	QualityTestNotes     string
	StorageLocation      string
	TemperatureAtReceipt *decimal.Decimal
	RetireReason         string
	CreatedBy            *uuid.UUID
}

// LotReceipt carries the goods-receipt data for a new lot
type LotReceipt struct {
	SupplierID           uuid.UUID
	LotNumber            string
	QuantityReceived     decimal.Decimal
	UnitPrice            decimal.Decimal
	ReceivedDate         time.Time
	ExpiryDate           *time.Time
	StorageLocation      string
	TemperatureAtReceipt *decimal.Decimal
	CreatedBy            *uuid.UUID
}

// NewMaterialLot creates a lot at goods receipt. When no expiry is given and
// the material has a shelf life, the expiry defaults to receipt + shelf life.
func NewMaterialLot(m *RawMaterial, r LotReceipt) (*MaterialLot, error) {
	if m == nil {
		return nil, shared.InvalidInput("raw material is required")
	}
	lotNumber := strings.TrimSpace(r.LotNumber)
	if lotNumber == "" {
		return nil, shared.InvalidInput("lot number is required")
	}
	if len(lotNumber) > 100 {
		return nil, shared.InvalidInput("lot number cannot exceed 100 characters")
	}
	if r.SupplierID == uuid.Nil {
		return nil, shared.InvalidInput("supplier is required")
	}
	if err := shared.CheckQuantity("received quantity", r.QuantityReceived); err != nil {
		return nil, err
	}
	if err := shared.CheckPrice("unit price", r.UnitPrice); err != nil {
		return nil, err
	}
	if r.ReceivedDate.IsZero() {
		return nil, shared.InvalidInput("received date is required")
	}

	expiry := r.ExpiryDate
	if expiry == nil {
		expiry = m.DefaultExpiry(r.ReceivedDate)
	} else {
		d := DateOf(*expiry)
		expiry = &d
	}
	if expiry != nil && expiry.Before(DateOf(r.ReceivedDate)) {
		return nil, shared.InvalidInput("expiry date cannot be before the received date")
	}

	lot := &MaterialLot{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		LotNumber:            lotNumber,
		MaterialID:           m.ID,
		SupplierID:           r.SupplierID,
		ReceivedDate:         r.ReceivedDate,
		ExpiryDate:           expiry,
		QuantityReceived:     r.QuantityReceived,
		QuantityCurrent:      r.QuantityReceived,
		UnitPrice:            r.UnitPrice,
		Status:               LotStatusReceived,
		StorageLocation:      strings.TrimSpace(r.StorageLocation),
		TemperatureAtReceipt: r.TemperatureAtReceipt,
		CreatedBy:            r.CreatedBy,
	}

	lot.AddDomainEvent(NewLotReceivedEvent(lot))
	return lot, nil
}

// RecordQualityTest stores the quality verdict. The verdict is one-way:
// a lot that already has a verdict cannot be re-tested.
func (l *MaterialLot) RecordQualityTest(passed bool, notes string, at time.Time) error {
	if l.Status.IsTerminal() {
		return shared.InvalidState("cannot record a quality test on a lot in status %s", l.Status)
	}
	if l.QualityTestPassed != nil {
		return shared.InvalidState("quality test for lot %s is already recorded", l.LotNumber)
	}

	l.QualityTestPassed = &passed
	l.QualityTestDate = &at
	l.QualityTestNotes = strings.TrimSpace(notes)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLotQualityTestedEvent(l))
	return nil
}

// MoveToStorage moves a freshly received lot into storage
func (l *MaterialLot) MoveToStorage(location string) error {
	if l.Status != LotStatusReceived {
		return shared.InvalidState("only received lots can be moved to storage, lot is %s", l.Status)
	}
	l.Status = LotStatusInStorage
	if loc := strings.TrimSpace(location); loc != "" {
		l.StorageLocation = loc
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLotStoredEvent(l))
	return nil
}

// Consume decrements the current quantity. A lot that reaches zero becomes used,
// otherwise it is in use.
func (l *MaterialLot) Consume(quantity decimal.Decimal) error {
	if err := shared.CheckQuantity("consume quantity", quantity); err != nil {
		return err
	}
	if l.Status.IsTerminal() {
		return shared.InvalidState("cannot consume lot %s in status %s", l.LotNumber, l.Status)
	}
	if quantity.GreaterThan(l.QuantityCurrent) {
		return shared.NewDomainError(shared.CodeInsufficientStock,
			"consume quantity "+quantity.String()+" exceeds current quantity "+l.QuantityCurrent.String())
	}

	l.QuantityCurrent = l.QuantityCurrent.Sub(quantity)
	if l.QuantityCurrent.IsZero() {
		l.Status = LotStatusUsed
	} else {
		l.Status = LotStatusInUse
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLotConsumedEvent(l, quantity))
	return nil
}

// Retire moves the lot to expired or rejected. Retirement is irreversible.
func (l *MaterialLot) Retire(status LotStatus, reason string) error {
	if !status.IsRetirement() {
		return shared.InvalidInput("lot can only be retired as expired or rejected, got %q", status)
	}
	if l.Status.IsTerminal() {
		return shared.InvalidState("lot %s is already %s", l.LotNumber, l.Status)
	}

	l.Status = status
	l.RetireReason = strings.TrimSpace(reason)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLotRetiredEvent(l))
	return nil
}

// EnsureDeletable returns a CONFLICT error once any quantity was consumed
func (l *MaterialLot) EnsureDeletable() error {
	if !l.QuantityCurrent.Equal(l.QuantityReceived) {
		return shared.Conflict("lot %s has consumption history and cannot be deleted", l.LotNumber)
	}
	return nil
}

// IsQualityPassed returns true only for a recorded passing verdict
func (l *MaterialLot) IsQualityPassed() bool {
	return l.QualityTestPassed != nil && *l.QualityTestPassed
}

// IsExpiredOn returns true if the expiry date lies before the given day
func (l *MaterialLot) IsExpiredOn(now time.Time) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return DateOf(*l.ExpiryDate).Before(DateOf(now))
}

// IsAvailable reports whether the lot may be priced or consumed on the given day
func (l *MaterialLot) IsAvailable(now time.Time) bool {
	if !l.IsQualityPassed() {
		return false
	}
	if l.Status.IsTerminal() {
		return false
	}
	if !l.QuantityCurrent.IsPositive() {
		return false
	}
	return !l.IsExpiredOn(now)
}

// DaysUntilExpiry returns whole days until expiry, or -1 when the lot never expires
func (l *MaterialLot) DaysUntilExpiry(now time.Time) int {
	if l.ExpiryDate == nil {
		return -1
	}
	return int(DateOf(*l.ExpiryDate).Sub(DateOf(now)).Hours() / 24)
}

// ConsumedQuantity returns how much of the lot has been used
func (l *MaterialLot) ConsumedQuantity() decimal.Decimal {
	return l.QuantityReceived.Sub(l.QuantityCurrent)
}

// UsageRate returns the consumed share of the received quantity in percent
func (l *MaterialLot) UsageRate() decimal.Decimal {
	if !l.QuantityReceived.IsPositive() {
		return decimal.Zero
	}
	return l.ConsumedQuantity().Div(l.QuantityReceived).Mul(decimal.NewFromInt(100))
}

// GetCurrentValue returns the value of the remaining quantity
func (l *MaterialLot) GetCurrentValue() decimal.Decimal {
	return l.QuantityCurrent.Mul(l.UnitPrice)
}

// DateOf truncates t to midnight UTC of its calendar day
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
