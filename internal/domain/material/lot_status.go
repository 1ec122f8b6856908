package material

// LotStatus is the lifecycle state of a material lot
type LotStatus string

const (
	LotStatusReceived  LotStatus = "received"
	LotStatusInStorage LotStatus = "in_storage"
	LotStatusInUse     LotStatus = "in_use"
	LotStatusUsed      LotStatus = "used"
	LotStatusExpired   LotStatus = "expired"
	LotStatusRejected  LotStatus = "rejected"
)

// IsValid returns true if the status is one of the known lot states
func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusReceived, LotStatusInStorage, LotStatusInUse,
		LotStatusUsed, LotStatusExpired, LotStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for states a lot never leaves
func (s LotStatus) IsTerminal() bool {
	return s == LotStatusUsed || s == LotStatusExpired || s == LotStatusRejected
}

// IsRetirement returns true for the administrative terminal states
func (s LotStatus) IsRetirement() bool {
	return s == LotStatusExpired || s == LotStatusRejected
}

// String returns the string representation
func (s LotStatus) String() string {
	return string(s)
}

// ActiveLotStatuses are the states in which a lot can still be priced or consumed
func ActiveLotStatuses() []LotStatus {
	return []LotStatus{LotStatusReceived, LotStatusInStorage, LotStatusInUse}
}
