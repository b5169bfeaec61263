package constants

// --- СТАТУСЫ АКТИВОВ ---
const (
	AssetStatusActive   = "active"
	AssetStatusInRepair = "in-repair"
	AssetStatusReserved = "reserved"
	AssetStatusDisposed = "disposed"
)

var AssetStatuses = []string{AssetStatusActive, AssetStatusInRepair, AssetStatusReserved, AssetStatusDisposed}

// --- СТАТУСЫ ОПЕРАЦИЙ И ЗАДАЧ ---
const (
	WorkStatusPending    = "pending"
	WorkStatusInProgress = "in-progress"
	WorkStatusCompleted  = "completed"
	WorkStatusCancelled  = "cancelled"
)

var WorkStatuses = []string{WorkStatusPending, WorkStatusInProgress, WorkStatusCompleted, WorkStatusCancelled}

var workTransitions = map[string][]string{
	WorkStatusPending:    {WorkStatusInProgress, WorkStatusCancelled},
	WorkStatusInProgress: {WorkStatusCompleted, WorkStatusCancelled},
}

// CanTransitionWork: pending → in-progress → completed, отмена из любого незавершённого.
func CanTransitionWork(from, to string) bool {
	return contains(workTransitions[from], to)
}

func IsFinalWorkStatus(code string) bool {
	return code == WorkStatusCompleted || code == WorkStatusCancelled
}

// --- СТАТУСЫ ЗАКУПОК ---
const (
	PurchaseStatusRequested = "requested"
	PurchaseStatusApproved  = "approved"
	PurchaseStatusOrdered   = "ordered"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

var PurchaseStatuses = []string{PurchaseStatusRequested, PurchaseStatusApproved, PurchaseStatusOrdered, PurchaseStatusReceived, PurchaseStatusCancelled}

var purchaseTransitions = map[string][]string{
	PurchaseStatusRequested: {PurchaseStatusApproved, PurchaseStatusCancelled},
	PurchaseStatusApproved:  {PurchaseStatusOrdered, PurchaseStatusCancelled},
	PurchaseStatusOrdered:   {PurchaseStatusReceived, PurchaseStatusCancelled},
}

func CanTransitionPurchase(from, to string) bool {
	return contains(purchaseTransitions[from], to)
}

// --- СОТРУДНИКИ ---
const (
	StaffStatusActive   = "active"
	StaffStatusInactive = "inactive"
)

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
