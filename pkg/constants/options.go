package constants

const (
	OperationTypeLoading   = "loading"
	OperationTypeUnloading = "unloading"
)

var OperationTypes = []string{OperationTypeLoading, OperationTypeUnloading}

var Units = []string{"pcs", "kg", "t", "m3", "pallet"}

var Currencies = []string{"TJS", "USD", "EUR", "RUB", "UZS", "KZT", "CNY"}

var TaskPriorities = []string{"low", "medium", "high", "urgent"}

var Departments = []string{"warehouse", "it", "finance", "procurement", "maintenance", "administration"}
