package domain

// Purchase outcomes, used as metric labels
const (
	OutcomeCheckout         = "checkout"
	OutcomePurchased        = "purchased"
	OutcomeAlreadyProcessed = "already_processed"
	OutcomeAlreadyOwned     = "already_owned"
	OutcomeFailed           = "failed"
	OutcomeMismatch         = "mismatch"
	OutcomeInProgress       = "in_progress"
	OutcomeGatewayError     = "gateway_error"
	OutcomeRegranted        = "regranted"
)

// StatusPurchased is the only successful verification status
const StatusPurchased = "Purchased"
