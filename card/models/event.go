package models

const (
	EventSecretUpdate        = "secret_update"
	EventTransactionComplete = "transaction_complete"
)

// Event is the payload pushed to observer connections. MainBalance is only
// carried on transaction_complete events.
type Event struct {
	Type        string `json:"type"`
	NewSecret   string `json:"newSecret"`
	Balance     int64  `json:"balance"`
	MainBalance *int64 `json:"mainBalance,omitempty"`
	Timestamp   string `json:"timestamp"`
}
