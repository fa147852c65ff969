package models

// CardRecord is the single security card held by the service. Balance is in
// minor currency units; Secret is the rotating 3-digit verification code.
type CardRecord struct {
	Number  string `json:"card_number"`
	Secret  string `json:"cvv"`
	Expiry  string `json:"expiry_date"`
	Balance int64  `json:"balance"`
	Active  bool   `json:"is_active"`
}

// TransactionRequest is the inbound purchase request. CardNumber is accepted
// but not validated against the stored card.
type TransactionRequest struct {
	Secret       string   `json:"cvv"`
	CardNumber   string   `json:"cardNumber"`
	Expiry       string   `json:"expiry"`
	ProductName  string   `json:"productName,omitempty"`
	ProductPrice *float64 `json:"productPrice,omitempty"`
}

type TransactionResult struct {
	Amount            int64  `json:"transaction_amount"`
	OldSecret         string `json:"old_cvv"`
	NewSecret         string `json:"new_cvv"`
	NewCardBalance    int64  `json:"new_balance"`
	NewAccountBalance int64  `json:"new_main_balance"`
}
