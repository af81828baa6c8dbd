package domain

// Wallet is the read model returned by the remote wallet service.
type Wallet struct {
	WalletID       int64   `json:"walletId"`
	UserID         int64   `json:"userId"`
	CurrentBalance float64 `json:"currentBalance"`
}
