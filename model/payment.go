package model

type CreateChargeRequest struct {
	FullName string  `json:"fullName" validate:"required,max=100"`
	Cpf      string  `json:"cpf" validate:"required,cpf"`
	Phone    string  `json:"phone" validate:"required,min=8,max=20"`
	Numbers  []int32 `json:"numbers" validate:"required,min=1,dive,min=1,max=5000"`
}

type CreateChargeResponse struct {
	QrCode        string `json:"qr_code"`
	PixCopyPaste  string `json:"pix_copy_paste"`
	TransactionId string `json:"transaction_id"`
}

type ChargeStatusResponse struct {
	Status string `json:"status"`
}

// PixTransaction is the storefront-side view of a created charge. Immutable
// once created for a given checkout attempt.
type PixTransaction struct {
	TransactionId string
	QrCodeImage   string
	CopyPasteCode string
	AmountCents   int64
}

type Buyer struct {
	FullName string
	Cpf      string
	Phone    string
}

type PaymentSettledEventMessage struct {
	TransactionId string `json:"transaction_id"`
}
