package constant

import "time"

const (
	// TotalNumbers is the size of the ticket universe, numbered 1..TotalNumbers.
	TotalNumbers = 5000

	// TicketPriceCents is the unit price of a single number (R$ 5,00).
	TicketPriceCents int64 = 500

	// DefaultPageSize matches the storefront grid of 50 numbers per page.
	DefaultPageSize = 50
)

const (
	// ChargeStatusSettled is the PSP cob status that confirms payment.
	ChargeStatusSettled = "CONCLUIDA"
	// ChargeStatusOpen is the PSP cob status while the charge awaits payment.
	ChargeStatusOpen = "EM_ABERTO"
)

const (
	// CheckoutPollInterval is how often an open checkout re-checks the charge.
	CheckoutPollInterval = 5 * time.Second
)
