package constant

const (
	QueueStreamName = "charity_raffle_queue_stream"
)

const (
	AllWildcard     = "events.>"
	PaymentWildcard = "events.payment.>"

	SubjectPaymentSettled = "events.payment.settled"
)
