package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"charity-raffle/common"
	"charity-raffle/common/constant"
	"charity-raffle/common/errs"
	"charity-raffle/model"
	"charity-raffle/raffle"
)

// Gateway is the slice of the raffle backend the checkout flow needs.
type Gateway interface {
	CreateCharge(ctx context.Context, req model.CreateChargeRequest) (model.PixTransaction, error)
	ChargeStatus(ctx context.Context, transactionId string) (string, error)
}

type Step int

const (
	StepClosed Step = iota
	StepInfo
	StepPayment
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepInfo:
		return "info"
	case StepPayment:
		return "payment"
	case StepSuccess:
		return "success"
	default:
		return "closed"
	}
}

// Controller drives one checkout dialog: closed -> info -> payment ->
// success. It owns the polling loop as a cancellable handle so every exit
// path (settlement, cancel, teardown) stops the timer.
type Controller struct {
	Gateway      Gateway
	Selection    *raffle.Selection
	Validate     *validator.Validate
	PollInterval time.Duration

	// OnSettled fires once when a poll or manual check observes settlement.
	OnSettled func()

	mu         sync.Mutex
	step       Step
	buyer      model.Buyer
	tx         *model.PixTransaction
	cancelPoll context.CancelFunc

	// entry invalidates in-flight charge creations across Close.
	entry uint64
}

func NewController(gateway Gateway, selection *raffle.Selection, validate *validator.Validate) *Controller {
	return &Controller{
		Gateway:      gateway,
		Selection:    selection,
		Validate:     validate,
		PollInterval: constant.CheckoutPollInterval,
		step:         StepClosed,
	}
}

func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Controller) Transaction() (model.PixTransaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return model.PixTransaction{}, false
	}
	return *c.tx, true
}

// Open enters the info step. The dialog only exists for a non-empty
// selection; opening on an empty one is a conflict, not a crash.
func (c *Controller) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepClosed {
		return &errs.StateConflictError{Message: "checkout already open"}
	}
	if c.Selection.Count() == 0 {
		return &errs.StateConflictError{Message: "cannot open checkout with empty selection"}
	}

	c.step = StepInfo
	return nil
}

// SubmitBuyer validates the buyer, advances to the payment step and issues
// the charge creation exactly once for this entry. A failed creation leaves
// the flow on the payment step with no transaction; the caller surfaces the
// error and the user cancels or retries by reopening.
func (c *Controller) SubmitBuyer(ctx context.Context, buyer model.Buyer) error {
	c.mu.Lock()
	if c.step != StepInfo {
		c.mu.Unlock()
		return &errs.StateConflictError{Message: "buyer info is only accepted on the info step"}
	}

	req := model.CreateChargeRequest{
		FullName: buyer.FullName,
		Cpf:      common.OnlyDigits(buyer.Cpf),
		Phone:    common.OnlyDigits(buyer.Phone),
		Numbers:  c.Selection.Numbers(),
	}

	if err := c.Validate.Struct(req); err != nil {
		c.mu.Unlock()
		return err
	}

	c.buyer = buyer
	c.step = StepPayment
	entry := c.entry
	c.mu.Unlock()

	tx, err := c.Gateway.CreateCharge(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "charge creation failed", slog.Any(constant.LogFieldErr, err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepPayment || c.entry != entry {
		// Dialog was closed, and possibly reopened, while the request was in
		// flight; drop the charge. The entry check keeps a stale response from
		// overwriting a newer dialog entry that is already on payment.
		return nil
	}

	c.tx = &tx
	c.startPollingLocked(tx.TransactionId)

	return nil
}

// CheckNow runs the same status query as the poller, out of band. Returns
// whether the charge is settled.
func (c *Controller) CheckNow(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.step != StepPayment || c.tx == nil {
		c.mu.Unlock()
		return false, &errs.StateConflictError{Message: "no pending transaction to check"}
	}
	txId := c.tx.TransactionId
	c.mu.Unlock()

	status, err := c.Gateway.ChargeStatus(ctx, txId)
	if err != nil {
		return false, err
	}

	if status != constant.ChargeStatusSettled {
		return false, nil
	}

	c.settle()
	return true, nil
}

// Close tears the dialog down from any step. The next Open starts back at
// info. The selection is intentionally left alone, including after success:
// the user keeps seeing the numbers they bought.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopPollingLocked()
	c.step = StepClosed
	c.tx = nil
	c.entry++
}

func (c *Controller) startPollingLocked(transactionId string) {
	c.stopPollingLocked()

	pollCtx, cancel := context.WithCancel(context.Background())
	c.cancelPoll = cancel

	go c.pollLoop(pollCtx, transactionId)
}

func (c *Controller) stopPollingLocked() {
	if c.cancelPoll != nil {
		c.cancelPoll()
		c.cancelPoll = nil
	}
}

func (c *Controller) pollLoop(ctx context.Context, transactionId string) {
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status, err := c.Gateway.ChargeStatus(ctx, transactionId)
			if err != nil {
				// Transient: keep polling, the next tick retries.
				slog.WarnContext(ctx, "charge status poll failed",
					slog.String("transaction_id", transactionId),
					slog.Any(constant.LogFieldErr, err))
				continue
			}

			if status == constant.ChargeStatusSettled {
				c.settle()
				return
			}
		}
	}
}

// settle transitions payment -> success at most once and kills the poller
// so no status check fires after settlement.
func (c *Controller) settle() {
	c.mu.Lock()
	if c.step != StepPayment {
		c.mu.Unlock()
		return
	}

	c.step = StepSuccess
	c.stopPollingLocked()
	onSettled := c.OnSettled
	c.mu.Unlock()

	if onSettled != nil {
		onSettled()
	}
}
