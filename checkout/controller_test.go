package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"

	"charity-raffle/common"
	"charity-raffle/common/constant"
	"charity-raffle/common/errs"
	"charity-raffle/model"
	"charity-raffle/raffle"
)

type stubGateway struct {
	mu sync.Mutex

	createErr   error
	lastRequest model.CreateChargeRequest

	statuses    []string
	statusErr   error
	statusCalls int
}

func (g *stubGateway) CreateCharge(_ context.Context, req model.CreateChargeRequest) (model.PixTransaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lastRequest = req
	if g.createErr != nil {
		return model.PixTransaction{}, g.createErr
	}

	return model.PixTransaction{
		TransactionId: "tx-123",
		QrCodeImage:   "data:image/png;base64,xxx",
		CopyPasteCode: "00020126pix",
		AmountCents:   int64(len(req.Numbers)) * constant.TicketPriceCents,
	}, nil
}

func (g *stubGateway) ChargeStatus(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.statusCalls++
	if g.statusErr != nil {
		return "", g.statusErr
	}

	if g.statusCalls <= len(g.statuses) {
		return g.statuses[g.statusCalls-1], nil
	}
	return constant.ChargeStatusOpen, nil
}

func (g *stubGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusCalls
}

func (g *stubGateway) request() model.CreateChargeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastRequest
}

// gatedGateway blocks every CreateCharge until the test answers it, so
// responses can land out of order across dialog entries. Status calls are
// counted per transaction.
type gatedGateway struct {
	mu          sync.Mutex
	creates     chan chan model.PixTransaction
	statusCalls map[string]int
}

func newGatedGateway() *gatedGateway {
	return &gatedGateway{
		creates:     make(chan chan model.PixTransaction),
		statusCalls: map[string]int{},
	}
}

func (g *gatedGateway) CreateCharge(_ context.Context, _ model.CreateChargeRequest) (model.PixTransaction, error) {
	reply := make(chan model.PixTransaction)
	g.creates <- reply
	return <-reply, nil
}

func (g *gatedGateway) ChargeStatus(_ context.Context, transactionId string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls[transactionId]++
	return constant.ChargeStatusOpen, nil
}

func (g *gatedGateway) calls(transactionId string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusCalls[transactionId]
}

type ControllerTestSuite struct {
	suite.Suite

	gateway   *stubGateway
	selection *raffle.Selection
	validate  *validator.Validate
}

func (s *ControllerTestSuite) SetupTest() {
	s.gateway = &stubGateway{}
	s.selection = raffle.NewSelection(raffle.NewPool(nil))
	s.validate = validator.New()
	s.Require().NoError(common.RegisterCpfValidation(s.validate))
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (s *ControllerTestSuite) newController() *Controller {
	c := NewController(s.gateway, s.selection, s.validate)
	c.PollInterval = 10 * time.Millisecond
	return c
}

func (s *ControllerTestSuite) buyer() model.Buyer {
	return model.Buyer{
		FullName: "Ana Souza",
		Cpf:      "529.982.247-25",
		Phone:    "(11) 99999-0000",
	}
}

func (s *ControllerTestSuite) TestOpenGuards() {
	c := s.newController()

	err := c.Open()
	s.IsType(&errs.StateConflictError{}, err, "empty selection cannot check out")

	s.selection.Toggle(12)
	s.NoError(c.Open())
	s.Equal(StepInfo, c.Step())

	err = c.Open()
	s.IsType(&errs.StateConflictError{}, err, "dialog is already open")
}

func (s *ControllerTestSuite) TestSubmitBuyerValidation() {
	s.selection.Toggle(12)
	s.selection.Toggle(47)

	c := s.newController()
	s.NoError(c.Open())

	badBuyer := s.buyer()
	badBuyer.Cpf = "111.111.111-11"

	err := c.SubmitBuyer(context.Background(), badBuyer)
	s.Error(err)
	s.IsType(validator.ValidationErrors{}, err)
	s.Equal(StepInfo, c.Step(), "rejected buyer stays on the info step")

	s.NoError(c.SubmitBuyer(context.Background(), s.buyer()))
	s.Equal(StepPayment, c.Step())

	tx, ok := c.Transaction()
	s.True(ok)
	s.Equal("tx-123", tx.TransactionId)
	s.Equal(int64(1000), tx.AmountCents)

	// The charge request carries digits-only documents and the selection.
	req := s.gateway.request()
	s.Equal("52998224725", req.Cpf)
	s.Equal("11999990000", req.Phone)
	s.Equal([]int32{12, 47}, req.Numbers)

	c.Close()
}

func (s *ControllerTestSuite) TestChargeCreationFailure() {
	s.selection.Toggle(12)
	s.gateway.createErr = &errs.NetworkError{Op: "POST /payment", Err: context.DeadlineExceeded}

	c := s.newController()
	s.NoError(c.Open())

	err := c.SubmitBuyer(context.Background(), s.buyer())
	s.Error(err)
	s.True(errs.IsNetwork(err))

	// The flow stays on payment with no transaction; the user cancels or
	// reopens.
	s.Equal(StepPayment, c.Step())
	_, ok := c.Transaction()
	s.False(ok)

	c.Close()
}

func (s *ControllerTestSuite) TestPollingSettles() {
	s.selection.Toggle(12)
	s.selection.Toggle(47)
	s.selection.Toggle(301)

	s.gateway.statuses = []string{
		constant.ChargeStatusOpen,
		constant.ChargeStatusOpen,
		constant.ChargeStatusOpen,
		constant.ChargeStatusSettled,
	}

	c := s.newController()

	settled := make(chan struct{}, 1)
	c.OnSettled = func() {
		settled <- struct{}{}
	}

	s.NoError(c.Open())
	s.NoError(c.SubmitBuyer(context.Background(), s.buyer()))

	select {
	case <-settled:
	case <-time.After(2 * time.Second):
		s.FailNow("settlement never observed")
	}

	s.Equal(StepSuccess, c.Step())
	s.Equal(4, s.gateway.calls())

	// Poller is dead after settlement.
	time.Sleep(50 * time.Millisecond)
	s.Equal(4, s.gateway.calls())

	// The selection survives the whole flow, success included.
	s.Equal([]int32{12, 47, 301}, s.selection.Numbers())
	s.Equal(int64(1500), s.selection.TotalCents())

	c.Close()
}

func (s *ControllerTestSuite) TestStaleChargeResponseDropped() {
	s.selection.Toggle(12)

	gateway := newGatedGateway()
	c := NewController(gateway, s.selection, s.validate)
	c.PollInterval = 10 * time.Millisecond

	charge := func(transactionId string) model.PixTransaction {
		return model.PixTransaction{
			TransactionId: transactionId,
			CopyPasteCode: "00020126pix",
			AmountCents:   constant.TicketPriceCents,
		}
	}

	// First entry: the charge creation hangs at the gateway.
	s.NoError(c.Open())
	firstDone := make(chan error, 1)
	go func() { firstDone <- c.SubmitBuyer(context.Background(), s.buyer()) }()
	firstReply := <-gateway.creates

	// The user gives up, closes, reopens and submits again before the first
	// response arrives.
	c.Close()
	s.NoError(c.Open())
	secondDone := make(chan error, 1)
	go func() { secondDone <- c.SubmitBuyer(context.Background(), s.buyer()) }()
	secondReply := <-gateway.creates

	secondReply <- charge("tx-2")
	s.NoError(<-secondDone)

	tx, ok := c.Transaction()
	s.Require().True(ok)
	s.Equal("tx-2", tx.TransactionId)

	// The delayed first response lands while the second entry is on payment.
	firstReply <- charge("tx-1")
	s.NoError(<-firstDone)

	tx, ok = c.Transaction()
	s.Require().True(ok)
	s.Equal("tx-2", tx.TransactionId, "stale charge must not overwrite the live entry")
	s.Equal(StepPayment, c.Step())

	c.Close()

	// Let any in-flight tick drain, then make sure no poller survived.
	time.Sleep(20 * time.Millisecond)
	callsAtClose := gateway.calls("tx-2")

	time.Sleep(50 * time.Millisecond)
	s.Equal(callsAtClose, gateway.calls("tx-2"), "live poller must stop on close")
	s.Zero(gateway.calls("tx-1"), "no poller may ever start for the stale charge")
}

func (s *ControllerTestSuite) TestCheckNow() {
	s.selection.Toggle(12)

	c := s.newController()
	c.PollInterval = time.Hour // only manual checks in this test

	_, err := c.CheckNow(context.Background())
	s.IsType(&errs.StateConflictError{}, err, "nothing to check before payment")

	s.gateway.statuses = []string{
		constant.ChargeStatusOpen,
		constant.ChargeStatusSettled,
	}

	s.NoError(c.Open())
	s.NoError(c.SubmitBuyer(context.Background(), s.buyer()))

	ok, err := c.CheckNow(context.Background())
	s.NoError(err)
	s.False(ok)
	s.Equal(StepPayment, c.Step())

	ok, err = c.CheckNow(context.Background())
	s.NoError(err)
	s.True(ok)
	s.Equal(StepSuccess, c.Step())

	c.Close()
}

func (s *ControllerTestSuite) TestCloseStopsPolling() {
	s.selection.Toggle(12)

	c := s.newController()
	s.NoError(c.Open())
	s.NoError(c.SubmitBuyer(context.Background(), s.buyer()))

	time.Sleep(35 * time.Millisecond)
	c.Close()

	// Let any in-flight tick drain before sampling the call count.
	time.Sleep(20 * time.Millisecond)
	callsAtClose := s.gateway.calls()

	time.Sleep(50 * time.Millisecond)
	s.Equal(callsAtClose, s.gateway.calls(), "poller must stop on close")

	s.Equal(StepClosed, c.Step())
	_, ok := c.Transaction()
	s.False(ok)

	// Reopening starts back at info with the selection intact.
	s.NoError(c.Open())
	s.Equal(StepInfo, c.Step())
	s.Equal([]int32{12}, s.selection.Numbers())
	c.Close()
}
