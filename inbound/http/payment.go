package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/message"

	"charity-raffle/common"
	"charity-raffle/common/constant"
	"charity-raffle/common/errs"
	"charity-raffle/common/otel"
	"charity-raffle/model"
	"charity-raffle/outbound/pix"
	"charity-raffle/outbound/sqlgen"
)

// PixCharger is the slice of the PSP surface the payment handlers use.
type PixCharger interface {
	CreateCharge(ctx context.Context, amountCents int64, payerName, payerCpf, description string) (pix.Charge, error)
	ChargeStatus(ctx context.Context, transactionId string) (string, error)
}

type PaymentHttp struct {
	Querier    *sqlgen.Queries
	Cache      *redis.Client
	Pix        PixCharger
	Publisher  jetstream.Publisher
	Validate   *validator.Validate
	BrlPrinter *message.Printer
}

func RegisterPaymentHttp(
	mux *http.ServeMux,
	querier *sqlgen.Queries,
	cache *redis.Client,
	pixOut PixCharger,
	publisher jetstream.Publisher,
	validate *validator.Validate,
	brlPrinter *message.Printer,
) *PaymentHttp {
	in := &PaymentHttp{
		Querier:    querier,
		Cache:      cache,
		Pix:        pixOut,
		Publisher:  publisher,
		Validate:   validate,
		BrlPrinter: brlPrinter,
	}

	mux.HandleFunc("POST /payment", in.create)
	mux.HandleFunc("GET /payment/{transactionId}", in.status)

	return in
}

func (in PaymentHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.validateCreateChargeRequest(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create charge receive request", slog.Any(constant.LogFieldPayload, req.Numbers), traceIdAttr)

	members := make([]interface{}, 0, len(req.Numbers))
	for _, n := range req.Numbers {
		members = append(members, n)
	}

	alreadyTaken, err := in.Cache.SMIsMember(ctx, constant.UnavailableNumbersKey, members...).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to check number availability", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	var taken []int32
	for i, hit := range alreadyTaken {
		if hit {
			taken = append(taken, req.Numbers[i])
		}
	}

	if len(taken) > 0 {
		slog.DebugContext(ctx, "numbers already taken", traceIdAttr, slog.Any(constant.LogFieldPayload, taken))
		writeErrorResponse(w, &errs.HttpError{
			Code:    http.StatusConflict,
			Message: "Numbers already taken",
			Data:    map[string]any{"numbers": taken},
		})
		return
	}

	// Reserve before the PSP round trip so a concurrent buyer cannot grab
	// the same numbers while the cob is being created.
	if err = in.Cache.SAdd(ctx, constant.UnavailableNumbersKey, members...).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to reserve numbers", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	defer func() {
		if err != nil {
			if redisErr := in.Cache.SRem(ctx, constant.UnavailableNumbersKey, members...).Err(); redisErr != nil {
				slog.ErrorContext(ctx, "failed to release reserved numbers", traceIdAttr, slog.Any(constant.LogFieldErr, redisErr))
			}
		}
	}()

	amountCents := int64(len(req.Numbers)) * constant.TicketPriceCents
	description := in.BrlPrinter.Sprintf("Rifa beneficente - %d numeros - R$ %.2f", len(req.Numbers), float64(amountCents)/100)

	charge, err := in.Pix.CreateCharge(ctx, amountCents, req.FullName, req.Cpf, description)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create pix charge", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	externalId := ulid.Make().String()
	returnId, err := in.Querier.InsertPurchase(ctx, sqlgen.InsertPurchaseParams{
		ExternalID:    externalId,
		TransactionID: charge.TransactionId,
		Name:          req.FullName,
		Cpf:           req.Cpf,
		Phone:         req.Phone,
		Numbers:       req.Numbers,
		AmountCents:   amountCents,
		QrCode:        charge.QrCodeImage,
		PixCopyPaste:  charge.CopyPaste,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert purchase", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	slog.InfoContext(ctx, "insert purchase success", traceIdAttr, slog.Any(constant.LogFieldResponse, returnId))

	writeJSONResponse(w, http.StatusOK, model.CreateChargeResponse{
		QrCode:        charge.QrCodeImage,
		PixCopyPaste:  charge.CopyPaste,
		TransactionId: charge.TransactionId,
	})
}

func (in PaymentHttp) status(w http.ResponseWriter, r *http.Request) {
	transactionId := r.PathValue("transactionId")
	if transactionId == "" {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.status")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	purchase, err := in.Querier.FindPurchaseByTransactionId(ctx, transactionId)
	if err == pgx.ErrNoRows {
		slog.DebugContext(ctx, "transaction not found", traceIdAttr, slog.String("transaction_id", transactionId))
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusNotFound, Message: "Transaction not found"})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to find purchase", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	// Settled purchases answer from the database; no PSP round trip and no
	// duplicate settlement event.
	if purchase.Status == "paid" {
		writeJSONResponse(w, http.StatusOK, model.ChargeStatusResponse{Status: constant.ChargeStatusSettled})
		return
	}

	status, err := in.Pix.ChargeStatus(ctx, transactionId)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query pix charge status", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if status == constant.ChargeStatusSettled {
		err = common.PublishMessage(ctx, in.Publisher, constant.SubjectPaymentSettled, model.PaymentSettledEventMessage{
			TransactionId: transactionId,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to publish payment settled message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			writeErrorResponse(w, err)
			return
		}

		slog.InfoContext(ctx, "payment settled", traceIdAttr, slog.String("transaction_id", transactionId))
	}

	writeJSONResponse(w, http.StatusOK, model.ChargeStatusResponse{Status: status})
}

func (in PaymentHttp) validateCreateChargeRequest(req model.CreateChargeRequest) error {
	if err := in.Validate.Struct(req); err != nil {
		return err
	}

	seen := make(map[int32]struct{}, len(req.Numbers))
	for _, n := range req.Numbers {
		if _, ok := seen[n]; ok {
			return &errs.HttpError{
				Code:    http.StatusBadRequest,
				Message: "Validation failed",
				Data:    map[string]any{"Numbers": fmt.Sprintf("duplicate number %d", n)},
			}
		}
		seen[n] = struct{}{}
	}

	return nil
}
