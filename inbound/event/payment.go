package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"charity-raffle/common"
	"charity-raffle/common/constant"
	"charity-raffle/common/otel"
	"charity-raffle/model"
	"charity-raffle/outbound/sqlgen"
)

type PaymentEvent struct {
	Querier *sqlgen.Queries

	Timeout time.Duration
}

// SettledHandler marks the pending purchase paid. Replays and duplicate
// settlement events hit zero pending rows and are dropped with a warn log.
func (in PaymentEvent) SettledHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.PaymentSettledEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "payment settled event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	ctx, span := otel.Tracer.Start(ctx, "PaymentEvent.SettledHandler")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.InfoContext(ctx, "payment settled event receive request", slog.Any(constant.LogFieldPayload, req), traceIdAttr)

	cmd, err := in.Querier.UpdatePurchaseStatusToPaid(ctx, req.TransactionId)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update purchase status", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return err
	}

	if cmd.RowsAffected() == 0 {
		slog.WarnContext(ctx, "purchase is not pending", traceIdAttr, slog.String("transaction_id", req.TransactionId))
		return nil
	}

	slog.InfoContext(ctx, "purchase status updated to paid", traceIdAttr)

	return nil
}
