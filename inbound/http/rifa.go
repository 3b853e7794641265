package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"charity-raffle/common"
	"charity-raffle/common/constant"
	"charity-raffle/common/otel"
	"charity-raffle/common/vars"
	"charity-raffle/model"
	"charity-raffle/outbound/sqlgen"
)

type RifaHttp struct {
	Querier *sqlgen.Queries

	recentBuyersLimit int32
}

func RegisterRifaHttp(mux *http.ServeMux, cfg *viper.Viper, querier *sqlgen.Queries) *RifaHttp {
	in := &RifaHttp{
		Querier: querier,

		recentBuyersLimit: cfg.GetInt32("rifa.recent_buyers_limit"),
	}

	mux.HandleFunc("GET /rifas/unavailable", in.unavailable)
	mux.HandleFunc("GET /rifas/recent-buyers", in.recentBuyers)
	mux.HandleFunc("GET /rifas/sold", in.sold)

	return in
}

// unavailable serves the lock-free snapshot the cron maintains, so the
// storefront page load never touches redis or the database.
func (in *RifaHttp) unavailable(w http.ResponseWriter, r *http.Request) {
	numbers := vars.GetUnavailableNumbers()
	if numbers == nil {
		numbers = []int32{}
	}

	writeJSONResponse(w, http.StatusOK, model.UnavailableNumbersResponse{Unavailable: numbers})
}

func (in *RifaHttp) recentBuyers(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "RifaHttp.recentBuyers")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	rows, err := in.Querier.ListRecentBuyers(ctx, in.recentBuyersLimit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list recent buyers", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	buyers := make([]model.RecentBuyer, 0, len(rows))
	for _, row := range rows {
		buyers = append(buyers, model.RecentBuyer{
			Name:      row.Name,
			Numbers:   row.Numbers,
			CreatedAt: row.PaidAt.Time.Format(time.RFC3339),
		})
	}

	writeJSONResponse(w, http.StatusOK, model.RecentBuyersResponse{Buyers: buyers})
}

func (in *RifaHttp) sold(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "RifaHttp.sold")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	rows, err := in.Querier.ListSoldNumbers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list sold numbers", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	sold := make([]model.SoldTicket, 0, len(rows))
	for _, row := range rows {
		sold = append(sold, model.SoldTicket{
			Number: row.Number,
			Client: model.Client{Name: row.Name, Cpf: row.Cpf, Phone: row.Phone},
		})
	}

	writeJSONResponse(w, http.StatusOK, model.SoldNumbersResponse{Sold: sold})
}
