package cron

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"charity-raffle/common"
	"charity-raffle/common/constant"
	"charity-raffle/common/vars"
	"charity-raffle/outbound/sqlgen"
)

type PoolCron struct {
	Cfg     *viper.Viper
	Cache   *redis.Client
	Querier *sqlgen.Queries
}

func (in PoolCron) Start(ctx context.Context) {
	refreshTicker := time.NewTicker(in.Cfg.GetDuration("cron.pool.refresh.interval"))
	defer refreshTicker.Stop()

	// Run initial refresh
	in.refresh(ctx)

	slog.Info("pool cron started")

	for {
		select {
		case <-refreshTicker.C:
			in.refresh(ctx)
		case <-ctx.Done():
			slog.Info("pool cron stopped")
			return
		}
	}
}

func (in PoolCron) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, in.Cfg.GetDuration("cron.pool.refresh.timeout"))
	defer cancel()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.DebugContext(ctx, "refreshing unavailable numbers", traceIdAttr)

	members, err := in.Cache.SMembers(ctx, constant.UnavailableNumbersKey).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to get unavailable numbers from cache", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return
	}

	numbers := make([]int32, 0, len(members))
	for _, member := range members {
		n, err := strconv.Atoi(member)
		if err != nil {
			slog.ErrorContext(ctx, "failed to convert number to int", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			return
		}

		numbers = append(numbers, int32(n))
	}

	// SMembers order is unspecified, keep the snapshot deterministic.
	slices.Sort(numbers)

	vars.SetUnavailableNumbers(numbers)

	slog.DebugContext(ctx, "unavailable numbers refreshed successfully", traceIdAttr)
}

// InitUnavailableCache seeds the redis set from the purchases table so the
// reservation check survives a cold cache.
func (in PoolCron) InitUnavailableCache(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	numbers, err := in.Querier.ListTakenNumbers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list taken numbers", slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("list taken numbers: %w", err)
	}

	if len(numbers) == 0 {
		slog.InfoContext(ctx, "no taken numbers found to initialize")
		return nil
	}

	members := make([]interface{}, 0, len(numbers))
	for _, n := range numbers {
		members = append(members, n)
	}

	if err = in.Cache.SAdd(ctx, constant.UnavailableNumbersKey, members...).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to initialize unavailable numbers in cache", slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("seed unavailable set: %w", err)
	}

	slog.InfoContext(ctx, "unavailable numbers initialized successfully")
	return nil
}
