package cmd

import (
	"charity-raffle/common/constant"
	"charity-raffle/inbound/event"
	"charity-raffle/outbound/sqlgen"
	"context"
	"log"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
)

func runQueuePaymentCmd(ctx context.Context) {
	cfg := newCfg("env")

	db := newDb(cfg)
	defer db.Close()

	querier := sqlgen.New(db)

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	createStreamWorkQueue(ctx, js)

	st, err := js.Stream(ctx, constant.QueueStreamName)
	if err != nil {
		log.Fatalln("failed to get stream", err)
	}

	paymentEvent := event.PaymentEvent{
		Querier: querier,
		Timeout: cfg.GetDuration("queue.payment.timeout"),
	}

	cons, err := st.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       "consumer:payment",
		FilterSubject: constant.PaymentWildcard,
		MaxDeliver:    cfg.GetInt("queue.payment.max_deliver"),
		AckWait:       cfg.GetDuration("queue.payment.ack_wait"),
	})
	if err != nil {
		log.Fatalln("failed to create consumer", err)
	}

	iter, err := cons.Messages()
	if err != nil {
		panic(err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := iter.Next()
				if err != nil && err != jetstream.ErrMsgIteratorClosed {
					slog.ErrorContext(ctx, "Error fetching message", slog.Any(constant.LogFieldErr, err))
					continue
				}

				if msg == nil {
					continue
				}

				var eventErr error
				switch msg.Subject() {
				case constant.SubjectPaymentSettled:
					eventErr = paymentEvent.SettledHandler(ctx, msg.Data())
				}

				if eventErr != nil {
					msg.Nak()
					continue
				}

				if err := msg.Ack(); err != nil {
					slog.ErrorContext(ctx, "Error acknowledging message",
						slog.Any(constant.LogFieldErr, err),
						slog.Any(constant.LogFieldPayload, string(msg.Data())),
						slog.String("subject", msg.Subject()),
					)
					continue
				}
			}
		}
	}()

	slog.InfoContext(ctx, "payment queue consumer started")

	<-ctx.Done()

	iter.Stop()

	slog.InfoContext(ctx, "payment queue consumer stopped")
}
