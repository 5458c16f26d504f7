package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	sendTimeout    = 15 * time.Second
)

type resetMail struct {
	email string
	token string
}

// MailDispatcher fans reset mail out to a fixed set of workers, sharded by
// recipient so repeated requests for the same account stay ordered. Moving
// delivery off the request path keeps forgot-password response latency
// identical whether or not any mail is sent.
type MailDispatcher struct {
	workers []chan resetMail
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan resetMail, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan resetMail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// EnqueueReset hands a reset mail to the worker responsible for the
// recipient. Non-blocking up to channelBuffer capacity.
func (d *MailDispatcher) EnqueueReset(email, token string) {
	d.workers[d.shardIndex(email)] <- resetMail{email: email, token: token}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan resetMail) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			if err := d.mailer.SendPasswordReset(sendCtx, m.email, m.token); err != nil {
				d.log.Error().Err(err).
					Str("to", m.email).
					Int("worker_id", id).
					Msg("reset mail delivery failed")
			}
			cancel()
		}
	}
}
