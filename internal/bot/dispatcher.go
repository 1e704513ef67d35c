package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultQueueSize = 64

// Dispatcher fans updates out to a fixed set of workers keyed by user id. One user's
// updates always land on the same worker, so they are handled in arrival order, while
// different users proceed in parallel.
type Dispatcher struct {
	Workers   int
	QueueSize int
	Handle    func(ctx context.Context, update tgbotapi.Update)
}

func NewDispatcher(workers int, handle func(ctx context.Context, update tgbotapi.Update)) *Dispatcher {
	return &Dispatcher{Workers: workers, QueueSize: defaultQueueSize, Handle: handle}
}

// Run consumes updates until the channel closes or ctx is done, then drains the
// per-worker queues and returns.
func (d *Dispatcher) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	workers := d.Workers
	if workers <= 0 {
		workers = 1
	}
	size := d.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	queues := make([]chan tgbotapi.Update, workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan tgbotapi.Update, size)
		wg.Add(1)
		go func(q <-chan tgbotapi.Update) {
			defer wg.Done()
			for update := range q {
				d.Handle(ctx, update)
			}
		}(queues[i])
	}

	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			shard := shardFor(senderID(update), workers)
			select {
			case queues[shard] <- update:
			case <-ctx.Done():
				return
			}
		}
	}
}

func shardFor(userID int64, workers int) int {
	if userID < 0 {
		userID = -userID
	}
	return int(userID % int64(workers))
}

func senderID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	default:
		return 0
	}
}
