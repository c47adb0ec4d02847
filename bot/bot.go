package bot

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	"go.uber.org/ratelimit"

	"promobot/internal/handlers"
)

// processTimeout bounds the handling of a single update.
const processTimeout = 30 * time.Second

// Bot runs the update loop: it reads updates from the long-polling channel
// and dispatches each one to the message handler on its own goroutine.
type Bot struct {
	updatesChan <-chan telego.Update
	handler     *handlers.MessageHandler
	ratelimiter ratelimit.Limiter
	debug       bool
}

// Deps holds the dependencies required by the Bot.
type Deps struct {
	UpdatesChan <-chan telego.Update
	Handler     *handlers.MessageHandler
	Debug       bool
}

// New creates a new Bot instance from its dependencies.
func New(deps Deps) (*Bot, error) {
	if deps.UpdatesChan == nil {
		return nil, fmt.Errorf("updates channel cannot be nil")
	}
	if deps.Handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}
	return &Bot{
		updatesChan: deps.UpdatesChan,
		handler:     deps.Handler,
		ratelimiter: ratelimit.New(20),
		debug:       deps.Debug,
	}, nil
}

// processUpdate routes one update. Panics are contained here so a bad update
// never takes down the loop.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	b.ratelimiter.Take()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered in processUpdate: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(time.Second * 2)
		}
	}()

	processingCtx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	switch {
	case update.Message != nil:
		message := *update.Message
		if err := b.handler.HandleMessage(processingCtx, message); err != nil {
			log.Printf("[Update Msg:%d] Handler error: %v", message.MessageID, err)
			sentry.CaptureException(fmt.Errorf("message handler error: %w", err))
		}

	case update.CallbackQuery != nil:
		query := *update.CallbackQuery
		if err := b.handler.HandleCallbackQuery(processingCtx, query); err != nil {
			log.Printf("[Update Callback:%s] Handler error: %v", query.ID, err)
			sentry.CaptureException(fmt.Errorf("callback handler error: %w", err))
		}

	default:
		if b.debug {
			log.Printf("Ignoring unhandled update type: %+v", update)
		}
	}
}

// Start begins the bot's update processing loop. It returns when the context
// is cancelled or the updates channel closes, after in-flight updates finish.
func (b *Bot) Start(ctx context.Context) {
	log.Println("Listening for updates...")

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			log.Println("Context done, stopping update processing...")
			wg.Wait()
			log.Println("All update processing finished.")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				log.Println("Updates channel closed.")
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(up telego.Update) {
				defer wg.Done()
				b.processUpdate(ctx, up)
			}(update)
		}
	}
}
