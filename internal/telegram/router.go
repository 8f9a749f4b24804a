package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/flivergg/Bot-Weather/internal/domain"
	"github.com/flivergg/Bot-Weather/internal/session"
	"github.com/flivergg/Bot-Weather/internal/store"
	"github.com/flivergg/Bot-Weather/internal/weather"
)

// API is the slice of the Telegram Bot API the router uses.
// *tgbotapi.BotAPI satisfies it; tests plug in a fake.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// WeatherAPI is the slice of the weather client the router uses.
type WeatherAPI interface {
	CurrentByCity(ctx context.Context, city string) (*weather.Current, error)
	CurrentByCoords(ctx context.Context, lat, lon float64) (*weather.Current, error)
	Forecast(ctx context.Context, city string, days int) ([]weather.DailyForecast, error)
}

// Config carries the router's behavioral knobs.
type Config struct {
	AdminIDs  []int64
	GroupLink string
	// SendDelay paces sequential broadcast sends.
	SendDelay time.Duration
}

// Router wires Telegram updates to handlers.
type Router struct {
	api      API
	log      *zap.Logger
	repo     store.Repo
	wx       WeatherAPI
	sessions session.Store
	cfg      Config
	admins   map[int64]struct{}
}

// NewRouter creates a new Telegram router.
func NewRouter(api API, log *zap.Logger, repo store.Repo, wx WeatherAPI, sessions session.Store, cfg Config) *Router {
	admins := make(map[int64]struct{}, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		admins[id] = struct{}{}
	}
	return &Router{
		api:      api,
		log:      log,
		repo:     repo,
		wx:       wx,
		sessions: sessions,
		cfg:      cfg,
		admins:   admins,
	}
}

func (r *Router) isAdmin(userID int64) bool {
	_, ok := r.admins[userID]
	return ok
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		if msg.From == nil {
			return
		}
		userID := msg.From.ID
		chatID := msg.Chat.ID

		if msg.Location != nil {
			r.handleLocation(ctx, chatID, userID, msg.Location.Latitude, msg.Location.Longitude)
			return
		}

		text := strings.TrimSpace(msg.Text)
		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(chatID, userID)
		case strings.HasPrefix(text, "/toggle"):
			r.handleToggle(ctx, chatID, userID)
		case strings.HasPrefix(text, "/time"):
			r.handleAskNotifyTime(chatID, userID)
		case strings.HasPrefix(text, "/route"):
			r.handleAskRoute(chatID, userID)
		case strings.HasPrefix(text, "/broadcast"):
			r.handleAskBroadcast(chatID, userID)
		case strings.HasPrefix(text, "/admin"):
			r.handleAdmin(chatID, userID)
		case text == btnWeather:
			r.handleWeather(ctx, chatID, userID)
		case text == btnForecast:
			r.handleForecast(ctx, chatID, userID)
		case text == btnWardrobe:
			r.handleWardrobe(ctx, chatID, userID)
		case text == btnSettings:
			r.handleSettings(ctx, chatID, userID)
		case text == btnGroup:
			r.sendText(chatID, "👥 Наша группа: "+r.cfg.GroupLink)
		default:
			r.handleFreeForm(ctx, chatID, userID, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil || cb.From == nil {
			return
		}
		chatID := cb.Message.Chat.ID
		userID := cb.From.ID

		switch {
		case strings.HasPrefix(cb.Data, "savecity:"):
			city := strings.TrimPrefix(cb.Data, "savecity:")
			r.handleSaveCity(ctx, chatID, userID, city, cb.ID)
		default:
			// Unknown callback — ignore silently
		}
		return
	}
}

// handleFreeForm dispatches text that matched no command or button,
// based on the user's conversation state.
func (r *Router) handleFreeForm(ctx context.Context, chatID, userID int64, text string) {
	sess := r.sessions.Get(userID)
	switch sess.State {
	case domain.StateAwaitingCity:
		r.handleCityInput(ctx, chatID, userID, text)
	case domain.StateAwaitingBroadcast:
		r.handleBroadcastInput(ctx, chatID, userID, text)
	case domain.StateAwaitingRouteStart:
		r.sessions.Set(userID, session.Session{State: domain.StateAwaitingRouteEnd, RouteStart: text})
		r.sendText(chatID, askRouteEndText)
	case domain.StateAwaitingRouteEnd:
		r.handleRouteEnd(ctx, chatID, userID, sess.RouteStart, text)
	case domain.StateAwaitingNotifyTime:
		r.handleNotifyTimeInput(ctx, chatID, userID, text)
	default:
		// Idle: free-form text outside any flow is ignored
	}
}

// SendMessage sends a plain text message to the given chat.
// This makes Router satisfy scheduler.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) answerCallback(id string) {
	if _, err := r.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		r.log.Warn("answer callback failed", zap.Error(err))
	}
}
