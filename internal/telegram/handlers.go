package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flivergg/Bot-Weather/internal/domain"
	"github.com/flivergg/Bot-Weather/internal/format"
	"github.com/flivergg/Bot-Weather/internal/session"
)

const forecastDays = 3

// --- City setup flow ---

func (r *Router) handleStart(chatID, userID int64) {
	r.sessions.Set(userID, session.Session{State: domain.StateAwaitingCity})
	r.sendText(chatID, askCityText)
}

// handleCityInput treats any text as a candidate city. The lookup doubles
// as validation: on failure the user stays prompted and may retry without
// bound; the store is only touched after a successful lookup.
func (r *Router) handleCityInput(ctx context.Context, chatID, userID int64, city string) {
	w, err := r.wx.CurrentByCity(ctx, city)
	if err != nil {
		r.sendText(chatID, cityNotFoundText)
		return
	}

	if err := r.repo.UpsertCity(ctx, userID, city); err != nil {
		r.log.Error("upsert city failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(chatID, storeErrText)
		return
	}
	r.sessions.Clear(userID)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Город %s установлен!", w.City))
	msg.ReplyMarkup = mainKeyboard()
	if _, err := r.api.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

// --- Weather buttons ---

// savedCity loads the user's city, replying on the caller's behalf when
// it is missing or the store fails. The bool reports whether to proceed.
func (r *Router) savedCity(ctx context.Context, chatID, userID int64) (string, bool) {
	city, err := r.repo.GetCity(ctx, userID)
	if err != nil {
		r.log.Error("get city failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(chatID, storeErrText)
		return "", false
	}
	if city == "" {
		r.sendText(chatID, noCityText)
		return "", false
	}
	return city, true
}

func (r *Router) handleWeather(ctx context.Context, chatID, userID int64) {
	city, ok := r.savedCity(ctx, chatID, userID)
	if !ok {
		return
	}
	w, err := r.wx.CurrentByCity(ctx, city)
	if err != nil {
		r.sendText(chatID, weatherErrText)
		return
	}
	r.sendText(chatID, format.CurrentText(w))
}

func (r *Router) handleWardrobe(ctx context.Context, chatID, userID int64) {
	city, ok := r.savedCity(ctx, chatID, userID)
	if !ok {
		return
	}
	w, err := r.wx.CurrentByCity(ctx, city)
	if err != nil {
		r.sendText(chatID, weatherErrText)
		return
	}
	r.sendText(chatID, "👕 Рекомендации:\n"+format.Wardrobe(w.Temperature, w.Description))
}

func (r *Router) handleForecast(ctx context.Context, chatID, userID int64) {
	city, ok := r.savedCity(ctx, chatID, userID)
	if !ok {
		return
	}
	days, err := r.wx.Forecast(ctx, city, forecastDays)
	if err != nil || len(days) == 0 {
		r.sendText(chatID, weatherErrText)
		return
	}
	r.sendText(chatID, format.ForecastText(city, days))
}

// --- Location sharing ---

func (r *Router) handleLocation(ctx context.Context, chatID, userID int64, lat, lon float64) {
	w, err := r.wx.CurrentByCoords(ctx, lat, lon)
	if err != nil {
		r.sendText(chatID, weatherErrText)
		return
	}

	// Partial update: coordinates only, the saved city stays.
	if err := r.repo.UpdateLocation(ctx, userID, lat, lon, nil); err != nil {
		r.log.Error("update location failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(chatID, storeErrText)
		return
	}

	msg := tgbotapi.NewMessage(chatID, format.CurrentText(w))
	msg.ReplyMarkup = saveCityKeyboard(w.City)
	if _, err := r.api.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) handleSaveCity(ctx context.Context, chatID, userID int64, city, cbID string) {
	r.answerCallback(cbID)
	if err := r.repo.UpsertCity(ctx, userID, city); err != nil {
		r.log.Error("upsert city failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(chatID, storeErrText)
		return
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Город %s установлен!", city))
	msg.ReplyMarkup = mainKeyboard()
	if _, err := r.api.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

// --- Settings ---

func (r *Router) handleSettings(ctx context.Context, chatID, userID int64) {
	enabled, err := r.repo.NotificationsEnabled(ctx, userID)
	if err != nil {
		r.log.Error("notifications status failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(chatID, storeErrText)
		return
	}
	r.sendText(chatID, fmt.Sprintf(
		"Уведомления: %s\n\nИспользуйте /toggle для переключения\nи /time для смены времени",
		toggleStatus(enabled)))
}

func (r *Router) handleToggle(ctx context.Context, chatID, userID int64) {
	enabled, err := r.repo.ToggleNotifications(ctx, userID)
	if err != nil {
		r.log.Error("toggle failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(chatID, storeErrText)
		return
	}
	r.sendText(chatID, "Уведомления "+toggleStatus(enabled))
}

func toggleStatus(enabled bool) string {
	if enabled {
		return "включены 🔔"
	}
	return "выключены 🔕"
}

// --- Notification time flow ---

func (r *Router) handleAskNotifyTime(chatID, userID int64) {
	r.sessions.Set(userID, session.Session{State: domain.StateAwaitingNotifyTime})
	msg := tgbotapi.NewMessage(chatID, askNotifyTimeText)
	msg.ReplyMarkup = notifyTimeKeyboard()
	if _, err := r.api.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

// handleNotifyTimeInput accepts only the offered slots; anything else
// re-prompts and leaves the state unchanged.
func (r *Router) handleNotifyTimeInput(ctx context.Context, chatID, userID int64, text string) {
	if !domain.IsNotifySlot(text) {
		r.sendText(chatID, badNotifyTimeText)
		return
	}
	if err := r.repo.SetNotificationTime(ctx, userID, text); err != nil {
		r.log.Error("set notification time failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(chatID, storeErrText)
		return
	}
	r.sessions.Clear(userID)

	msg := tgbotapi.NewMessage(chatID, "✅ Время уведомлений: "+text)
	msg.ReplyMarkup = mainKeyboard()
	if _, err := r.api.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

// --- Route flow ---

func (r *Router) handleAskRoute(chatID, userID int64) {
	r.sessions.Set(userID, session.Session{State: domain.StateAwaitingRouteStart})
	r.sendText(chatID, askRouteStartText)
}

// handleRouteEnd finishes the two-step route flow. The flow resets to
// idle regardless of lookup outcome.
func (r *Router) handleRouteEnd(ctx context.Context, chatID, userID int64, startCity, endCity string) {
	r.sessions.Clear(userID)

	start, err := r.wx.CurrentByCity(ctx, startCity)
	if err != nil {
		r.sendText(chatID, weatherErrText)
		return
	}
	end, err := r.wx.CurrentByCity(ctx, endCity)
	if err != nil {
		r.sendText(chatID, weatherErrText)
		return
	}
	r.sendText(chatID, format.RouteCompareText(start, end))
}

// --- Admin ---

func (r *Router) handleAdmin(chatID, userID int64) {
	if !r.isAdmin(userID) {
		return
	}
	r.sendText(chatID, adminPanelText)
}

func (r *Router) handleAskBroadcast(chatID, userID int64) {
	if !r.isAdmin(userID) {
		return
	}
	r.sessions.Set(userID, session.Session{State: domain.StateAwaitingBroadcast})
	r.sendText(chatID, askBroadcastText)
}

// handleBroadcastInput fans the text out sequentially to the users due at
// the default notification time. Per-recipient failures are counted and
// skipped; the batch never aborts.
func (r *Router) handleBroadcastInput(ctx context.Context, chatID, userID int64, text string) {
	r.sessions.Clear(userID)

	users, err := r.repo.UsersDueAt(ctx, domain.DefaultNotifyTime)
	if err != nil {
		r.log.Error("list broadcast recipients failed", zap.Error(err))
		r.sendText(chatID, storeErrText)
		return
	}

	batchID := uuid.NewString()
	var sent, failed int
	for i, u := range users {
		if i > 0 && r.cfg.SendDelay > 0 {
			time.Sleep(r.cfg.SendDelay)
		}
		if err := r.SendMessage(u.UserID, "📢 Рассылка:\n"+text); err != nil {
			failed++
			r.log.Warn("broadcast send failed",
				zap.String("batchID", batchID),
				zap.Int64("userID", u.UserID),
				zap.Error(err))
			continue
		}
		sent++
	}

	r.log.Info("broadcast finished",
		zap.String("batchID", batchID),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
	r.sendText(chatID, broadcastDone)
}
