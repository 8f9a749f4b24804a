package telegram

import (
	"context"
	"path/filepath"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flivergg/Bot-Weather/internal/domain"
	"github.com/flivergg/Bot-Weather/internal/session"
	"github.com/flivergg/Bot-Weather/internal/store"
	"github.com/flivergg/Bot-Weather/internal/weather"
)

// fakeAPI records outbound messages instead of talking to Telegram.
type fakeAPI struct {
	messages []tgbotapi.MessageConfig
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.messages = append(f.messages, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) lastText() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1].Text
}

func (f *fakeAPI) textsTo(chatID int64) []string {
	var out []string
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

// fakeWeather resolves cities from a fixed map; unknown cities fail.
type fakeWeather struct {
	byCity   map[string]*weather.Current
	forecast []weather.DailyForecast
}

func (f *fakeWeather) CurrentByCity(_ context.Context, city string) (*weather.Current, error) {
	if w, ok := f.byCity[city]; ok {
		return w, nil
	}
	return nil, weather.ErrCityNotFound
}

func (f *fakeWeather) CurrentByCoords(_ context.Context, lat, lon float64) (*weather.Current, error) {
	return &weather.Current{City: "Санкт-Петербург", Temperature: 8, Description: "Пасмурно"}, nil
}

func (f *fakeWeather) Forecast(_ context.Context, city string, days int) ([]weather.DailyForecast, error) {
	if _, ok := f.byCity[city]; !ok {
		return nil, weather.ErrProvider
	}
	return f.forecast, nil
}

type fixture struct {
	router *Router
	api    *fakeAPI
	repo   store.Repo
	wx     *fakeWeather
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	api := &fakeAPI{}
	wx := &fakeWeather{
		byCity: map[string]*weather.Current{
			"London": {City: "London", Temperature: 12, Description: "Пасмурно", Humidity: 80, WindSpeed: 4},
			"Москва": {City: "Москва", Temperature: 5, Description: "Снег", Humidity: 90, WindSpeed: 6},
		},
		forecast: []weather.DailyForecast{{Date: "2025-06-02", MinTemp: 9, MaxTemp: 16, Description: "Ясно"}},
	}
	router := NewRouter(api, zap.NewNop(), repo, wx, session.NewMemory(), Config{
		AdminIDs:  []int64{99},
		GroupLink: "https://t.me/weather_chat",
		SendDelay: 0,
	})
	return &fixture{router: router, api: api, repo: repo, wx: wx}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}}
}

func locationUpdate(userID int64, lat, lon float64) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: userID},
		Chat:     &tgbotapi.Chat{ID: userID},
		Location: &tgbotapi.Location{Latitude: lat, Longitude: lon},
	}}
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb1",
		From: &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: userID},
		},
		Data: data,
	}}
}

func TestStartThenCitySaved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.router.HandleUpdate(ctx, textUpdate(1, "/start"))
	assert.Equal(t, askCityText, f.api.lastText())

	f.router.HandleUpdate(ctx, textUpdate(1, "London"))
	assert.Contains(t, f.api.lastText(), "Город London установлен")

	city, err := f.repo.GetCity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "London", city)

	enabled, err := f.repo.NotificationsEnabled(ctx, 1)
	require.NoError(t, err)
	assert.True(t, enabled)

	users, err := f.repo.UsersDueAt(ctx, domain.DefaultNotifyTime)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].UserID)
}

func TestCityLookupFailureKeepsPrompting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.router.HandleUpdate(ctx, textUpdate(1, "/start"))
	f.router.HandleUpdate(ctx, textUpdate(1, "Нарния"))
	assert.Equal(t, cityNotFoundText, f.api.lastText())

	// Nothing was persisted.
	city, err := f.repo.GetCity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "", city)

	// Still awaiting a city: the next valid submission succeeds without
	// another /start.
	f.router.HandleUpdate(ctx, textUpdate(1, "London"))
	assert.Contains(t, f.api.lastText(), "установлен")
}

func TestWeatherButtonRequiresCity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.router.HandleUpdate(ctx, textUpdate(1, btnWeather))
	assert.Equal(t, noCityText, f.api.lastText())
}

func TestWeatherButton(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repo.UpsertCity(ctx, 1, "Москва"))

	f.router.HandleUpdate(ctx, textUpdate(1, btnWeather))
	assert.Contains(t, f.api.lastText(), "Погода в Москва")
	assert.Contains(t, f.api.lastText(), "5°C")
}

func TestWardrobeButton(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repo.UpsertCity(ctx, 1, "Москва"))

	f.router.HandleUpdate(ctx, textUpdate(1, btnWardrobe))
	assert.Contains(t, f.api.lastText(), "Рекомендации")
	assert.Contains(t, f.api.lastText(), "Зимняя одежда")
	assert.Contains(t, f.api.lastText(), "Непромокаемая обувь")
}

func TestForecastButton(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repo.UpsertCity(ctx, 1, "London"))

	f.router.HandleUpdate(ctx, textUpdate(1, btnForecast))
	assert.Contains(t, f.api.lastText(), "Прогноз погоды в London")
	assert.Contains(t, f.api.lastText(), "9…16°C")
}

func TestToggleCommand(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repo.UpsertCity(ctx, 1, "Москва"))

	f.router.HandleUpdate(ctx, textUpdate(1, "/toggle"))
	assert.Contains(t, f.api.lastText(), "выключены")

	f.router.HandleUpdate(ctx, textUpdate(1, "/toggle"))
	assert.Contains(t, f.api.lastText(), "включены")
}

func TestNotifyTimeFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repo.UpsertCity(ctx, 1, "Москва"))

	f.router.HandleUpdate(ctx, textUpdate(1, "/time"))
	assert.Equal(t, askNotifyTimeText, f.api.lastText())

	// Off-menu text re-prompts and keeps the state.
	f.router.HandleUpdate(ctx, textUpdate(1, "13:37"))
	assert.Equal(t, badNotifyTimeText, f.api.lastText())

	f.router.HandleUpdate(ctx, textUpdate(1, "09:00"))
	assert.Contains(t, f.api.lastText(), "Время уведомлений: 09:00")

	due, err := f.repo.UsersDueAt(ctx, "09:00")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, int64(1), due[0].UserID)
}

func TestRouteFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.router.HandleUpdate(ctx, textUpdate(1, "/route"))
	assert.Equal(t, askRouteStartText, f.api.lastText())

	f.router.HandleUpdate(ctx, textUpdate(1, "Москва"))
	assert.Equal(t, askRouteEndText, f.api.lastText())

	f.router.HandleUpdate(ctx, textUpdate(1, "London"))
	assert.Contains(t, f.api.lastText(), "Москва → London")
	assert.Contains(t, f.api.lastText(), "теплее на 7°C")

	// Flow is reset: further free text is ignored.
	before := len(f.api.messages)
	f.router.HandleUpdate(ctx, textUpdate(1, "Казань"))
	assert.Len(t, f.api.messages, before)
}

func TestRouteFlowLookupFailureResets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.router.HandleUpdate(ctx, textUpdate(1, "/route"))
	f.router.HandleUpdate(ctx, textUpdate(1, "Москва"))
	f.router.HandleUpdate(ctx, textUpdate(1, "Нарния"))
	assert.Equal(t, weatherErrText, f.api.lastText())

	before := len(f.api.messages)
	f.router.HandleUpdate(ctx, textUpdate(1, "London"))
	assert.Len(t, f.api.messages, before)
}

func TestGroupButton(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.router.HandleUpdate(ctx, textUpdate(1, btnGroup))
	assert.Contains(t, f.api.lastText(), "https://t.me/weather_chat")
}

func TestAdminGating(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Non-admin gets silence for both admin commands.
	f.router.HandleUpdate(ctx, textUpdate(1, "/admin"))
	f.router.HandleUpdate(ctx, textUpdate(1, "/broadcast"))
	assert.Empty(t, f.api.messages)

	f.router.HandleUpdate(ctx, textUpdate(99, "/admin"))
	assert.Equal(t, adminPanelText, f.api.lastText())
}

func TestBroadcastFanOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.repo.UpsertCity(ctx, 1, "Москва"))
	require.NoError(t, f.repo.UpsertCity(ctx, 2, "London"))
	require.NoError(t, f.repo.UpsertCity(ctx, 3, "Сочи"))
	_, err := f.repo.ToggleNotifications(ctx, 3)
	require.NoError(t, err)

	f.router.HandleUpdate(ctx, textUpdate(99, "/broadcast"))
	assert.Equal(t, askBroadcastText, f.api.lastText())

	f.router.HandleUpdate(ctx, textUpdate(99, "Всем привет"))
	assert.Equal(t, broadcastDone, f.api.lastText())

	require.Len(t, f.api.textsTo(1), 1)
	assert.Equal(t, "📢 Рассылка:\nВсем привет", f.api.textsTo(1)[0])
	assert.Len(t, f.api.textsTo(2), 1)
	assert.Empty(t, f.api.textsTo(3))
}

func TestLocationShareAndSaveCity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.router.HandleUpdate(ctx, locationUpdate(1, 59.9386, 30.3141))
	assert.Contains(t, f.api.lastText(), "Погода в Санкт-Петербург")

	// Coordinates persisted, city not yet.
	users, err := f.repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].Latitude)
	assert.InDelta(t, 59.9386, *users[0].Latitude, 1e-9)
	assert.Nil(t, users[0].City)

	f.router.HandleUpdate(ctx, callbackUpdate(1, "savecity:Санкт-Петербург"))
	assert.Contains(t, f.api.lastText(), "Город Санкт-Петербург установлен")

	city, err := f.repo.GetCity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Санкт-Петербург", city)
}

func TestUnknownCallbackIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.router.HandleUpdate(ctx, callbackUpdate(1, "mystery:payload"))
	assert.Empty(t, f.api.messages)
}

func TestIdleFreeFormIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.router.HandleUpdate(ctx, textUpdate(1, "просто текст"))
	assert.Empty(t, f.api.messages)
}

// Router satisfies the scheduler's sender contract.
func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.router.SendMessage(42, "ping"))
	require.Len(t, f.api.textsTo(42), 1)
	assert.Equal(t, "ping", f.api.textsTo(42)[0])
}
