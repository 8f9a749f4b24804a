package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/flivergg/Bot-Weather/internal/domain"
)

// Reply-keyboard button labels. Matching is exact string equality.
const (
	btnWeather  = "🌤️ Погода"
	btnForecast = "📅 Прогноз"
	btnWardrobe = "👕 Что надеть?"
	btnSettings = "⚙️ Настройки"
	btnGroup    = "👥 Группа"
)

const (
	askCityText      = "👋 Введите ваш город:"
	cityNotFoundText = "❌ Город не найден. Введите снова:"
	noCityText       = "❌ Сначала укажите город"
	weatherErrText   = "❌ Ошибка получения погоды"
	storeErrText     = "⚠️ Сервис временно недоступен, попробуйте позже"

	askRouteStartText = "🚗 Введите начальный город:"
	askRouteEndText   = "🏁 Введите конечный город:"

	askNotifyTimeText = "⏰ Выберите время уведомлений:"
	badNotifyTimeText = "Выберите время из предложенных кнопок:"

	adminPanelText   = "Админ панель\nИспользуйте /broadcast для рассылки"
	askBroadcastText = "Введите сообщение для рассылки:"
	broadcastDone    = "✅ Рассылка завершена!"

	saveCityButton = "💾 Сохранить город"
)

// mainKeyboard is the persistent reply keyboard installed after a city save.
func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnWeather),
			tgbotapi.NewKeyboardButton(btnWardrobe),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnForecast),
			tgbotapi.NewKeyboardButton(btnSettings),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnGroup),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// notifyTimeKeyboard offers the fixed notification slots, one row of three.
func notifyTimeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, slot := range domain.NotifySlots {
		row = append(row, tgbotapi.NewKeyboardButton(slot))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// saveCityKeyboard is attached to weather replies for shared locations;
// the callback payload carries the provider-resolved city name.
func saveCityKeyboard(city string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(saveCityButton, "savecity:"+city),
		),
	)
}
