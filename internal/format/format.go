// Package format turns normalized weather records into the texts the bot
// sends. Everything here is a pure function over its arguments.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/flivergg/Bot-Weather/internal/weather"
)

// Wardrobe maps a temperature and condition description to clothing advice.
// Tier breakpoints are 25, 18, 10 and 0 degrees Celsius.
func Wardrobe(temp int, description string) string {
	var rec string
	switch {
	case temp >= 25:
		rec = "👕 Легкая одежда: футболка, шорты, сандалии"
	case temp >= 18:
		rec = "👔 Умеренная одежда: рубашка, джинсы, кроссовки"
	case temp >= 10:
		rec = "🧥 Теплая одежда: свитер, брюки, закрытая обувь"
	case temp >= 0:
		rec = "🧤 Зимняя одежда: пуховик, шапка, перчатки"
	default:
		rec = "❄️ Сильно утепляйтесь: термобелье, зимняя куртка"
	}

	desc := strings.ToLower(description)
	if strings.Contains(desc, "дождь") {
		rec += "\n🌂 Возьмите зонт"
	} else if strings.Contains(desc, "снег") {
		rec += "\n👢 Непромокаемая обувь"
	}
	return rec
}

// CurrentText renders the current-conditions message.
func CurrentText(w *weather.Current) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌤️ Погода в %s:\n", w.City)
	fmt.Fprintf(&b, "🌡️ %d°C (ощущается %d°C)\n", w.Temperature, w.FeelsLike)
	fmt.Fprintf(&b, "📝 %s\n", w.Description)
	fmt.Fprintf(&b, "💧 Влажность: %d%%\n", w.Humidity)
	fmt.Fprintf(&b, "💨 Ветер: %.1f м/с", w.WindSpeed)
	if w.WindDir != "" {
		fmt.Fprintf(&b, " (%s)", w.WindDir)
	}
	if w.Pressure > 0 {
		fmt.Fprintf(&b, "\n🔽 Давление: %.0f мб", w.Pressure)
	}
	return b.String()
}

// MorningText renders the scheduled daily notification.
func MorningText(w *weather.Current) string {
	return fmt.Sprintf("🌅 Доброе утро! Погода: %d°C", w.Temperature)
}

// ForecastText renders a multi-day forecast, one block per day.
// Rain and snow probability lines appear only when the chance is nonzero.
func ForecastText(city string, days []weather.DailyForecast) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Прогноз погоды в %s:\n", city)
	for _, d := range days {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s\n", weekdayName(d.Date), conditionEmoji(d.Description))
		fmt.Fprintf(&b, "🌡️ %d…%d°C, %s\n", d.MinTemp, d.MaxTemp, d.Description)
		fmt.Fprintf(&b, "💨 До %.1f м/с, 💧 %d%%\n", d.MaxWind, d.AvgHumidity)
		if d.RainChance > 0 {
			fmt.Fprintf(&b, "🌧 Вероятность дождя: %d%%\n", d.RainChance)
		}
		if d.SnowChance > 0 {
			fmt.Fprintf(&b, "🌨 Вероятность снега: %d%%\n", d.SnowChance)
		}
		fmt.Fprintf(&b, "🌅 %s · 🌇 %s\n", d.Sunrise, d.Sunset)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RouteCompareText renders weather at both ends of a route and a delta line.
func RouteCompareText(start, end *weather.Current) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚗 Маршрут %s → %s\n\n", start.City, end.City)
	fmt.Fprintf(&b, "%s: %d°C, %s\n", start.City, start.Temperature, start.Description)
	fmt.Fprintf(&b, "%s: %d°C, %s\n\n", end.City, end.Temperature, end.Description)

	diff := end.Temperature - start.Temperature
	switch {
	case diff > 0:
		fmt.Fprintf(&b, "В пункте назначения теплее на %d°C", diff)
	case diff < 0:
		fmt.Fprintf(&b, "В пункте назначения холоднее на %d°C", -diff)
	default:
		b.WriteString("Температура одинаковая")
	}
	return b.String()
}

var weekdayNames = [...]string{
	time.Sunday:    "Воскресенье",
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
}

// weekdayName returns the localized weekday for a provider "2006-01-02"
// date, or the raw date string when it does not parse.
func weekdayName(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return weekdayNames[t.Weekday()]
}

// conditionEmoji keys an emoji off description keywords.
func conditionEmoji(description string) string {
	desc := strings.ToLower(description)
	switch {
	case strings.Contains(desc, "гроза"):
		return "⛈"
	case strings.Contains(desc, "снег"), strings.Contains(desc, "метель"):
		return "❄️"
	case strings.Contains(desc, "дождь"), strings.Contains(desc, "ливень"), strings.Contains(desc, "морось"):
		return "🌧"
	case strings.Contains(desc, "туман"), strings.Contains(desc, "дымка"):
		return "🌫"
	case strings.Contains(desc, "ясно"), strings.Contains(desc, "солнечно"):
		return "☀️"
	case strings.Contains(desc, "пасмурно"), strings.Contains(desc, "облачно"):
		return "☁️"
	default:
		return "🌤"
	}
}
