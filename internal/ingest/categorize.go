package ingest

import (
	"regexp"
	"strings"
)

// Event types assigned to calendar files.
const (
	EventTypeHoliday  = "holiday"
	EventTypePersonal = "personal"
)

// Event categories produced by Categorize.
const (
	CategoryHoliday  = "holiday"
	CategoryStudy    = "study"
	CategoryTraining = "training"
	CategoryHealth   = "health"
	CategoryTravel   = "travel"
	CategoryReminder = "reminder"
)

var publicHolidays = []string{
	"neujahr",
	"heilige drei könige",
	"epiphanias",
	"karfreitag",
	"ostermontag",
	"tag der arbeit",
	"maifeiertag",
	"christi himmelfahrt",
	"pfingstmontag",
	"fronleichnam",
	"mariä himmelfahrt",
	"maria himmelfahrt",
	"tag der deutschen einheit",
	"allerheiligen",
	"1. weihnachtsfeiertag",
	"erster weihnachtstag",
	"2. weihnachtsfeiertag",
	"zweiter weihnachtstag",
}

var (
	droppedWords = []string{"birthday", "geburtstag", "เบอร์โทรศัพท์", "ค่าบริการ"}
	studyWords   = []string{
		"prüfung", "übung", "abgabe", "präsentation",
		"hausarbeit", "referat", "zwischenpräsentation",
		"abschluss", "test", "plakat", "user journey",
	}
	trainingWords = []string{"reformer", "gym", "training", "pilates"}
	healthWords   = []string{
		"therapie", "arzt", "psych", "dr.", "doktor",
		"lupus", "zahnarzt", "hausarzt", "psychiater",
		"ambulant", "klinik", "medizin", "lungen", "ทำฟัน",
	}
	travelWords = []string{"กลับ", "flight", "reise", "trip", "flug", "hotel", "stay"}
)

var courseCode = regexp.MustCompile(`^\d{3}\s*:`)

// EventTypeFor derives the event type from a calendar file name.
func EventTypeFor(fileName string) string {
	name := strings.ToLower(fileName)
	if strings.Contains(name, "holiday") || strings.Contains(name, "feiertag") {
		return EventTypeHoliday
	}
	return EventTypePersonal
}

// Categorize assigns a category to a calendar event title.
// ok is false when the event should be dropped.
func Categorize(title, eventType, fileName string) (category string, ok bool) {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, droppedWords):
		return "", false
	case eventType == EventTypeHoliday:
		if containsAny(t, publicHolidays) {
			return CategoryHoliday, true
		}
		return "", false
	case strings.Contains(t, "prüfungsanmeldung"):
		return "", false
	case courseCode.MatchString(t), containsAny(t, studyWords):
		return CategoryStudy, true
	case containsAny(t, trainingWords):
		return CategoryTraining, true
	case containsAny(t, healthWords):
		return CategoryHealth, true
	case containsAny(t, travelWords):
		return CategoryTravel, true
	case strings.EqualFold(fileName, "reminders.ics"):
		return CategoryReminder, true
	}
	return "", false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
