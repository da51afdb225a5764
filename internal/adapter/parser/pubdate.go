package parser

import (
	"regexp"
	"strings"
	"time"
)

// Именованные зоны, допустимые в RFC 2822 (раздел 4.3).
var rfc2822Zones = map[string]string{
	"UT": "+0000", "GMT": "+0000", "Z": "+0000",
	"EST": "-0500", "EDT": "-0400",
	"CST": "-0600", "CDT": "-0500",
	"MST": "-0700", "MDT": "-0600",
	"PST": "-0800", "PDT": "-0700",
}

// Полные названия дней и месяцев сокращаются до трех букв перед разбором.
var longNames = map[string]string{
	"monday": "Mon", "tuesday": "Tue", "wednesday": "Wed", "thursday": "Thu",
	"friday": "Fri", "saturday": "Sat", "sunday": "Sun",
	"january": "Jan", "february": "Feb", "march": "Mar", "april": "Apr",
	"june": "Jun", "july": "Jul", "august": "Aug", "september": "Sep",
	"october": "Oct", "november": "Nov", "december": "Dec",
}

var colonOffset = regexp.MustCompile(`^([+-]\d{2}):(\d{2})$`)

var rfc2822Layouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04 -0700",
	"2 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 06 15:04:05 -0700",
	"2 Jan 06 15:04:05 -0700",
}

// ParsePubDate разбирает дату в стиле RFC 2822. Результат всегда находится в
// фиксированной зоне с исходным смещением; дата без зоны считается UTC (-0000).
// Допускаются полные названия дней и месяцев и смещение вида +02:00.
// ok равен false, если формат не распознан.
func ParsePubDate(raw string) (time.Time, bool) {
	fields := strings.Fields(raw)
	if n := len(fields); n > 0 && strings.HasPrefix(fields[n-1], "(") {
		fields = fields[:n-1]
	}
	for i, f := range fields {
		word := strings.TrimSuffix(f, ",")
		if short, ok := longNames[strings.ToLower(word)]; ok {
			fields[i] = short + f[len(word):]
		}
	}
	if n := len(fields); n > 0 {
		last := fields[n-1]
		if numeric, ok := rfc2822Zones[strings.ToUpper(last)]; ok {
			fields[n-1] = numeric
		} else if m := colonOffset.FindStringSubmatch(last); m != nil {
			fields[n-1] = m[1] + m[2]
		} else if strings.Contains(last, ":") && last[0] >= '0' && last[0] <= '9' {
			fields = append(fields, "-0000")
		}
	}
	value := strings.Join(fields, " ")
	for _, layout := range rfc2822Layouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		_, offset := t.Zone()
		return t.In(time.FixedZone("", offset)), true
	}
	return time.Time{}, false
}
