// Package humanize formats event times the way they are shown to people.
// Go layouts always use English names, whatever the host locale.
package humanize

import (
	"strconv"
	"time"
)

// Date formats t as "Friday, March 1st".
func Date(t time.Time) string {
	return t.Format("Monday, January ") + Ordinal(t.Day())
}

// Time formats t as "7:05 PM".
func Time(t time.Time) string {
	return t.Format("3:04 PM")
}

// DateTime joins Date and Time: "Friday, March 1st 7:05 PM".
func DateTime(t time.Time) string {
	return Date(t) + " " + Time(t)
}

// Ordinal returns n followed by its English suffix: 1st, 2nd, 3rd, 4th, 11th.
func Ordinal(n int) string {
	return strconv.Itoa(n) + suffix(n)
}

func suffix(n int) string {
	if n < 0 {
		n = -n
	}
	switch n % 100 {
	case 11, 12, 13:
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
