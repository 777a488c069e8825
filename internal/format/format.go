// Package format turns stored timestamps and author names into the
// strings the board displays.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/arduinolearn/commentboard/internal/comment"
)

// UnknownDate is shown when a creation time is missing or undecodable.
const UnknownDate = "some time ago"

// InitialsPlaceholder is shown when a name yields no initials.
const InitialsPlaceholder = "??"

// privilegedEmails is the cosmetic badge allow-list. It confers no
// authority; the store's own rules decide what is actually allowed.
var privilegedEmails = []string{
	"admin@arduinolearn.com",
	"nagevajeanmickael@gmail.com",
}

// RelativeTime renders t relative to now: "just now" under a minute,
// then minutes, hours, and days, and an absolute date past a week.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return UnknownDate
	}

	diff := now.Sub(t)
	mins := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%d %s ago", mins, plural(mins, "minute"))
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	case days < 7:
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}

	return t.Format("January 2, 2006 at 15:04")
}

// Initials builds an avatar label from a display name: the first rune of
// each whitespace-separated token, uppercased, at most two characters.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return InitialsPlaceholder
	}

	var initials []rune
	for _, f := range fields {
		first := []rune(f)[0]
		initials = append(initials, []rune(strings.ToUpper(string(first)))...)
		if len(initials) >= 2 {
			break
		}
	}
	if len(initials) > 2 {
		initials = initials[:2]
	}
	return string(initials)
}

// IsPrivileged reports whether an email is on the badge allow-list,
// case-insensitively.
func IsPrivileged(email string) bool {
	if email == "" {
		return false
	}
	normalized := comment.NormalizeEmail(email)
	for _, e := range privilegedEmails {
		if normalized == e {
			return true
		}
	}
	return false
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
