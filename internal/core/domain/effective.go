package domain

import (
	"regexp"
	"strings"
	"time"
)

// effectivePattern matches "effective <day> [to <day>] <month> <year>".
// Only the start day takes part in the gate; the range end is discarded.
var effectivePattern = regexp.MustCompile(`^.* effective (\d{1,2})(?: to \d{1,2})?( \w+ \d{4})`)

// ParseEffectiveDate extracts the effective date from a document display name.
// The returned time is midnight UTC of the start day. The boolean is false when
// the name carries no effective date or the date does not parse.
func ParseEffectiveDate(name string) (time.Time, bool) {
	m := effectivePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}

	fields := strings.Fields(m[1] + m[2])
	if len(fields) != 3 {
		return time.Time{}, false
	}

	// Month names are matched case-insensitively.
	month := strings.ToLower(fields[1])
	if month == "" {
		return time.Time{}, false
	}
	month = strings.ToUpper(month[:1]) + month[1:]

	t, err := time.Parse("2 January 2006", fields[0]+" "+month+" "+fields[2])
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
