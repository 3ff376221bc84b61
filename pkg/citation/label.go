package citation

import (
	"fmt"
	"strings"
)

// FormatLabel builds the short display label for a source, e.g.
// "Ihde (2009), Postphenomenology". Authors are "Surname, Given; Surname, Given"
// and only the first listed surname is used. The year is the leading four
// characters of date when they are all digits.
func FormatLabel(authors, date, title string) string {
	surname := firstSurname(authors)
	year := leadingYear(date)
	title = strings.TrimSpace(title)

	var prefix string
	switch {
	case surname != "" && year != "":
		prefix = fmt.Sprintf("%s (%s)", surname, year)
	case surname != "":
		prefix = surname
	case year != "":
		prefix = fmt.Sprintf("(%s)", year)
	}

	switch {
	case prefix == "":
		return title
	case title == "":
		return prefix
	default:
		return prefix + ", " + title
	}
}

func firstSurname(authors string) string {
	authors = strings.TrimSpace(authors)
	if authors == "" {
		return ""
	}
	first := strings.TrimSpace(strings.Split(authors, ";")[0])
	if idx := strings.Index(first, ","); idx >= 0 {
		return strings.TrimSpace(first[:idx])
	}
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func leadingYear(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	year := date[:4]
	for _, c := range year {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return year
}
