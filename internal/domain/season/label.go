package season

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	slashPattern = regexp.MustCompile(`^(\d{2}|\d{4})\s*/\s*(\d{2}|\d{4})$`)
	dashPattern  = regexp.MustCompile(`^(\d{4})\s*-\s*(\d{2}|\d{4})$`)
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
)

// Two digit years below this pivot are read as 20YY, the rest as 19YY.
const twoDigitPivot = 70

// NormalizeSlashLabel turns "2019/20", "2019/2020" or "19/20" into "19/20".
func NormalizeSlashLabel(raw string) (string, bool) {
	m := slashPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	return lastTwo(m[1]) + "/" + lastTwo(m[2]), true
}

// ParseDashRange accepts "2019-2020" and "2019-20" and returns the start year.
func ParseDashRange(raw string) (start, end int, ok bool) {
	m := dashPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, 0, false
	}
	start, _ = strconv.Atoi(m[1])
	if len(m[2]) == 4 {
		end, _ = strconv.Atoi(m[2])
	} else {
		suffix, _ := strconv.Atoi(m[2])
		end = start/100*100 + suffix
		if end < start {
			end += 100
		}
	}
	return start, end, true
}

// ParseStartYear accepts a bare four digit year.
func ParseStartYear(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if !yearPattern.MatchString(trimmed) {
		return 0, false
	}
	year, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return year, true
}

// LabelFromStartYear formats the season that starts in year: 2019 -> "19/20".
func LabelFromStartYear(year int) string {
	return fmt.Sprintf("%02d/%02d", year%100, (year+1)%100)
}

// YearsFromLabel expands "19/20" into 2019 and 2020.
func YearsFromLabel(label string) (start, end int, ok bool) {
	normalized, ok := NormalizeSlashLabel(label)
	if !ok {
		return 0, 0, false
	}
	parts := strings.SplitN(normalized, "/", 2)
	startYY, _ := strconv.Atoi(parts[0])
	endYY, _ := strconv.Atoi(parts[1])

	start = expandTwoDigit(startYY)
	end = start/100*100 + endYY
	if end < start {
		end += 100
	}
	return start, end, true
}

// FromLabel builds an unsaved Season from a label in slash, dash or bare year form.
func FromLabel(raw string) (Season, bool) {
	if label, ok := NormalizeSlashLabel(raw); ok {
		start, end, _ := YearsFromLabel(label)
		return Season{ExternalID: strconv.Itoa(start), Label: label, StartYear: start, EndYear: end}, true
	}
	if start, end, ok := ParseDashRange(raw); ok {
		return Season{ExternalID: strconv.Itoa(start), Label: fmt.Sprintf("%02d/%02d", start%100, end%100), StartYear: start, EndYear: end}, true
	}
	if start, ok := ParseStartYear(raw); ok {
		return FromStartYear(start), true
	}
	return Season{}, false
}

// FromStartYear builds an unsaved Season for the provider season id (start year).
func FromStartYear(year int) Season {
	return Season{
		ExternalID: strconv.Itoa(year),
		Label:      LabelFromStartYear(year),
		StartYear:  year,
		EndYear:    year + 1,
	}
}

// StartsIn is true when the season starts in year or its start year is unknown.
func (s Season) StartsIn(year int) bool {
	return s.StartYear == 0 || s.StartYear == year
}

func expandTwoDigit(yy int) int {
	if yy < twoDigitPivot {
		return 2000 + yy
	}
	return 1900 + yy
}

func lastTwo(digits string) string {
	return digits[len(digits)-2:]
}
