package transfermarkt

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// envelope accepts every list shape the catalogue returns: results, clubs,
// players, jerseyNumbers, data, or a bare array.
type envelope[T any] struct {
	Items []T
}

func (e *envelope[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		e.Items = nil
		return nil
	}

	if trimmed[0] == '[' {
		return sonic.Unmarshal(trimmed, &e.Items)
	}

	var wrapped struct {
		Results       []T `json:"results"`
		Clubs         []T `json:"clubs"`
		Players       []T `json:"players"`
		JerseyNumbers []T `json:"jerseyNumbers"`
		Data          []T `json:"data"`
	}
	if err := sonic.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}

	for _, candidate := range [][]T{wrapped.Results, wrapped.Clubs, wrapped.Players, wrapped.JerseyNumbers, wrapped.Data} {
		if len(candidate) > 0 {
			e.Items = candidate
			return nil
		}
	}
	e.Items = nil
	return nil
}

// flexString decodes ids sent either as strings or numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var raw string
		if err := sonic.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(raw))
		return nil
	}
	*s = flexString(string(trimmed))
	return nil
}

// flexInt decodes numbers sent as numbers or numeric strings; anything else is zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "-" {
		*n = 0
		return nil
	}
	if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
		*n = flexInt(parsed)
		return nil
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		*n = flexInt(int64(parsed))
		return nil
	}
	*n = 0
	return nil
}

// stringList decodes a single string or an array of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '[' {
		var items []string
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var single string
	if err := sonic.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*l = []string{single}
	return nil
}

func (l stringList) first() string {
	for _, item := range l {
		if v := strings.TrimSpace(item); v != "" {
			return v
		}
	}
	return ""
}

func (l stringList) at(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return strings.TrimSpace(l[i])
}

type competitionItem struct {
	ID               flexString `json:"id"`
	Name             string     `json:"name"`
	Country          string     `json:"country"`
	CountryCode      string     `json:"countryCode"`
	Clubs            flexInt    `json:"clubs"`
	Players          flexInt    `json:"players"`
	TotalMarketValue flexInt    `json:"totalMarketValue"`
}

type clubItem struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
}

type playerItem struct {
	ID          flexString `json:"id"`
	Name        string     `json:"name"`
	Position    string     `json:"position"`
	Nationality stringList `json:"nationality"`
	ShirtNumber flexInt    `json:"shirtNumber"`
}

type jerseyNumberItem struct {
	Season       flexString `json:"season"`
	Club         flexString `json:"club"`
	JerseyNumber flexInt    `json:"jerseyNumber"`
}

type clubProfile struct {
	ID           flexString `json:"id"`
	Name         string     `json:"name"`
	OfficialName string     `json:"officialName"`
	Image        string     `json:"image"`
	CountryCode  string     `json:"countryCode"`
	Colors       stringList `json:"colors"`
}
