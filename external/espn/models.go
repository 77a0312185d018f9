package espn

import (
	"bytes"

	sonic "github.com/bytedance/sonic"
)

type scoreboardEnvelope struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Name         string        `json:"name"`
	Competitions []competition `json:"competitions"`
}

type competition struct {
	Status      competitionStatus `json:"status"`
	Competitors []competitor      `json:"competitors"`
}

type competitionStatus struct {
	Type struct {
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"type"`
	DisplayClock string `json:"displayClock"`
	Period       int    `json:"period"`
}

type competitor struct {
	Team  teamRef     `json:"team"`
	Score flexibleInt `json:"score"`
}

type teamRef struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	Logo         string `json:"logo"`
}

type rosterEnvelope struct {
	Athletes []rosterEntry `json:"athletes"`
}

// rosterEntry is either an athlete or, for grouped rosters, a position bucket with items.
type rosterEntry struct {
	athleteRef
	Items []athleteRef `json:"items"`
}

type athleteRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FullName    string `json:"fullName"`
	ShortName   string `json:"shortName"`
	Jersey      string `json:"jersey"`
	Headshot    struct {
		Href string `json:"href"`
	} `json:"headshot"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Team struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

type athleteStatsEnvelope struct {
	Athletes []athleteStatsEntry `json:"athletes"`
}

type athleteStatsEntry struct {
	Athlete    athleteRef           `json:"athlete"`
	Statistics oneOrMany[statBlock] `json:"statistics"`
}

type statBlock struct {
	Splits struct {
		Categories []statCategory `json:"categories"`
	} `json:"splits"`
}

type statCategory struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Stats       []statItem `json:"stats"`
}

type statItem struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	DisplayValue string `json:"displayValue"`
}

type summaryEnvelope struct {
	Header struct {
		Competitions []competition `json:"competitions"`
	} `json:"header"`
	Boxscore struct {
		Players []boxscoreTeam `json:"players"`
	} `json:"boxscore"`
}

type boxscoreTeam struct {
	Team       teamRef         `json:"team"`
	Statistics []boxscoreGroup `json:"statistics"`
}

// boxscoreGroup keeps Keys as a pointer so an absent list can be told apart from an empty one.
type boxscoreGroup struct {
	Keys     *[]string         `json:"keys"`
	Athletes []boxscoreAthlete `json:"athletes"`
}

type boxscoreAthlete struct {
	Athlete athleteRef `json:"athlete"`
	Stats   []string   `json:"stats"`
	Active  *bool      `json:"active"`
	Starter bool       `json:"starter"`
}

// oneOrMany accepts a JSON object or an array of objects.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*o = items
		return nil
	}
	var item T
	if err := sonic.Unmarshal(trimmed, &item); err != nil {
		return err
	}
	*o = []T{item}
	return nil
}

// flexibleInt accepts "71", 71 or null. Anything else decodes as absent.
type flexibleInt struct {
	Value int
	Valid bool
}

func (f *flexibleInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = flexibleInt{}
		return nil
	}
	if v, ok := parseLeadingInt(string(trimmed)); ok {
		*f = flexibleInt{Value: v, Valid: true}
		return nil
	}
	*f = flexibleInt{}
	return nil
}
