package espn

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/domain/game"
	"github.com/riskibarqy/dirty-thirty/internal/domain/player"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

// DefaultPointsIndex is the PTS column in the provider's basketball box score
// (MIN, FG, 3PT, FT, OREB, DREB, REB, AST, STL, BLK, TO, PF, +/-, PTS).
// It applies only when a stat group carries no keys list.
const DefaultPointsIndex = 13

const pointsKey = "PTS"

var leadingIntRegex = regexp.MustCompile(`^[+-]?\d+`)
var leadingFloatRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

var startTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z",
}

// parseLeadingInt reads the integer prefix of raw, so "5-10" is 5 and "--" fails.
func parseLeadingInt(raw string) (int, bool) {
	match := leadingIntRegex.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, false
	}
	v, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parsePoints treats anything unparseable (DNP rows show "--") as zero.
func parsePoints(raw string) int {
	v, _ := parseLeadingInt(raw)
	return v
}

// parseAverage returns nil when raw has no numeric prefix.
func parseAverage(raw string) *float64 {
	match := leadingFloatRegex.FindString(strings.TrimSpace(raw))
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}

// pointsIndex resolves the PTS column of one stat group.
// ok is false when keys are present but PTS is not among them.
func pointsIndex(keys *[]string) (int, bool) {
	if keys == nil {
		return DefaultPointsIndex, true
	}
	for i, key := range *keys {
		if strings.EqualFold(strings.TrimSpace(key), pointsKey) {
			return i, true
		}
	}
	return -1, false
}

func parseStartTime(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range startTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func isAverageStat(item statItem) bool {
	return item.Name == "avgPoints" || item.Abbreviation == pointsKey || item.DisplayName == "PPG"
}

// findAverage prefers the scoring category, then falls back to any category carrying a points-per-game stat.
func findAverage(blocks []statBlock) (*float64, bool) {
	for _, block := range blocks {
		for _, category := range block.Splits.Categories {
			if category.Name != "scoring" && category.DisplayName != "Scoring" {
				continue
			}
			for _, item := range category.Stats {
				if isAverageStat(item) {
					return parseAverage(item.DisplayValue), true
				}
			}
		}
	}
	for _, block := range blocks {
		for _, category := range block.Splits.Categories {
			for _, item := range category.Stats {
				if isAverageStat(item) {
					return parseAverage(item.DisplayValue), true
				}
			}
		}
	}
	return nil, false
}

func toGames(envelope scoreboardEnvelope) []game.Game {
	out := make([]game.Game, 0, len(envelope.Events))
	for _, event := range envelope.Events {
		id := strings.TrimSpace(event.ID)
		if id == "" {
			continue
		}
		item := game.Game{
			ID:             id,
			Name:           strings.TrimSpace(event.Name),
			ScheduledStart: parseStartTime(event.Date),
			Teams:          []game.Team{},
		}
		if len(event.Competitions) > 0 {
			comp := event.Competitions[0]
			item.StatusName = strings.TrimSpace(comp.Status.Type.Name)
			item.StatusDetail = strings.TrimSpace(comp.Status.Type.Detail)
			item.ClockDisplay = strings.TrimSpace(comp.Status.DisplayClock)
			item.Period = comp.Status.Period
			for _, c := range comp.Competitors {
				teamID := strings.TrimSpace(c.Team.ID)
				if teamID == "" {
					continue
				}
				team := game.Team{
					ID:           teamID,
					Abbreviation: strings.TrimSpace(c.Team.Abbreviation),
					DisplayName:  strings.TrimSpace(c.Team.DisplayName),
					LogoURL:      strings.TrimSpace(c.Team.Logo),
				}
				if c.Score.Valid {
					score := c.Score.Value
					team.LiveScore = &score
				}
				item.Teams = append(item.Teams, team)
			}
		}
		item.Status = game.NormalizeStatus(item.StatusName)
		out = append(out, item)
	}
	return out
}

func toAthlete(ref athleteRef) (usecase.ExternalAthlete, bool) {
	id := strings.TrimSpace(ref.ID)
	if id == "" {
		return usecase.ExternalAthlete{}, false
	}
	name := strings.TrimSpace(ref.DisplayName)
	if name == "" {
		name = strings.TrimSpace(ref.FullName)
	}
	position := strings.TrimSpace(ref.Position.Abbreviation)
	if position == "" {
		position = player.DefaultPosition
	}
	headshot := strings.TrimSpace(ref.Headshot.Href)
	if headshot == "" {
		headshot = player.DefaultHeadshotURL(id)
	}
	return usecase.ExternalAthlete{
		ID:           id,
		DisplayName:  name,
		ShortName:    strings.TrimSpace(ref.ShortName),
		HeadshotURL:  headshot,
		Position:     position,
		JerseyNumber: strings.TrimSpace(ref.Jersey),
	}, true
}

func toAthletes(envelope rosterEnvelope) []usecase.ExternalAthlete {
	out := make([]usecase.ExternalAthlete, 0, len(envelope.Athletes))
	seen := make(map[string]struct{}, len(envelope.Athletes))
	appendAthlete := func(ref athleteRef) {
		athlete, ok := toAthlete(ref)
		if !ok {
			return
		}
		if _, dup := seen[athlete.ID]; dup {
			return
		}
		seen[athlete.ID] = struct{}{}
		out = append(out, athlete)
	}

	for _, entry := range envelope.Athletes {
		if len(entry.Items) > 0 {
			for _, item := range entry.Items {
				appendAthlete(item)
			}
			continue
		}
		appendAthlete(entry.athleteRef)
	}
	return out
}

func toSeasonAverages(envelope athleteStatsEnvelope) usecase.ExternalSeasonAverages {
	out := make(usecase.ExternalSeasonAverages, len(envelope.Athletes))
	for _, entry := range envelope.Athletes {
		id := strings.TrimSpace(entry.Athlete.ID)
		if id == "" {
			continue
		}
		avg, _ := findAverage(entry.Statistics)
		out[id] = avg
	}
	return out
}

func toScoringLeaders(envelope athleteStatsEnvelope) []usecase.ExternalScoringLeader {
	out := make([]usecase.ExternalScoringLeader, 0, len(envelope.Athletes))
	for _, entry := range envelope.Athletes {
		id := strings.TrimSpace(entry.Athlete.ID)
		if id == "" {
			continue
		}
		avg, found := findAverage(entry.Statistics)
		if !found || avg == nil {
			continue
		}
		out = append(out, usecase.ExternalScoringLeader{
			AthleteID:        id,
			DisplayName:      strings.TrimSpace(entry.Athlete.DisplayName),
			TeamAbbreviation: strings.TrimSpace(entry.Athlete.Team.Abbreviation),
			AvgPoints:        *avg,
		})
	}
	return out
}

func toBoxScore(gameID string, envelope summaryEnvelope) game.BoxScore {
	box := game.BoxScore{
		GameID:     gameID,
		TeamScores: make(map[string]int),
		Points:     make(map[string]int),
	}

	if len(envelope.Header.Competitions) > 0 {
		comp := envelope.Header.Competitions[0]
		box.StatusName = strings.TrimSpace(comp.Status.Type.Name)
		box.Clock = strings.TrimSpace(comp.Status.DisplayClock)
		box.Period = comp.Status.Period
		for _, c := range comp.Competitors {
			teamID := strings.TrimSpace(c.Team.ID)
			if teamID != "" && c.Score.Valid {
				box.TeamScores[teamID] = c.Score.Value
			}
		}
	}

	for _, team := range envelope.Boxscore.Players {
		teamAbbr := strings.TrimSpace(team.Team.Abbreviation)
		for _, group := range team.Statistics {
			idx, hasPoints := pointsIndex(group.Keys)
			var keys []string
			if group.Keys != nil {
				keys = *group.Keys
			}
			for _, row := range group.Athletes {
				athleteID := strings.TrimSpace(row.Athlete.ID)
				if athleteID == "" {
					continue
				}

				points := 0
				if hasPoints && idx < len(row.Stats) {
					points = parsePoints(row.Stats[idx])
				}
				if hasPoints {
					box.Points[athleteID] = points
				}

				box.Lines = append(box.Lines, game.PlayerLine{
					AthleteID:        athleteID,
					DisplayName:      strings.TrimSpace(row.Athlete.DisplayName),
					ShortName:        strings.TrimSpace(row.Athlete.ShortName),
					HeadshotURL:      strings.TrimSpace(row.Athlete.Headshot.Href),
					Position:         strings.TrimSpace(row.Athlete.Position.Abbreviation),
					TeamAbbreviation: teamAbbr,
					Points:           points,
					Starter:          row.Starter,
					Active:           row.Active == nil || *row.Active,
					StatKeys:         keys,
					Stats:            row.Stats,
				})
			}
		}
	}

	return box
}
