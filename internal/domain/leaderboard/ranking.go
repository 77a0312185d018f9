package leaderboard

import "sort"

// Target is the score every pick aims for without going over.
const Target = 30

type Outcome string

const (
	OutcomePending Outcome = "PENDING"
	OutcomeBust    Outcome = "BUST"
	OutcomeValid   Outcome = "VALID"
)

// Entry is one user's derived score line. Total is nil until both slots have points.
type Entry struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	P1Name   string `json:"p1Name"`
	P1Points *int   `json:"p1Points"`
	P2Name   string `json:"p2Name"`
	P2Points *int   `json:"p2Points"`
	Total    *int   `json:"total"`
}

func NewEntry(userID, userName, p1Name string, p1Points *int, p2Name string, p2Points *int) Entry {
	e := Entry{
		UserID:   userID,
		UserName: userName,
		P1Name:   p1Name,
		P1Points: p1Points,
		P2Name:   p2Name,
		P2Points: p2Points,
	}
	if p1Points != nil && p2Points != nil {
		total := *p1Points + *p2Points
		e.Total = &total
	}
	return e
}

func Classify(total *int) Outcome {
	switch {
	case total == nil:
		return OutcomePending
	case *total > Target:
		return OutcomeBust
	default:
		return OutcomeValid
	}
}

// Standing is an entry placed in the ordering.
type Standing struct {
	Entry
	Outcome Outcome `json:"outcome"`
	Perfect bool    `json:"perfect"`
	// Position is the 1-based place in the list.
	Position int `json:"position"`
	// Rank is the competition rank among VALID entries; 0 for BUST and PENDING.
	Rank int `json:"rank"`
	// Distance is Target minus total for VALID entries.
	Distance *int `json:"distance"`
}

// Rank orders entries: VALID closest-to-target first, then BUST, then PENDING.
// Ties keep input order and share a rank.
func Rank(entries []Entry) []Standing {
	valid := make([]Standing, 0, len(entries))
	busts := make([]Standing, 0)
	pending := make([]Standing, 0)

	for _, entry := range entries {
		s := Standing{Entry: entry, Outcome: Classify(entry.Total)}
		switch s.Outcome {
		case OutcomeValid:
			d := Target - *entry.Total
			s.Distance = &d
			s.Perfect = d == 0
			valid = append(valid, s)
		case OutcomeBust:
			busts = append(busts, s)
		default:
			pending = append(pending, s)
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return *valid[i].Distance < *valid[j].Distance
	})
	for i := range valid {
		if i > 0 && *valid[i].Distance == *valid[i-1].Distance {
			valid[i].Rank = valid[i-1].Rank
			continue
		}
		valid[i].Rank = i + 1
	}

	out := make([]Standing, 0, len(entries))
	out = append(out, valid...)
	out = append(out, busts...)
	out = append(out, pending...)
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

type Results struct {
	Standings []Standing `json:"standings"`
	Winner    *Standing  `json:"winner"`
}

// FinalResults ranks only entries with a total and picks the best VALID one as winner.
func FinalResults(entries []Entry) Results {
	finished := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Total != nil {
			finished = append(finished, entry)
		}
	}

	standings := Rank(finished)
	res := Results{Standings: standings}
	for i := range standings {
		if standings[i].Outcome == OutcomeValid {
			winner := standings[i]
			res.Winner = &winner
			break
		}
	}
	return res
}
