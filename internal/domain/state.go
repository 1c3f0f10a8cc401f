package domain

import "sort"

// State is the progress of a game as seen by one participant.
// It is one of Lobby, InProgress or Ended.
type State interface {
	Name() string
	isState()
}

// Lobby means no session is attached.
type Lobby struct{}

// InProgress carries the active round.
type InProgress struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Question Question `json:"question"`
	Roster   []Player `json:"roster"`
}

// Ended carries the final ranking.
type Ended struct {
	Roster  []Player `json:"roster"`
	Winners []Player `json:"winners"`
}

func (Lobby) Name() string      { return "lobby" }
func (InProgress) Name() string { return "inProgress" }
func (Ended) Name() string      { return "ended" }

func (Lobby) isState()      {}
func (InProgress) isState() {}
func (Ended) isState()      {}

// State projects the document onto the tagged state. A session whose cursor
// points past the question list without the ended flag is reported as Ended
// so the function stays total.
func (s Session) State() State {
	roster := Rank(s.Players)
	q, ok := s.CurrentQuestion()
	if !ok {
		return Ended{Roster: roster, Winners: Winners(s.Players)}
	}
	return InProgress{
		Index:    s.CurrentQuestionIndex,
		Total:    len(s.Questions),
		Question: q,
		Roster:   roster,
	}
}

// Rank orders players by descending score; ties keep join order.
func Rank(players []Player) []Player {
	ranked := append([]Player{}, players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Winners returns every player sharing the top score, in join order.
func Winners(players []Player) []Player {
	if len(players) == 0 {
		return nil
	}
	best := players[0].Score
	for _, p := range players[1:] {
		if p.Score > best {
			best = p.Score
		}
	}
	var winners []Player
	for _, p := range players {
		if p.Score == best {
			winners = append(winners, p)
		}
	}
	return winners
}

// RankOf returns the 1-based position of id in the ranking, or 0.
func RankOf(players []Player, id string) int {
	for i, p := range Rank(players) {
		if p.ID == id {
			return i + 1
		}
	}
	return 0
}
