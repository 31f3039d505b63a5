package api

import (
	"encoding/json"
	"strings"
	"time"
)

// --- WorldsEdge wire types ---

type worldsEdgeResponse struct {
	Result struct {
		Code int `json:"code"`
	} `json:"result"`
	StatGroups       []statGroup        `json:"statGroups"`
	LeaderboardStats []leaderboardStats `json:"leaderboardStats"`
}

type statGroup struct {
	ID      int      `json:"id"`
	Members []member `json:"members"`
}

type member struct {
	ProfileID        int    `json:"profile_id"`
	Alias            string `json:"alias"`
	Country          string `json:"country"`
	PersonalStatsgID int    `json:"personal_statgroup_id"`
}

type leaderboardStats struct {
	StatGroupID   int   `json:"statgroup_id"`
	LeaderboardID int   `json:"leaderboard_id"`
	Rating        int   `json:"rating"`
	Rank          int   `json:"rank"`
	Wins          int   `json:"wins"`
	Losses        int   `json:"losses"`
	Streak        int   `json:"streak"`
	HighestRating int   `json:"highestrating"`
	HighestRank   int   `json:"highestrank"`
	LastMatchDate int64 `json:"lastmatchdate"`
}

// candidate pairs a profile with its solo leaderboard entry, when present.
type candidate struct {
	member member
	stats  *leaderboardStats
}

func (c candidate) activity() int {
	if c.stats == nil {
		return 0
	}
	return c.stats.Wins + c.stats.Losses
}

// candidates pairs every member with its ranked-solo stats. With exactOnly
// set, only members whose alias matches the search name survive.
func (r *worldsEdgeResponse) candidates(name string, exactOnly bool) []candidate {
	var out []candidate
	for _, sg := range r.StatGroups {
		for _, m := range sg.Members {
			if exactOnly && !strings.EqualFold(m.Alias, name) {
				continue
			}
			sgid := m.PersonalStatsgID
			if sgid == 0 {
				sgid = sg.ID
			}
			var lb *leaderboardStats
			for i := range r.LeaderboardStats {
				ls := &r.LeaderboardStats[i]
				if ls.StatGroupID == sgid && ls.LeaderboardID == RankedSolo {
					lb = ls
					break
				}
			}
			out = append(out, candidate{member: m, stats: lb})
		}
	}
	return out
}

// --- aoe2companion wire types ---

type companionMatchesResponse struct {
	Matches []companionMatch `json:"matches"`
}

type companionMatch struct {
	MatchID         json.Number     `json:"matchId"`
	Name            string          `json:"name"`
	MapName         string          `json:"mapName"`
	LeaderboardName string          `json:"leaderboardName"`
	Started         flexTime        `json:"started"`
	Finished        flexTime        `json:"finished"`
	Teams           []companionTeam `json:"teams"`
}

type companionTeam struct {
	Players []companionPlayer `json:"players"`
}

type companionPlayer struct {
	ProfileID  int    `json:"profileId"`
	CivName    string `json:"civName"`
	Team       int    `json:"team"`
	Won        bool   `json:"won"`
	Rating     int    `json:"rating"`
	RatingDiff int    `json:"ratingDiff"`
}

func (m companionMatch) toRemoteMatch() RemoteMatch {
	started := int64(m.Started)
	finished := int64(m.Finished)
	var duration int64
	if started > 0 && finished > started {
		duration = finished - started
	}

	out := RemoteMatch{
		MatchID:      m.MatchID.String(),
		Map:          m.MapName,
		StartTime:    started,
		DurationSecs: duration,
		Leaderboard:  m.LeaderboardName,
		Description:  m.Name,
	}
	if out.Map == "" {
		out.Map = "Unknown"
	}
	if out.Description == "" {
		out.Description = "AUTOMATCH"
	}
	for _, team := range m.Teams {
		for _, p := range team.Players {
			out.Players = append(out.Players, RemotePlayer{
				ProfileID: p.ProfileID,
				CivName:   nonEmpty(p.CivName, "Unknown"),
				Team:      p.Team,
				Won:       p.Won,
				OldRating: p.Rating - p.RatingDiff,
				NewRating: p.Rating,
			})
		}
	}
	return out
}

// flexTime accepts either a unix timestamp or an ISO 8601 string; the
// companion API has served both over time. Unparsable values decode as zero.
type flexTime int64

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = 0
		return nil
	}
	var unix int64
	if err := json.Unmarshal([]byte(s), &unix); err == nil {
		*t = flexTime(unix)
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		*t = 0
		return nil
	}
	*t = flexTime(parsed.Unix())
	return nil
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
