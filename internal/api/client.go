// Package api queries the remote AoE2 DE match-history services:
// aoe2companion for match history and WorldsEdge for player search and
// leaderboard standing. Responses are cached per client with a TTL and
// concurrent identical requests are collapsed.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/blzulian/agelytics/internal/logging"
	"github.com/blzulian/agelytics/internal/model"
)

// PlayerProfile is a player found via WorldsEdge search.
type PlayerProfile struct {
	ProfileID     int
	Alias         string
	Country       string
	Rating        int
	Rank          int
	Wins          int
	Losses        int
	Streak        int
	HighestRating int
	LastMatchDate int64
}

// RemotePlayer is one participant of a remote match record.
type RemotePlayer struct {
	ProfileID int
	CivName   string
	Team      int
	Won       bool
	OldRating int
	NewRating int
}

// RemoteMatch is one already-aggregated match from aoe2companion. It enriches
// and cross-checks locally ingested matches; it is never simulation input.
type RemoteMatch struct {
	MatchID      string
	Map          string
	StartTime    int64
	DurationSecs int64
	Leaderboard  string
	Description  string
	Players      []RemotePlayer
}

// LeaderboardEntry is a player's current standing on one leaderboard.
type LeaderboardEntry struct {
	Rating        int
	Rank          int
	Wins          int
	Losses        int
	Streak        int
	HighestRating int
	HighestRank   int
	LastMatchDate int64
}

// RankedSolo is the 1v1 Random Map leaderboard.
const RankedSolo = 3

const historyPageSize = 20 // aoe2companion caps pages at 20 matches

// Client talks to both remote services.
type Client struct {
	cfg      model.APIConfig
	http     *http.Client
	cache    *responseCache
	group    singleflight.Group
	logger   *log.Logger
	logLevel logging.Level
}

func NewClient(cfg model.APIConfig, logger *log.Logger, level logging.Level) *Client {
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		cache:    newResponseCache(cfg.CacheSize, time.Duration(cfg.CacheTTLSec)*time.Second),
		logger:   logger,
		logLevel: level,
	}
}

// ClearCache drops all cached responses.
func (c *Client) ClearCache() {
	c.cache.clear()
}

// SearchPlayer finds a player by name via WorldsEdge. When several profiles
// share the alias, the most active one wins. Exact alias matches are
// preferred; if none exist, any returned profile is considered.
func (c *Client) SearchPlayer(ctx context.Context, name string) (*PlayerProfile, error) {
	key := "search:" + strings.ToLower(name)
	if v, ok := c.cache.get(key); ok {
		return v.(*PlayerProfile), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		var resp worldsEdgeResponse
		if err := c.getWorldsEdge(ctx, "GetPersonalStat", url.Values{"search": {name}}, &resp); err != nil {
			return nil, err
		}

		candidates := resp.candidates(name, true)
		if len(candidates) == 0 {
			candidates = resp.candidates(name, false)
		}
		if len(candidates) == 0 {
			return nil, fmt.Errorf("no profile found for %q", name)
		}

		best := candidates[0]
		for _, cand := range candidates[1:] {
			if cand.activity() > best.activity() {
				best = cand
			}
		}

		p := &PlayerProfile{ProfileID: best.member.ProfileID, Alias: best.member.Alias, Country: best.member.Country}
		if p.Alias == "" {
			p.Alias = name
		}
		if lb := best.stats; lb != nil {
			p.Rating = lb.Rating
			p.Rank = lb.Rank
			p.Wins = lb.Wins
			p.Losses = lb.Losses
			p.Streak = lb.Streak
			p.HighestRating = lb.HighestRating
			p.LastMatchDate = lb.LastMatchDate
		}
		c.cache.set(key, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*PlayerProfile), nil
}

// MatchHistory fetches up to count matches for a profile via aoe2companion,
// paginating until the service runs dry.
func (c *Client) MatchHistory(ctx context.Context, profileID, count int) ([]RemoteMatch, error) {
	key := fmt.Sprintf("history:%d:%d", profileID, count)
	if v, ok := c.cache.get(key); ok {
		return v.([]RemoteMatch), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		var all []RemoteMatch
		maxPages := (count + historyPageSize - 1) / historyPageSize
		for page := 1; page <= maxPages; page++ {
			var resp companionMatchesResponse
			err := c.getCompanion(ctx, "matches", url.Values{
				"profile_ids": {strconv.Itoa(profileID)},
				"count":       {strconv.Itoa(historyPageSize)},
				"page":        {strconv.Itoa(page)},
			}, &resp)
			if err != nil {
				if page == 1 {
					return nil, err
				}
				c.log(logging.LevelWarn, "match_history page=%d profile=%d error=%v", page, profileID, err)
				break
			}
			if len(resp.Matches) == 0 {
				break
			}
			for _, m := range resp.Matches {
				all = append(all, m.toRemoteMatch())
			}
			if len(resp.Matches) < historyPageSize {
				break
			}
		}
		if len(all) == 0 {
			return nil, fmt.Errorf("no match history for profile %d", profileID)
		}
		c.cache.set(key, all)
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]RemoteMatch), nil
}

// LeaderboardEntry fetches a profile's current standing on one leaderboard.
func (c *Client) LeaderboardEntry(ctx context.Context, profileID, leaderboardID int) (*LeaderboardEntry, error) {
	key := fmt.Sprintf("lb:%d:%d", profileID, leaderboardID)
	if v, ok := c.cache.get(key); ok {
		return v.(*LeaderboardEntry), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		var resp worldsEdgeResponse
		params := url.Values{"profile_ids": {fmt.Sprintf("[%d]", profileID)}}
		if err := c.getWorldsEdge(ctx, "GetPersonalStat", params, &resp); err != nil {
			return nil, err
		}
		for _, ls := range resp.LeaderboardStats {
			if ls.LeaderboardID == leaderboardID {
				e := &LeaderboardEntry{
					Rating:        ls.Rating,
					Rank:          ls.Rank,
					Wins:          ls.Wins,
					Losses:        ls.Losses,
					Streak:        ls.Streak,
					HighestRating: ls.HighestRating,
					HighestRank:   ls.HighestRank,
					LastMatchDate: ls.LastMatchDate,
				}
				c.cache.set(key, e)
				return e, nil
			}
		}
		return nil, fmt.Errorf("profile %d not on leaderboard %d", profileID, leaderboardID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*LeaderboardEntry), nil
}

func (c *Client) getCompanion(ctx context.Context, endpoint string, params url.Values, out any) error {
	return c.getJSON(ctx, fmt.Sprintf("%s/%s", c.cfg.CompanionURL, endpoint), params, out)
}

func (c *Client) getWorldsEdge(ctx context.Context, endpoint string, params url.Values, out *worldsEdgeResponse) error {
	params.Set("title", "age2")
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s", c.cfg.WorldsEdgeURL, endpoint), params, out); err != nil {
		return err
	}
	if out.Result.Code != 0 {
		return fmt.Errorf("worldsedge result code %d", out.Result.Code)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	c.log(logging.LevelDebug, "GET %s", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("get %s: status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) log(level logging.Level, format string, args ...any) {
	if level < c.logLevel || c.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	c.logger.Printf("%s %s api: %s", time.Now().Format(time.RFC3339), level, msg)
}
