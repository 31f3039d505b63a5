package decode

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONDecoder reads replay data extracted to JSON by an external parsing
// tool. Given a replay path it looks for a ".json" sidecar next to the
// recording; a ".json" path is read directly.
type JSONDecoder struct{}

func NewJSONDecoder() *JSONDecoder {
	return &JSONDecoder{}
}

type jsonCommand struct {
	Player        string         `json:"player"`
	TimestampSecs float64        `json:"timestamp_secs"`
	Type          string         `json:"type"`
	Payload       map[string]any `json:"payload"`
}

type jsonPlayer struct {
	Name          string `json:"name"`
	Number        int    `json:"number"`
	Civilization  int    `json:"civilization"`
	ColorID       int    `json:"color_id"`
	Winner        bool   `json:"winner"`
	Human         bool   `json:"human"`
	UserID        *int   `json:"user_id"`
	Elo           *int   `json:"elo"`
	Eapm          *int   `json:"eapm"`
	ResourceScore *int   `json:"resource_score"`
}

type jsonMatch struct {
	FileHash   string        `json:"file_hash"`
	PlayedAt   string        `json:"played_at"`
	DurationMs int64         `json:"duration_ms"`
	MapName    string        `json:"map_name"`
	MapID      int           `json:"map_id"`
	GameType   string        `json:"game_type"`
	Diplomacy  string        `json:"diplomacy"`
	Speed      string        `json:"speed"`
	PopLimit   int           `json:"pop_limit"`
	Completed  bool          `json:"completed"`
	Version    string        `json:"version"`
	Players    []jsonPlayer  `json:"players"`
	Commands   []jsonCommand `json:"commands"`
	AgeLines   []string      `json:"age_lines"`
}

// Decode reads the JSON dump for a replay and maps it onto the RawMatch
// contract.
func (d *JSONDecoder) Decode(path string) (*RawMatch, error) {
	jsonPath := path
	if len(path) < 5 || path[len(path)-5:] != ".json" {
		jsonPath = path + ".json"
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read command dump: %w", err)
	}

	var jm jsonMatch
	if err := json.Unmarshal(data, &jm); err != nil {
		return nil, fmt.Errorf("parse command dump: %w", err)
	}

	raw := &RawMatch{
		FilePath:   path,
		FileHash:   jm.FileHash,
		PlayedAt:   jm.PlayedAt,
		DurationMs: jm.DurationMs,
		MapName:    jm.MapName,
		MapID:      jm.MapID,
		GameType:   jm.GameType,
		Diplomacy:  jm.Diplomacy,
		Speed:      jm.Speed,
		PopLimit:   jm.PopLimit,
		Completed:  jm.Completed,
		Version:    jm.Version,
		AgeLines:   jm.AgeLines,
	}
	for _, p := range jm.Players {
		raw.Players = append(raw.Players, RawPlayer{
			Name:          p.Name,
			Number:        p.Number,
			Civilization:  p.Civilization,
			ColorID:       p.ColorID,
			Winner:        p.Winner,
			Human:         p.Human,
			UserID:        p.UserID,
			RateSnapshot:  p.Elo,
			Eapm:          p.Eapm,
			ResourceScore: p.ResourceScore,
		})
	}
	for _, c := range jm.Commands {
		cmd := RawCommand{
			Timestamp: time.Duration(c.TimestampSecs * float64(time.Second)),
			Type:      c.Type,
			Payload:   c.Payload,
		}
		if c.Player != "" {
			cmd.Player = &RawPlayerRef{Name: c.Player}
		}
		raw.Commands = append(raw.Commands, cmd)
	}
	return raw, nil
}
