// Package decode defines the contract with the external replay decoder.
//
// The binary replay format itself is owned by a third-party library; this
// package only describes the shape its output must have for the analysis
// engine to consume it. Tests use hand-built RawMatch values.
package decode

import "time"

// RawPlayerRef is the nested player reference on a raw command. It may be
// absent entirely, or present with an empty name; either way the command has
// no resolvable actor.
type RawPlayerRef struct {
	Name string
}

// RawCommand is one per-command record as the decoder emits it. Payload keys
// depend on Type and individual records may be arbitrarily malformed; the
// normalizer treats every field access as fallible.
type RawCommand struct {
	Player    *RawPlayerRef
	Timestamp time.Duration
	Type      string
	Payload   map[string]any
}

// RawPlayer is one participant as reported by the decoder's header summary.
type RawPlayer struct {
	Name          string
	Number        int
	Civilization  int
	ColorID       int
	Winner        bool
	Human         bool
	UserID        *int
	RateSnapshot  *int
	Eapm          *int
	ResourceScore *int
}

// RawMatch is the decoder's full output for one replay file.
type RawMatch struct {
	FilePath     string
	FileHash     string
	PlayedAt     string
	DurationMs   int64
	MapName      string
	MapID        int
	GameType     string
	Diplomacy    string
	Speed        string
	PopLimit     int
	Completed    bool
	Version      string
	Players      []RawPlayer
	Commands     []RawCommand
	AgeLines     []string // "[H:MM:SS.ffffff] <actor> -> Age.<ENUM>" log lines
}

// Decoder parses a replay file into a RawMatch. Implementations wrap the
// third-party replay parsing library and are injected into the ingester.
type Decoder interface {
	Decode(path string) (*RawMatch, error)
}
