// Package model defines the data structures for parsed matches, the command
// stream, simulation outputs, and configuration.
package model

// Era is one of the four sequential game phases.
type Era string

const (
	EraDark     Era = "Dark Age"
	EraFeudal   Era = "Feudal Age"
	EraCastle   Era = "Castle Age"
	EraImperial Era = "Imperial Age"
)

// EraOrder lists the eras in game order.
var EraOrder = []Era{EraDark, EraFeudal, EraCastle, EraImperial}

// CommandKind tags a normalized command.
type CommandKind string

const (
	KindQueue    CommandKind = "queue"
	KindResearch CommandKind = "research"
	KindBuild    CommandKind = "build"
	KindWall     CommandKind = "wall"
	KindDelete   CommandKind = "delete"
	KindActivity CommandKind = "activity" // move/gather/repair/waypoint
	KindResign   CommandKind = "resign"
)

// Command is one normalized input event. Exactly one payload pointer is
// non-nil, matching Kind; Activity, Delete and Resign carry only ObjectIDs.
type Command struct {
	Actor         string
	TimestampSecs float64
	Kind          CommandKind

	Queue    *QueuePayload
	Research *ResearchPayload
	Build    *BuildPayload

	ObjectIDs []int
}

// QueuePayload describes a unit-training command.
type QueuePayload struct {
	Unit       string
	Amount     int
	BuildingID int
}

// ResearchPayload describes a technology research command.
type ResearchPayload struct {
	Technology string
}

// BuildPayload describes a building placement command. EndX/EndY are only
// present for wall segments.
type BuildPayload struct {
	Building string
	EndX     *float64
	EndY     *float64
}

// AgeUp is a parsed age-advancement event.
type AgeUp struct {
	Player        string
	Age           Era
	TimestampSecs float64
}

// EraInterval is one actor's span inside a single era.
type EraInterval struct {
	Era       Era
	StartSecs float64
	EndSecs   float64
}

// Duration returns the interval length in seconds.
func (iv EraInterval) Duration() float64 {
	return iv.EndSecs - iv.StartSecs
}

// EraTimeline holds an actor's reached eras as contiguous intervals,
// ordered Dark first. Eras never reached are absent.
type EraTimeline []EraInterval

// At returns the era containing the given timestamp.
func (t EraTimeline) At(ts float64) (Era, bool) {
	for i, iv := range t {
		if ts >= iv.StartSecs && (ts < iv.EndSecs || i == len(t)-1) {
			return iv.Era, true
		}
	}
	return "", false
}

// Interval returns the interval for a specific era.
func (t EraTimeline) Interval(era Era) (EraInterval, bool) {
	for _, iv := range t {
		if iv.Era == era {
			return iv, true
		}
	}
	return EraInterval{}, false
}

// GapClass classifies an idle gap by duration.
type GapClass string

const (
	GapMicro GapClass = "micro" // 5-15s
	GapMacro GapClass = "macro" // 15-60s
	GapAfk   GapClass = "afk"   // >=60s
)

// IdleGap is an interval where the TC queue sat empty beyond tolerance.
type IdleGap struct {
	StartSecs float64
	EndSecs   float64
	Class     GapClass
}

// Duration returns the gap length in seconds.
func (g IdleGap) Duration() float64 {
	return g.EndSecs - g.StartSecs
}

// GapTotal accumulates count and seconds for one gap class.
type GapTotal struct {
	Count   int
	Seconds float64
}

// QueueSimResult is the output of the TC queue simulation for one actor.
type QueueSimResult struct {
	IdleSecs float64
	Gaps     []IdleGap
	ByClass  map[GapClass]GapTotal
	ByEra    map[Era]float64
}

// HousingResult holds the dual-bound housed-time estimates for one actor.
// After cross-validation LowerByEra[e] <= UpperByEra[e] for every era.
type HousingResult struct {
	LowerSecs  float64
	UpperSecs  float64
	LowerByEra map[Era]float64
	UpperByEra map[Era]float64
}

// UnitCompletion is one unit finishing production in the building simulation.
type UnitCompletion struct {
	Unit         string
	BuildingType string
	BuildingID   int
	QueuedAt     float64
	CompletedAt  float64
}

// Research is a timestamped technology research by one player.
type Research struct {
	Tech          string
	TimestampSecs float64
}

// PlayerAnalysis carries everything the engine derived for one actor of a
// single match.
type PlayerAnalysis struct {
	TcIdleSecs  float64
	IdleGaps    []IdleGap
	IdleByClass map[GapClass]GapTotal
	TcIdleByEra map[Era]float64

	HousedLowerSecs  float64
	HousedUpperSecs  float64
	HousedLowerByEra map[Era]float64
	HousedUpperByEra map[Era]float64

	TcIdleEffectiveLower float64
	TcIdleEffectiveUpper float64

	Eras EraTimeline

	FarmBuildTimestamps     []float64
	TcBuildTimestamps       []float64
	VillagerQueueTimestamps []float64
	FirstMilitaryTimestamp  *float64

	UnitProduction map[string]int
	Buildings      map[string]int
	Researches     []Research
	Productions    []UnitCompletion

	Opening string
}

// Player is one human participant of a match.
type Player struct {
	Name    string
	Number  int
	CivID   int
	CivName string
	ColorID int
	Winner  bool
	UserID  *int
	Elo     *int
	Eapm    *int

	// ResourceScore is the end-of-game economy score when the decoder
	// supplies one; nil otherwise (never estimated).
	ResourceScore *int
}

// Match is one fully parsed and analyzed game.
type Match struct {
	ID           int64
	FileHash     string
	FilePath     string
	PlayedAt     string
	DurationSecs float64
	MapName      string
	MapID        int
	GameType     string
	Diplomacy    string
	Speed        string
	PopLimit     int
	Completed    bool
	Version      string

	Players  []Player
	AgeUps   []AgeUp
	Analysis map[string]*PlayerAnalysis
}

// PlayerByName returns the match participant with the given name.
func (m *Match) PlayerByName(name string) (*Player, bool) {
	for i := range m.Players {
		if m.Players[i].Name == name {
			return &m.Players[i], true
		}
	}
	return nil, false
}

// AgeUpTimestamp returns the timestamp at which a player entered an era.
func (m *Match) AgeUpTimestamp(player string, era Era) (float64, bool) {
	for _, a := range m.AgeUps {
		if a.Player == player && a.Age == era {
			return a.TimestampSecs, true
		}
	}
	return 0, false
}
