package engine

import (
	"sort"

	"github.com/blzulian/agelytics/internal/decode"
	"github.com/blzulian/agelytics/internal/model"
)

// Normalize converts the decoder's raw command records into the canonical
// command sequence. Records without a resolvable actor and records whose
// payload cannot be interpreted are dropped; one malformed record never
// affects the rest of the batch. The result is sorted by timestamp (the
// decoder does not guarantee order).
func Normalize(raw []decode.RawCommand) []model.Command {
	cmds := make([]model.Command, 0, len(raw))
	for _, rec := range raw {
		cmd, ok := normalizeOne(rec)
		if !ok {
			continue
		}
		cmds = append(cmds, cmd)
	}
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].TimestampSecs < cmds[j].TimestampSecs
	})
	return cmds
}

// normalizeOne is the per-record failure boundary: any missing or mistyped
// field makes it report !ok instead of producing a partial command.
func normalizeOne(rec decode.RawCommand) (model.Command, bool) {
	if rec.Player == nil || rec.Player.Name == "" {
		return model.Command{}, false
	}

	ts := rec.Timestamp.Seconds()
	if ts < 0 {
		return model.Command{}, false
	}

	cmd := model.Command{
		Actor:         rec.Player.Name,
		TimestampSecs: ts,
		ObjectIDs:     payloadInts(rec.Payload, "object_ids"),
	}

	switch rec.Type {
	case "Queue":
		unit, ok := payloadString(rec.Payload, "unit")
		if !ok || unit == "" {
			return model.Command{}, false
		}
		amount, ok := payloadInt(rec.Payload, "amount")
		if !ok || amount <= 0 {
			amount = 1
		}
		buildingID, _ := payloadInt(rec.Payload, "building_id")
		cmd.Kind = model.KindQueue
		cmd.Queue = &model.QueuePayload{Unit: unit, Amount: amount, BuildingID: buildingID}

	case "Research":
		tech, ok := payloadString(rec.Payload, "technology")
		if !ok || tech == "" {
			return model.Command{}, false
		}
		cmd.Kind = model.KindResearch
		cmd.Research = &model.ResearchPayload{Technology: tech}

	case "Build", "Wall":
		building, ok := payloadString(rec.Payload, "building")
		if !ok || building == "" {
			return model.Command{}, false
		}
		p := &model.BuildPayload{Building: building}
		if x, ok := payloadFloat(rec.Payload, "x_end"); ok {
			p.EndX = &x
		}
		if y, ok := payloadFloat(rec.Payload, "y_end"); ok {
			p.EndY = &y
		}
		if rec.Type == "Wall" {
			cmd.Kind = model.KindWall
		} else {
			cmd.Kind = model.KindBuild
		}
		cmd.Build = p

	case "Delete":
		cmd.Kind = model.KindDelete

	case "Move", "Gather", "Repair", "Waypoint":
		cmd.Kind = model.KindActivity

	case "Resign":
		cmd.Kind = model.KindResign

	default:
		return model.Command{}, false
	}

	return cmd, true
}

func payloadString(p map[string]any, key string) (string, bool) {
	if p == nil {
		return "", false
	}
	s, ok := p[key].(string)
	return s, ok
}

func payloadInt(p map[string]any, key string) (int, bool) {
	if p == nil {
		return 0, false
	}
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func payloadFloat(p map[string]any, key string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func payloadInts(p map[string]any, key string) []int {
	if p == nil {
		return nil
	}
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}
	ids := make([]int, 0, len(raw))
	for _, r := range raw {
		switch v := r.(type) {
		case int:
			ids = append(ids, v)
		case int64:
			ids = append(ids, int(v))
		case float64:
			ids = append(ids, int(v))
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}
