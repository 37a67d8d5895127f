package replay

import (
	"slices"

	"github.com/matzehuels/techpath/pkg/errors"
)

// BuildEvent is one action in a player's build order.
// Names repeat when the same unit, structure or upgrade is produced again.
type BuildEvent struct {
	Name string `json:"name" yaml:"name"`
	Time string `json:"time" yaml:"time"` // elapsed game time, "MM:SS"
}

// Player is one participant of a replay.
type Player struct {
	Name       string       `json:"name" yaml:"name"`
	Race       string       `json:"race" yaml:"race"`
	IsWinner   bool         `json:"is_winner" yaml:"is_winner"`
	BuildOrder []BuildEvent `json:"buildOrder" yaml:"buildOrder"`
}

// Replay is the parsed content of one replay file.
type Replay struct {
	Players map[int]Player

	// Optional metadata, present when the parser reports it.
	Map        string
	GameLength string

	// Source is the path the replay was loaded from.
	Source string
}

// PlayerSummary is the display-only view of a player.
type PlayerSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Race     string `json:"race"`
	IsWinner bool   `json:"is_winner"`
	Events   int    `json:"events"`
}

// PlayerIDs returns the ids of all players in ascending order.
func (r *Replay) PlayerIDs() []int {
	ids := make([]int, 0, len(r.Players))
	for id := range r.Players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Player returns the player with the given id.
// A missing id yields an error coded PLAYER_NOT_FOUND that lists the ids the
// replay does contain.
func (r *Replay) Player(id int) (Player, error) {
	p, ok := r.Players[id]
	if !ok {
		return Player{}, errors.Wrap(errors.ErrCodePlayerNotFound,
			&errors.PlayerNotFoundError{PlayerID: id, Available: r.PlayerIDs()},
			"player %d is not part of this replay", id)
	}
	return p, nil
}

// Summaries extracts the name, race and result of every player, ordered by id.
func (r *Replay) Summaries() []PlayerSummary {
	ids := r.PlayerIDs()
	out := make([]PlayerSummary, len(ids))
	for i, id := range ids {
		p := r.Players[id]
		out[i] = PlayerSummary{
			ID:       id,
			Name:     p.Name,
			Race:     p.Race,
			IsWinner: p.IsWinner,
			Events:   len(p.BuildOrder),
		}
	}
	return out
}
