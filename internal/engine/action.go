package engine

import (
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/transport"
)

// actionKind tags an inbox entry. Wire message kinds mirror spec §6.1's
// client->server tags; the remaining kinds are synthetic, engine-internal
// triggers (attach/detach/timers/start) serialised through the same inbox so
// they share the Engine's single-writer ordering guarantee (spec §5).
type actionKind string

const (
	actionJoin     actionKind = "player:join"
	actionLeave    actionKind = "player:leave"
	actionKick     actionKind = "player:kick"
	actionSync     actionKind = "state:sync"
	actionBuzz     actionKind = "player:buzz"
	actionAnswer   actionKind = "player:answer"
	actionPause    actionKind = "game:pause"
	actionResume   actionKind = "game:resume"
	actionSkip     actionKind = "game:skip"
	actionAdvance  actionKind = "game:advance"
	actionStart    actionKind = "__start_game"
	actionAttach   actionKind = "__attach"
	actionDetach   actionKind = "__detach"
	actionSongFire actionKind = "__song_timeout"
	actionAnsFire  actionKind = "__answer_timeout"
)

// action is one inbox entry; only the fields relevant to Kind are set.
type action struct {
	Kind     actionKind
	Identity transport.Identity
	Msg      transport.Message

	startConfigs []model.RoundConfig
	epoch        int
	reply        chan error
}
