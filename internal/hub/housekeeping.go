package hub

import (
	"context"
	"time"

	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/store"
)

// Housekeeping deletes finished rooms older than maxAge, cascading through
// the repository contracts (spec §8 S6, SPEC_FULL §5). It is a plain
// function: ServePage calls it once an hour, and an external scheduler may
// call it on its own cadence.
func Housekeeping(ctx context.Context, repos store.Repositories, maxAge time.Duration, logf func(string, ...any)) (purged int, err error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	rooms, err := repos.Rooms.FindByStatus(ctx, model.RoomFinished)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	for _, room := range rooms {
		if room.CreatedAt.After(cutoff) {
			continue
		}

		if sess, serr := repos.Sessions.FindByRoom(ctx, room.ID); serr == nil && sess != nil {
			if derr := repos.Sessions.Delete(ctx, sess.ID); derr != nil {
				logf("HUB: housekeeping: failed deleting session %s for room %s: %v", sess.ID, room.ID, derr)
			}
		}
		if derr := repos.Players.DeleteByRoom(ctx, room.ID); derr != nil {
			logf("HUB: housekeeping: failed deleting players for room %s: %v", room.ID, derr)
			continue
		}
		if derr := repos.Rooms.Delete(ctx, room.ID); derr != nil {
			logf("HUB: housekeeping: failed deleting room %s: %v", room.ID, derr)
			continue
		}
		purged++
	}

	return purged, nil
}
