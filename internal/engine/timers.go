package engine

import "time"

// songTiming tracks the two logical deadlines a running song carries (spec
// §4.3.5): the song deadline (paused/resumed around buzzes) and the answer
// deadline (armed while a song is in `answering`). Each carries its own
// epoch counter so a stale AfterFunc fire is ignored after pause/resume/
// cancel, exactly as spec §5's cancellation model describes.
type songTiming struct {
	songEpoch int
	songTimer *time.Timer

	songDeadline  time.Time
	songRemaining time.Duration
	songRunning   bool

	answerEpoch int
	answerTimer *time.Timer

	answerDeadline  time.Time
	answerRemaining time.Duration
	answerRunning   bool
}

func (e *Engine) cancelSongTimer() {
	if e.timing.songTimer != nil {
		e.timing.songTimer.Stop()
		e.timing.songTimer = nil
	}
	e.timing.songRunning = false
}

func (e *Engine) cancelAnswerTimer() {
	if e.timing.answerTimer != nil {
		e.timing.answerTimer.Stop()
		e.timing.answerTimer = nil
	}
	e.timing.answerRunning = false
}

// armSongTimer (re)starts the song deadline with d remaining, bumping the
// song epoch so any previously scheduled fire is ignored by
// handleSongTimeout's epoch check.
func (e *Engine) armSongTimer(d time.Duration) {
	e.cancelSongTimer()
	e.timing.songEpoch++
	epoch := e.timing.songEpoch
	e.timing.songDeadline = time.Now().Add(d)
	e.timing.songRunning = true
	e.timing.songTimer = time.AfterFunc(d, func() {
		e.enqueue(action{Kind: actionSongFire, epoch: epoch})
	})
}

// pauseSongTimer stops the song deadline and records the remaining duration
// so a later resumeSongTimer re-arms with the same time left (spec §8:
// "game:pause followed by game:resume preserves remaining song time").
func (e *Engine) pauseSongTimer() {
	if !e.timing.songRunning {
		return
	}
	remaining := time.Until(e.timing.songDeadline)
	if remaining < 0 {
		remaining = 0
	}
	e.timing.songRemaining = remaining
	e.cancelSongTimer()
}

func (e *Engine) resumeSongTimer() {
	if e.timing.songRunning || e.timing.songRemaining <= 0 {
		return
	}
	e.armSongTimer(e.timing.songRemaining)
}

func (e *Engine) armAnswerTimer(d time.Duration) {
	e.cancelAnswerTimer()
	e.timing.answerEpoch++
	epoch := e.timing.answerEpoch
	e.timing.answerDeadline = time.Now().Add(d)
	e.timing.answerRunning = true
	e.timing.answerTimer = time.AfterFunc(d, func() {
		e.enqueue(action{Kind: actionAnsFire, epoch: epoch})
	})
}

func (e *Engine) pauseAnswerTimer() {
	if !e.timing.answerRunning {
		return
	}
	remaining := time.Until(e.timing.answerDeadline)
	if remaining < 0 {
		remaining = 0
	}
	e.timing.answerRemaining = remaining
	e.cancelAnswerTimer()
}

func (e *Engine) resumeAnswerTimer() {
	if e.timing.answerRunning || e.timing.answerRemaining <= 0 {
		return
	}
	e.armAnswerTimer(e.timing.answerRemaining)
}

func (e *Engine) cancelAllSongTimers() {
	e.cancelSongTimer()
	e.cancelAnswerTimer()
	e.timing.songRemaining = 0
	e.timing.answerRemaining = 0
}
