package fireworks

import (
	"errors"
	"fmt"
	"time"
)

var ErrTargetAnimated = errors.New("target is already driven by another tween")

type TweenId uint64

type tween struct {
	id         TweenId
	target     *float32
	from, to   float32
	duration   time.Duration
	elapsed    time.Duration
	easing     Easing
	onComplete func()
}

// Animator drives float32 fields toward an end value over time. It is advanced
// once per frame by tweenSystem; completion callbacks run on that same call.
type Animator struct {
	nextId TweenId
	tweens []*tween
	owners map[*float32]TweenId
}

func NewAnimator() *Animator {
	return &Animator{owners: make(map[*float32]TweenId)}
}

// Animate starts moving *target from its current value to end over duration.
// A target is owned by at most one tween at a time. A nil easing means linear.
func (a *Animator) Animate(target *float32, end float32, duration time.Duration, easing Easing, onComplete func()) (TweenId, error) {
	if target == nil {
		return 0, errors.New("tween target is nil")
	}
	if duration < 0 {
		return 0, fmt.Errorf("tween duration %v is negative", duration)
	}
	if _, busy := a.owners[target]; busy {
		return 0, ErrTargetAnimated
	}
	if easing == nil {
		easing = EaseLinear
	}
	a.nextId++
	tw := &tween{
		id:         a.nextId,
		target:     target,
		from:       *target,
		to:         end,
		duration:   duration,
		easing:     easing,
		onComplete: onComplete,
	}
	a.tweens = append(a.tweens, tw)
	a.owners[target] = tw.id
	return tw.id, nil
}

// Cancel stops the tween without running its callback. The target keeps its
// current value. Reports whether the tween was still running.
func (a *Animator) Cancel(id TweenId) bool {
	for i, tw := range a.tweens {
		if tw.id != id {
			continue
		}
		delete(a.owners, tw.target)
		a.tweens = append(a.tweens[:i], a.tweens[i+1:]...)
		return true
	}
	return false
}

func (a *Animator) IsAnimating(target *float32) bool {
	_, ok := a.owners[target]
	return ok
}

func (a *Animator) Active() int {
	return len(a.tweens)
}

// Advance moves every tween forward by dt. Finished tweens write their end value
// exactly, are dropped, and then have their callbacks invoked in start order.
func (a *Animator) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	var finished []*tween
	live := a.tweens[:0]
	for _, tw := range a.tweens {
		tw.elapsed += dt
		if tw.duration <= 0 || tw.elapsed >= tw.duration {
			*tw.target = tw.to
			delete(a.owners, tw.target)
			finished = append(finished, tw)
			continue
		}
		t := float32(tw.elapsed.Seconds() / tw.duration.Seconds())
		*tw.target = tw.from + (tw.to-tw.from)*tw.easing(clamp01(t))
		live = append(live, tw)
	}
	for i := len(live); i < len(a.tweens); i++ {
		a.tweens[i] = nil
	}
	a.tweens = live

	for _, tw := range finished {
		if tw.onComplete != nil {
			tw.onComplete()
		}
	}
}

type TweenModule struct{}

func (TweenModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAnimator())
	app.UseSystem(
		System(tweenSystem).
			InStage(Update),
	)
}

func tweenSystem(t *Time, animator *Animator) {
	animator.Advance(t.Dt)
}
