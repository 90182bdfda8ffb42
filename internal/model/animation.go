package model

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

const (
	// framesPerSecond is the animation frame rate.
	framesPerSecond = 30
	frameInterval   = time.Second / framesPerSecond
	// settleFrequency divided by the duration in seconds is the spring's
	// angular frequency. A critically damped spring then comes within half a
	// cell of a 30 cell move in about one duration.
	settleFrequency = 7.0
)

// frameMsg is a tea.Msg that advances the height animation. Frames from an
// earlier generation belong to a superseded animation and are dropped.
type frameMsg struct {
	generation int
}

// heightAnimation tracks the displayed height of the menu as a spring pulls it
// towards a target.
type heightAnimation struct {
	spring     harmonica.Spring
	pos        float64
	vel        float64
	to         int
	current    int
	generation int
	running    bool
}

// Start begins animating from the current height to target. It replaces any
// animation in flight, keeping its velocity, and reports whether frames are
// needed.
func (a *heightAnimation) Start(target int, duration time.Duration) bool {
	a.generation++
	a.to = target
	a.running = a.current != target && duration > 0
	if !a.running {
		a.current = target
		a.pos, a.vel = float64(target), 0
		return false
	}
	a.pos = float64(a.current)
	a.spring = harmonica.NewSpring(harmonica.FPS(framesPerSecond), settleFrequency/duration.Seconds(), 1.0)
	return true
}

// Step advances the spring by one frame. It reports whether another frame is
// needed.
func (a *heightAnimation) Step(msg frameMsg) bool {
	if !a.running || msg.generation != a.generation {
		return false
	}
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, float64(a.to))
	if math.Abs(float64(a.to)-a.pos) < 0.5 {
		a.current = a.to
		a.pos, a.vel = float64(a.to), 0
		a.running = false
		return false
	}
	a.current = int(math.Round(a.pos))
	return true
}

// Current returns the displayed height.
func (a *heightAnimation) Current() int {
	return a.current
}

// Target returns the height the animation converges to.
func (a *heightAnimation) Target() int {
	return a.to
}

// tick returns a command that delivers the next frame of the current
// generation.
func (a *heightAnimation) tick() tea.Cmd {
	generation := a.generation
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{generation: generation}
	})
}
