package engine

import "github.com/avelaine/epochs/internal/models"

// YearListener is notified once per completed year boundary with the year
// just entered. Listeners run synchronously in registration order and must
// not call back into TimeSystem.Update.
type YearListener func(year int)

// TimeSystem converts real elapsed seconds into simulated years, with pause
// and speed-multiplier controls.
type TimeSystem struct {
	currentYear  int
	yearProgress float64 // Progress toward the next year, [0, 1)

	yearsPerSecond float64
	multiplier     float64
	minSpeed       float64
	maxSpeed       float64
	paused         bool

	listeners []YearListener
}

// NewTimeSystem builds a time system from configuration
func NewTimeSystem(cfg models.TimeConfig) *TimeSystem {
	return &TimeSystem{
		currentYear:    cfg.StartYear,
		yearsPerSecond: cfg.YearsPerRealSecond,
		multiplier:     clamp(cfg.DefaultSpeed, cfg.MinSpeed, cfg.MaxSpeed),
		minSpeed:       cfg.MinSpeed,
		maxSpeed:       cfg.MaxSpeed,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Update advances simulated time by dt real seconds. A dt large enough to
// cross several year boundaries fires the listeners once per year, with the
// correct intermediate year each time.
func (t *TimeSystem) Update(dt float64) {
	if t.paused {
		return
	}

	t.yearProgress += dt * t.yearsPerSecond * t.multiplier

	for t.yearProgress >= 1.0 {
		t.yearProgress -= 1.0
		t.currentYear++
		t.notify(t.currentYear)
	}
}

func (t *TimeSystem) notify(year int) {
	for _, listener := range t.listeners {
		listener(year)
	}
}

// AddYearListener registers a year-change callback
func (t *TimeSystem) AddYearListener(fn YearListener) {
	t.listeners = append(t.listeners, fn)
}

// CurrentYear returns the current simulated year
func (t *TimeSystem) CurrentYear() int {
	return t.currentYear
}

// ProgressPercent returns progress toward the next year as 0-100
func (t *TimeSystem) ProgressPercent() float64 {
	return t.yearProgress * 100.0
}

// Speed returns the current speed multiplier
func (t *TimeSystem) Speed() float64 {
	return t.multiplier
}

// SetSpeed clamps the multiplier into the configured range and returns the
// value actually applied.
func (t *TimeSystem) SetSpeed(multiplier float64) float64 {
	t.multiplier = clamp(multiplier, t.minSpeed, t.maxSpeed)
	return t.multiplier
}

// Paused returns the pause state
func (t *TimeSystem) Paused() bool {
	return t.paused
}

// TogglePause flips the pause state and returns the new state
func (t *TimeSystem) TogglePause() bool {
	t.paused = !t.paused
	return t.paused
}

// SetPaused forces the pause state
func (t *TimeSystem) SetPaused(paused bool) {
	t.paused = paused
}

// EffectiveTimeScale returns 0 while paused, else the speed multiplier.
// Callers use it to scale their own per-frame deltas.
func (t *TimeSystem) EffectiveTimeScale() float64 {
	if t.paused {
		return 0.0
	}
	return t.multiplier
}

// SetYear jumps directly to a year, bypassing progress accumulation, and
// fires the listeners immediately.
func (t *TimeSystem) SetYear(year int) {
	t.currentYear = year
	t.yearProgress = 0.0
	t.notify(year)
}

// AdvanceYear increments the year by one and fires the listeners
func (t *TimeSystem) AdvanceYear() {
	t.SetYear(t.currentYear + 1)
}

// Restore resets the clock to a year without firing listeners. Used when
// applying a saved session, where listeners must not replay history.
func (t *TimeSystem) Restore(year int) {
	t.currentYear = year
	t.yearProgress = 0.0
}
