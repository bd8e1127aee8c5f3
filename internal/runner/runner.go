// Package runner drives headless fights: a fixed-tick loop that feeds
// simulated player damage into an arena, folds tick reports into fight
// statistics, and persists the result.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/velachev/barrage/internal/config"
	"github.com/velachev/barrage/internal/content"
	"github.com/velachev/barrage/internal/core"
	"github.com/velachev/barrage/internal/storage"
)

// Runner executes encounters under one simulation configuration.
type Runner struct {
	cfg    config.SimConfig
	logger *log.Logger
	store  *storage.Store
}

// New creates a runner. A nil logger silences it; a nil store skips
// persistence.
func New(cfg config.SimConfig, logger *log.Logger, store *storage.Store) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{cfg: cfg, logger: logger, store: store}
}

// Run simulates one fight against the encounter with the given seed and
// returns its statistics. The loop is strictly frame-synchronous: tick N
// happens at simulation time N/tick_rate, damage is fed before the arena
// advances, and the same seed with the same content replays identically.
//
// A fight ends cleared when every enemy is defeated, then keeps ticking
// until the field has drained so the stats include every cull. It ends
// timed out when the configured cap arrives first. ctx cancellation
// abandons the run.
func (r *Runner) Run(ctx context.Context, enc *content.Encounter, seed int64) (core.FightStats, error) {
	stats := core.FightStats{Encounter: enc.ID, Seed: seed}

	a, err := enc.NewArena(seed)
	if err != nil {
		return stats, fmt.Errorf("runner: %w", err)
	}
	pressure := config.NewPressureManager(r.cfg.Pressure)
	dt := 1.0 / float64(r.cfg.Sim.TickRate)

	start, err := a.StartAll(0)
	if err != nil {
		return stats, fmt.Errorf("runner: %w", err)
	}
	r.logger.Info("fight started",
		"encounter", enc.ID,
		"seed", seed,
		"enemies", len(a.Enemies()),
		"tick_rate", r.cfg.Sim.TickRate,
	)
	r.logEvents(start)

	cleared := false
	for tick := uint64(1); ; tick++ {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("runner: aborted at tick %d: %w", tick, err)
		}
		now := float64(tick) * dt

		if !cleared {
			damage := pressure.Tick(now, dt)
			if damage > 0 {
				a.ReportDamageAll(damage)
				stats.DamageDealt += damage
			}
		}

		report, err := a.Tick(dt, now)
		if err != nil {
			return stats, fmt.Errorf("runner: tick %d: %w", tick, err)
		}
		stats.Observe(report)
		r.logEvents(report)

		if !cleared && a.AllDefeated() {
			cleared = true
			stats.Outcome = core.OutcomeCleared
			stats.Duration = now
			r.logger.Info("encounter cleared",
				"encounter", enc.ID,
				"duration", fmt.Sprintf("%.2fs", now),
				"shots", stats.ShotsFired,
			)
		}
		if cleared && a.LiveCount() == 0 {
			break
		}
		if now >= r.cfg.Sim.MaxDuration {
			if !cleared {
				stats.Outcome = core.OutcomeTimeout
				stats.Duration = now
				r.logger.Info("encounter timed out",
					"encounter", enc.ID,
					"after", fmt.Sprintf("%.0fs", now),
					"shots", stats.ShotsFired,
				)
			}
			break
		}
	}

	r.logger.Info("fight finished",
		"outcome", string(stats.Outcome),
		"duration", fmt.Sprintf("%.2fs", stats.Duration),
		"ticks", stats.Ticks,
		"shots", stats.ShotsFired,
		"peak_live", stats.PeakLive,
	)

	if r.store != nil {
		if id, err := r.store.SaveFight(stats); err != nil {
			r.logger.Warn("could not persist fight", "error", err)
		} else {
			r.logger.Debug("fight persisted", "id", id)
		}
	}
	return stats, nil
}

// logEvents reports a tick's notable events. Shot and cull events are far
// too frequent to log individually; they surface through the final stats.
func (r *Runner) logEvents(report core.TickReport) {
	for _, s := range report.Sampled {
		r.logger.Debug("pattern sampled", "enemy", s.Enemy, "pattern", s.PatternIndex, "at", fmt.Sprintf("%.2fs", s.At))
	}
	for _, adv := range report.Advanced {
		r.logger.Info("phase advanced",
			"enemy", adv.Enemy,
			"from", adv.FromPhase,
			"to", adv.ToPhase,
			"trigger", adv.Trigger.String(),
			"at", fmt.Sprintf("%.2fs", adv.At),
		)
	}
	for _, d := range report.Defeated {
		r.logger.Info("enemy defeated", "enemy", d.Enemy, "at", fmt.Sprintf("%.2fs", d.At))
	}
	for _, c := range report.Cleared {
		r.logger.Debug("field cleared", "enemy", c.Enemy, "requested", c.Requested)
	}
}
