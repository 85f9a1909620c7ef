package telemetry

import "github.com/pthm-cable/vehicles/genetics"

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int32
	Generation int
	Genome     genetics.Genome

	Meals        int
	ContestsWon  int
	ContestsLost int
	Children     int

	PeakEnergy float64
}

// LifetimeRecord is the flattened summary of a finished life, written on death.
type LifetimeRecord struct {
	ID           uint32  `csv:"id" db:"agent_id"`
	BirthTick    int32   `csv:"birth_tick" db:"birth_tick"`
	DeathTick    int32   `csv:"death_tick" db:"death_tick"`
	Generation   int     `csv:"generation" db:"generation"`
	Aggression   float64 `csv:"aggression" db:"aggression"`
	Speed        float64 `csv:"speed" db:"speed"`
	Vision       float64 `csv:"vision" db:"vision"`
	Multiplier   float64 `csv:"mutation_multiplier" db:"mutation_multiplier"`
	Meals        int     `csv:"meals" db:"meals"`
	ContestsWon  int     `csv:"contests_won" db:"contests_won"`
	ContestsLost int     `csv:"contests_lost" db:"contests_lost"`
	Children     int     `csv:"children" db:"children"`
	PeakEnergy   float64 `csv:"peak_energy" db:"peak_energy"`
}

// LifetimeTracker manages per-agent lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new agent.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, generation int, g genetics.Genome, energy float64) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		Generation: generation,
		Genome:     g,
		PeakEnergy: energy,
	}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove drops an agent and returns its flattened record.
func (lt *LifetimeTracker) Remove(id uint32, deathTick int32) (LifetimeRecord, bool) {
	s, ok := lt.stats[id]
	if !ok {
		return LifetimeRecord{}, false
	}
	delete(lt.stats, id)
	return LifetimeRecord{
		ID:           id,
		BirthTick:    s.BirthTick,
		DeathTick:    deathTick,
		Generation:   s.Generation,
		Aggression:   s.Genome.Aggression,
		Speed:        s.Genome.Speed,
		Vision:       s.Genome.Vision,
		Multiplier:   s.Genome.MutationMultiplier,
		Meals:        s.Meals,
		ContestsWon:  s.ContestsWon,
		ContestsLost: s.ContestsLost,
		Children:     s.Children,
		PeakEnergy:   s.PeakEnergy,
	}, true
}

// RecordMeal increments the uncontested meal count.
func (lt *LifetimeTracker) RecordMeal(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Meals++
	}
}

// RecordContest records a contest result for one participant.
func (lt *LifetimeTracker) RecordContest(id uint32, won bool) {
	if s := lt.stats[id]; s != nil {
		if won {
			s.ContestsWon++
		} else {
			s.ContestsLost++
		}
	}
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(id uint32, energy float64) {
	if s := lt.stats[id]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
