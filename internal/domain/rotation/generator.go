// internal/domain/rotation/generator.go
package rotation

import (
	"math/rand"
	"sort"
	"time"
)

const (
	// fairnessWindow is the trailing share of the previous cycle whose
	// staff count as recently active.
	fairnessWindow = 0.3
	// safePoolEarlyShare is the share of not-recently-active staff placed
	// ahead of the interleaved tail.
	safePoolEarlyShare = 0.6
)

// Generator builds brand-new rotation cycles. The random source is
// injected so tests can pin a seed; pass nil to seed from the clock.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// GenerateNewCycle produces an ordered slot list covering every id in
// staffIDs exactly once, one slot per chunk of cfg.SlotSize. Staff who
// worked the tail of previousCycle are deprioritized: they are interleaved
// one-for-one with the back of the shuffled remainder instead of being
// drawn uniformly, so nobody pulls two back-to-back tail assignments.
// The final slot may be short when the pool does not divide evenly.
func (g *Generator) GenerateNewCycle(staffIDs []int64, previousCycle *Cycle, cfg Config) ([]Slot, error) {
	if len(staffIDs) == 0 {
		return []Slot{}, nil
	}
	ordered := g.orderStaff(staffIDs, previousCycle)
	return packSlots(ordered, cfg.StartDate, cfg)
}

func (g *Generator) orderStaff(staffIDs []int64, previousCycle *Cycle) []int64 {
	recentSet := recentlyActive(previousCycle)
	if len(recentSet) == 0 {
		pool := append([]int64(nil), staffIDs...)
		g.shuffle(pool)
		return pool
	}

	var safe, recent []int64
	for _, id := range staffIDs {
		if _, ok := recentSet[id]; ok {
			recent = append(recent, id)
		} else {
			safe = append(safe, id)
		}
	}
	g.shuffle(safe)
	g.shuffle(recent)

	splitAt := int(float64(len(safe)) * safePoolEarlyShare)
	early, later := safe[:splitAt], safe[splitAt:]

	ordered := append([]int64(nil), early...)
	for i := 0; i < len(later) || i < len(recent); i++ {
		if i < len(later) {
			ordered = append(ordered, later[i])
		}
		if i < len(recent) {
			ordered = append(ordered, recent[i])
		}
	}
	return ordered
}

// recentlyActive collects staff ids appearing in the last 30% of the
// previous cycle's chronologically ordered events.
func recentlyActive(previousCycle *Cycle) map[int64]struct{} {
	if previousCycle == nil || len(previousCycle.Events) == 0 {
		return nil
	}
	events := append([]Event(nil), previousCycle.Events...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	threshold := int(float64(len(events)) * (1 - fairnessWindow))
	recent := make(map[int64]struct{})
	for _, e := range events[threshold:] {
		for _, id := range e.StaffIDs {
			recent[id] = struct{}{}
		}
	}
	return recent
}

// shuffle is Fisher-Yates over the injected source.
func (g *Generator) shuffle(ids []int64) {
	for i := len(ids) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

// packSlots walks staffIDs in chunks of cfg.SlotSize. Each chunk takes the
// next valid date at or after the cursor, then the cursor moves one day
// past the assigned date so consecutive slots land on strictly increasing
// dates.
func packSlots(staffIDs []int64, anchor time.Time, cfg Config) ([]Slot, error) {
	slots := make([]Slot, 0, (len(staffIDs)+cfg.SlotSize-1)/cfg.SlotSize)
	cursor := Date(anchor)
	for start := 0; start < len(staffIDs); start += cfg.SlotSize {
		end := start + cfg.SlotSize
		if end > len(staffIDs) {
			end = len(staffIDs)
		}
		date, err := NextValidSlotDate(cursor, cfg.Type, cfg.Holidays)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{
			Date:     date,
			StaffIDs: append([]int64(nil), staffIDs[start:end]...),
		})
		cursor = date.AddDate(0, 0, 1)
	}
	return slots, nil
}
