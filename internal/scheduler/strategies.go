package scheduler

import (
	"math/rand"
	"time"

	"github.com/altomira/chorequest-api/internal/models"
)

// Placement is one planned assignment instance: a template occurrence on a
// date, given to a member.
type Placement struct {
	TemplateID uint64
	MemberID   uint64
	Date       time.Time
	Points     int
	IsBonus    bool
}

// loadMatrix accumulates per-member, per-date points over one plan build. It
// is seeded empty and only AUTO placements feed it, so the balancing heuristic
// distributes the auto-assigned workload independently of any pinned FIXED or
// ROTATE chores.
type loadMatrix map[uint64]map[time.Time]int

func (m loadMatrix) load(member uint64, date time.Time) int {
	return m[member][date]
}

func (m loadMatrix) add(member uint64, date time.Time, points int) {
	if m[member] == nil {
		m[member] = make(map[time.Time]int)
	}
	m[member][date] += points
}

func (m loadMatrix) sum(member uint64, dates []time.Time) int {
	total := 0
	for _, d := range dates {
		total += m[member][d]
	}
	return total
}

func (m loadMatrix) max(member uint64, dates []time.Time) int {
	peak := 0
	for _, d := range dates {
		if l := m[member][d]; l > peak {
			peak = l
		}
	}
	return peak
}

// placeFixed assigns every occurrence to the first listed member still on the
// active roster. Returns nil when nobody on the list is active; the caller
// skips the template.
func placeFixed(tpl *models.TaskTemplate, active map[uint64]bool, dates []time.Time) []Placement {
	var member uint64
	found := false
	for _, id := range tpl.AssignedMemberIDs() {
		if active[id] {
			member = id
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	placements := make([]Placement, 0, len(dates))
	for _, d := range dates {
		placements = append(placements, Placement{
			TemplateID: tpl.ID,
			MemberID:   member,
			Date:       d,
			Points:     tpl.Points,
			IsBonus:    tpl.IsBonus,
		})
	}
	return placements
}

// placeRotate cycles the listed members, filtered to the active roster, over
// the occurrences in order. The cursor lives only for one plan build.
func placeRotate(tpl *models.TaskTemplate, active map[uint64]bool, dates []time.Time) []Placement {
	eligible := make([]uint64, 0, len(tpl.Members))
	for _, id := range tpl.AssignedMemberIDs() {
		if active[id] {
			eligible = append(eligible, id)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	placements := make([]Placement, 0, len(dates))
	cursor := 0
	for _, d := range dates {
		placements = append(placements, Placement{
			TemplateID: tpl.ID,
			MemberID:   eligible[cursor%len(eligible)],
			Date:       d,
			Points:     tpl.Points,
			IsBonus:    tpl.IsBonus,
		})
		cursor++
	}
	return placements
}

// memberDate is a candidate slot considered by the weekly AUTO rule.
type memberDate struct {
	member uint64
	date   time.Time
}

// placeAuto balances a template's occurrences across all active members using
// the running load matrix. The rule depends on the recurrence step:
//
//   - interval 7 (a single occurrence): the lightest (member, date) slot
//     anywhere in the week wins, so the weekly chore may land on any weekday.
//   - interval 1 (daily): each day goes to the member with the lightest load
//     on that day, week total as the tiebreak.
//   - other intervals: one member takes the whole pattern; the member with
//     the lowest (total load over the pattern, worst single day) wins.
//
// Candidates are shuffled before the minimum is taken so ties do not always
// fall on the same member. Chosen loads are fed back into the matrix.
func placeAuto(tpl *models.TaskTemplate, members []uint64, dates, weekDates []time.Time, loads loadMatrix, rng *rand.Rand) []Placement {
	if len(members) == 0 {
		return nil
	}

	var placements []Placement

	switch {
	case tpl.IntervalDays == 7:
		candidates := make([]memberDate, 0, len(members)*len(weekDates))
		for _, m := range members {
			for _, d := range weekDates {
				candidates = append(candidates, memberDate{member: m, date: d})
			}
		}
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		best := candidates[0]
		for _, c := range candidates[1:] {
			if loads.load(c.member, c.date) < loads.load(best.member, best.date) {
				best = c
			}
		}
		placements = append(placements, Placement{
			TemplateID: tpl.ID,
			MemberID:   best.member,
			Date:       best.date,
			Points:     tpl.Points,
			IsBonus:    tpl.IsBonus,
		})
		loads.add(best.member, best.date, tpl.Points)

	case tpl.IntervalDays == 1:
		for _, d := range dates {
			shuffled := shuffledMembers(members, rng)
			best := shuffled[0]
			bestWeek, bestDay := loads.sum(best, weekDates), loads.load(best, d)
			for _, m := range shuffled[1:] {
				// Balance on the running week total first so a daily chore
				// alternates members; the per-day load only breaks ties.
				week, day := loads.sum(m, weekDates), loads.load(m, d)
				if week < bestWeek || (week == bestWeek && day < bestDay) {
					best, bestWeek, bestDay = m, week, day
				}
			}
			placements = append(placements, Placement{
				TemplateID: tpl.ID,
				MemberID:   best,
				Date:       d,
				Points:     tpl.Points,
				IsBonus:    tpl.IsBonus,
			})
			loads.add(best, d, tpl.Points)
		}

	default:
		shuffled := shuffledMembers(members, rng)
		best := shuffled[0]
		bestSum, bestMax := loads.sum(best, dates), loads.max(best, dates)
		for _, m := range shuffled[1:] {
			s, x := loads.sum(m, dates), loads.max(m, dates)
			if s < bestSum || (s == bestSum && x < bestMax) {
				best, bestSum, bestMax = m, s, x
			}
		}
		for _, d := range dates {
			placements = append(placements, Placement{
				TemplateID: tpl.ID,
				MemberID:   best,
				Date:       d,
				Points:     tpl.Points,
				IsBonus:    tpl.IsBonus,
			})
			loads.add(best, d, tpl.Points)
		}
	}

	return placements
}

func shuffledMembers(members []uint64, rng *rand.Rand) []uint64 {
	shuffled := make([]uint64, len(members))
	copy(shuffled, members)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
