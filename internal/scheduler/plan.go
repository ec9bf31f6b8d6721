package scheduler

import (
	"math/rand"
	"sort"
	"time"

	"github.com/altomira/chorequest-api/internal/models"
)

// WeekPlan is the outcome of expanding a family's templates for one week.
// SkippedTemplateIDs lists templates whose assignment configuration could not
// be satisfied (FIXED/ROTATE with nobody eligible, or a bad interval); a plan
// partially succeeds rather than failing outright.
type WeekPlan struct {
	WeekOf             time.Time
	Placements         []Placement
	SkippedTemplateIDs []uint64
}

// BuildWeekPlan turns active templates and the active roster into placements
// for the week starting at weekOf. It is pure apart from rng, which only
// breaks load ties, so a seeded rng makes the plan reproducible.
//
// Regular templates are placed before bonus ones, heaviest points first, so
// the balancing matrix sees the largest commitments before it fills with
// smaller ones. Bonus templates are never balanced: every occurrence goes to
// every active member.
func BuildWeekPlan(templates []models.TaskTemplate, activeMembers []uint64, weekOf time.Time, rng *rand.Rand) WeekPlan {
	plan := WeekPlan{WeekOf: DateOnly(weekOf)}

	active := make(map[uint64]bool, len(activeMembers))
	for _, id := range activeMembers {
		active[id] = true
	}

	var regular, bonus []models.TaskTemplate
	for _, tpl := range templates {
		if tpl.IsBonus {
			bonus = append(bonus, tpl)
		} else {
			regular = append(regular, tpl)
		}
	}
	sort.SliceStable(regular, func(i, j int) bool {
		return regular[i].Points > regular[j].Points
	})

	weekDates, _ := ExpandDates(plan.WeekOf, 1)
	loads := make(loadMatrix, len(activeMembers))

	for i := range regular {
		tpl := &regular[i]
		dates, err := ExpandDates(plan.WeekOf, tpl.IntervalDays)
		if err != nil {
			plan.SkippedTemplateIDs = append(plan.SkippedTemplateIDs, tpl.ID)
			continue
		}

		var placed []Placement
		switch tpl.AssignmentType {
		case models.AssignmentTypeFixed:
			placed = placeFixed(tpl, active, dates)
		case models.AssignmentTypeRotate:
			placed = placeRotate(tpl, active, dates)
		default:
			placed = placeAuto(tpl, activeMembers, dates, weekDates, loads, rng)
		}

		if placed == nil {
			plan.SkippedTemplateIDs = append(plan.SkippedTemplateIDs, tpl.ID)
			continue
		}
		plan.Placements = append(plan.Placements, placed...)
	}

	for i := range bonus {
		tpl := &bonus[i]
		dates, err := ExpandDates(plan.WeekOf, tpl.IntervalDays)
		if err != nil {
			plan.SkippedTemplateIDs = append(plan.SkippedTemplateIDs, tpl.ID)
			continue
		}
		for _, d := range dates {
			for _, member := range activeMembers {
				plan.Placements = append(plan.Placements, Placement{
					TemplateID: tpl.ID,
					MemberID:   member,
					Date:       d,
					Points:     tpl.Points,
					IsBonus:    true,
				})
			}
		}
	}

	return plan
}
