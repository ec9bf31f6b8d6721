package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/altomira/chorequest-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planMonday = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

func newRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func fixedTemplate(id uint64, points, interval int, memberIDs ...uint64) models.TaskTemplate {
	return templateWithMembers(id, points, interval, models.AssignmentTypeFixed, memberIDs)
}

func rotateTemplate(id uint64, points, interval int, memberIDs ...uint64) models.TaskTemplate {
	return templateWithMembers(id, points, interval, models.AssignmentTypeRotate, memberIDs)
}

func autoTemplate(id uint64, points, interval int) models.TaskTemplate {
	return templateWithMembers(id, points, interval, models.AssignmentTypeAuto, nil)
}

func templateWithMembers(id uint64, points, interval int, at models.AssignmentType, memberIDs []uint64) models.TaskTemplate {
	tpl := models.TaskTemplate{
		ID:             id,
		Points:         points,
		IntervalDays:   interval,
		IsActive:       true,
		AssignmentType: at,
	}
	for i, m := range memberIDs {
		tpl.Members = append(tpl.Members, models.TemplateMember{TemplateID: id, UserID: m, Position: i})
	}
	return tpl
}

func countByMember(placements []Placement) map[uint64]int {
	counts := make(map[uint64]int)
	for _, p := range placements {
		counts[p.MemberID]++
	}
	return counts
}

func TestBuildWeekPlanFixed(t *testing.T) {
	t.Run("all instances go to the first eligible member", func(t *testing.T) {
		plan := BuildWeekPlan(
			[]models.TaskTemplate{fixedTemplate(1, 10, 1, 42)},
			[]uint64{42, 43},
			planMonday, newRng(1),
		)

		require.Len(t, plan.Placements, 7)
		for _, p := range plan.Placements {
			assert.Equal(t, uint64(42), p.MemberID)
		}
	})

	t.Run("inactive listed members are passed over", func(t *testing.T) {
		plan := BuildWeekPlan(
			[]models.TaskTemplate{fixedTemplate(1, 10, 7, 99, 43)},
			[]uint64{42, 43},
			planMonday, newRng(1),
		)

		require.Len(t, plan.Placements, 1)
		assert.Equal(t, uint64(43), plan.Placements[0].MemberID)
	})

	t.Run("nobody eligible skips the template", func(t *testing.T) {
		plan := BuildWeekPlan(
			[]models.TaskTemplate{fixedTemplate(1, 10, 1, 99)},
			[]uint64{42, 43},
			planMonday, newRng(1),
		)

		assert.Empty(t, plan.Placements)
		assert.Equal(t, []uint64{1}, plan.SkippedTemplateIDs)
	})
}

func TestBuildWeekPlanRotate(t *testing.T) {
	t.Run("daily rotation alternates the listed members", func(t *testing.T) {
		plan := BuildWeekPlan(
			[]models.TaskTemplate{rotateTemplate(1, 10, 1, 7, 8)},
			[]uint64{7, 8},
			planMonday, newRng(1),
		)

		require.Len(t, plan.Placements, 7)
		want := []uint64{7, 8, 7, 8, 7, 8, 7}
		for i, p := range plan.Placements {
			assert.Equal(t, want[i], p.MemberID, "day %d", i)
		}
	})

	t.Run("rotation only cycles active members", func(t *testing.T) {
		plan := BuildWeekPlan(
			[]models.TaskTemplate{rotateTemplate(1, 10, 1, 7, 99, 8)},
			[]uint64{7, 8},
			planMonday, newRng(1),
		)

		require.Len(t, plan.Placements, 7)
		for i, p := range plan.Placements {
			if i%2 == 0 {
				assert.Equal(t, uint64(7), p.MemberID)
			} else {
				assert.Equal(t, uint64(8), p.MemberID)
			}
		}
	})

	t.Run("empty eligible subset skips the template", func(t *testing.T) {
		plan := BuildWeekPlan(
			[]models.TaskTemplate{rotateTemplate(1, 10, 1, 99)},
			[]uint64{7, 8},
			planMonday, newRng(1),
		)

		assert.Empty(t, plan.Placements)
		assert.Equal(t, []uint64{1}, plan.SkippedTemplateIDs)
	})
}

func TestBuildWeekPlanAuto(t *testing.T) {
	t.Run("daily plus weekly split the week fairly", func(t *testing.T) {
		// One daily 20-point chore and one weekly 30-point chore over two
		// members must always produce 8 instances with the daily ones split
		// 4/3, whichever member draws the weekly chore.
		for seed := int64(0); seed < 20; seed++ {
			plan := BuildWeekPlan(
				[]models.TaskTemplate{
					autoTemplate(1, 20, 1),
					autoTemplate(2, 30, 7),
				},
				[]uint64{1, 2},
				planMonday, newRng(seed),
			)

			require.Len(t, plan.Placements, 8, "seed %d", seed)

			daily := make([]Placement, 0, 7)
			var weeklyMember uint64
			for _, p := range plan.Placements {
				if p.TemplateID == 1 {
					daily = append(daily, p)
				} else {
					weeklyMember = p.MemberID
				}
			}
			require.Len(t, daily, 7, "seed %d", seed)

			// The weekly drawer carries 30 extra points, so they take the
			// smaller daily share even when the weekly chore lands on a
			// late weekday.
			counts := countByMember(daily)
			assert.Equal(t, 3, counts[weeklyMember], "seed %d", seed)
			assert.Equal(t, 4, counts[1]+counts[2]-counts[weeklyMember], "seed %d", seed)
		}
	})

	t.Run("weekly chore may land on any weekday", func(t *testing.T) {
		plan := BuildWeekPlan(
			[]models.TaskTemplate{autoTemplate(1, 30, 7)},
			[]uint64{1, 2},
			planMonday, newRng(3),
		)

		require.Len(t, plan.Placements, 1)
		p := plan.Placements[0]
		assert.False(t, p.Date.Before(planMonday))
		assert.False(t, p.Date.After(planMonday.AddDate(0, 0, 6)))
	})

	t.Run("multi-date pattern sticks to one member", func(t *testing.T) {
		plan := BuildWeekPlan(
			[]models.TaskTemplate{autoTemplate(1, 15, 3)},
			[]uint64{1, 2, 3},
			planMonday, newRng(5),
		)

		require.Len(t, plan.Placements, 3)
		first := plan.Placements[0].MemberID
		for _, p := range plan.Placements {
			assert.Equal(t, first, p.MemberID)
		}
	})

	t.Run("no points are lost or duplicated", func(t *testing.T) {
		templates := []models.TaskTemplate{
			autoTemplate(1, 20, 1),
			autoTemplate(2, 30, 7),
			autoTemplate(3, 15, 3),
			autoTemplate(4, 5, 2),
		}
		plan := BuildWeekPlan(templates, []uint64{1, 2, 3}, planMonday, newRng(7))

		placed := 0
		for _, p := range plan.Placements {
			placed += p.Points
		}
		// 7x20 + 1x30 + 3x15 + 4x5
		assert.Equal(t, 140+30+45+20, placed)
	})
}

func TestBuildWeekPlanBonus(t *testing.T) {
	t.Run("bonus templates fan out to every active member", func(t *testing.T) {
		bonus := autoTemplate(1, 10, 7)
		bonus.IsBonus = true

		plan := BuildWeekPlan(
			[]models.TaskTemplate{bonus},
			[]uint64{1, 2, 3},
			planMonday, newRng(1),
		)

		require.Len(t, plan.Placements, 3)
		counts := countByMember(plan.Placements)
		for _, member := range []uint64{1, 2, 3} {
			assert.Equal(t, 1, counts[member])
		}
		for _, p := range plan.Placements {
			assert.True(t, p.IsBonus)
			assert.Equal(t, planMonday, p.Date)
		}
	})

	t.Run("daily bonus creates one instance per member per day", func(t *testing.T) {
		bonus := fixedTemplate(1, 5, 1, 1)
		bonus.IsBonus = true

		plan := BuildWeekPlan(
			[]models.TaskTemplate{bonus},
			[]uint64{1, 2},
			planMonday, newRng(1),
		)

		// Bonus ignores the assignment type: everyone gets every date.
		assert.Len(t, plan.Placements, 14)
	})
}

func TestBuildWeekPlanProcessingOrder(t *testing.T) {
	// The heaviest regular template must be placed first so the weekly
	// 100-point chore anchors one member before the light daily fills in.
	plan := BuildWeekPlan(
		[]models.TaskTemplate{
			autoTemplate(1, 5, 1),
			autoTemplate(2, 100, 7),
		},
		[]uint64{1, 2},
		planMonday, newRng(11),
	)

	var weekly *Placement
	dailyCounts := make(map[uint64]int)
	for i := range plan.Placements {
		p := plan.Placements[i]
		if p.TemplateID == 2 {
			weekly = &plan.Placements[i]
		} else {
			dailyCounts[p.MemberID]++
		}
	}
	require.NotNil(t, weekly)

	// The member who drew the weekly chore carries less of the daily one.
	other := uint64(1)
	if weekly.MemberID == 1 {
		other = 2
	}
	assert.Less(t, dailyCounts[weekly.MemberID], dailyCounts[other])
}
