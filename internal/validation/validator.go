// Package validation runs pre-flight checks over local state before it is
// pushed to the remote, catching rows that would violate server constraints
// while the client is still able to explain the problem to the user.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/models"
)

// FailureType represents the type of validation failure
type FailureType string

const (
	FailureMissingID          FailureType = "missing_id"
	FailureDuplicateHabitName FailureType = "duplicate_habit_name"
	FailureDuplicateLogDay    FailureType = "duplicate_log_day"
	FailureInvalidDate        FailureType = "invalid_date"
	FailureNegativeCounter    FailureType = "negative_counter"
	FailureInvalidTarget      FailureType = "invalid_target"
	FailureInvertedWindow     FailureType = "inverted_window"
	FailureCounterOverTarget  FailureType = "counter_over_target"
)

// Failure represents a detected problem in local state
type Failure struct {
	Type        FailureType
	Description string
	Items       []string // names of the rows involved
	IDs         []string // ids of the rows involved
}

// Result contains all detected failures
type Result struct {
	Failures []Failure
}

func (r *Result) add(t FailureType, description string, items, ids []string) {
	r.Failures = append(r.Failures, Failure{
		Type:        t,
		Description: description,
		Items:       items,
		IDs:         ids,
	})
}

// HasFailures reports whether any check failed.
func (r *Result) HasFailures() bool {
	return len(r.Failures) > 0
}

// FormatReport renders the failures as a human-readable list.
func (r *Result) FormatReport() string {
	if !r.HasFailures() {
		return "no problems found"
	}

	var b strings.Builder
	for i, f := range r.Failures {
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, f.Type, f.Description)
		if len(f.Items) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(f.Items, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks the habit list and logs for rows the server would
// reject: missing ids, duplicate names, duplicate (habit, day) log rows,
// and malformed dates.
func (v *Validator) ValidateHabits(habits []models.Habit, logs []models.HabitLog) *Result {
	result := &Result{}

	seenNames := make(map[string][]string)
	for _, h := range habits {
		if h.ID == "" {
			result.add(FailureMissingID, "habit has no id", []string{h.Name}, nil)
		}
		key := strings.ToLower(strings.TrimSpace(h.Name))
		seenNames[key] = append(seenNames[key], h.ID)
	}
	for name, ids := range seenNames {
		if len(ids) > 1 {
			sort.Strings(ids)
			result.add(FailureDuplicateHabitName,
				fmt.Sprintf("habit name %q is used %d times", name, len(ids)), nil, ids)
		}
	}

	seenDays := make(map[string]int)
	for _, l := range logs {
		if _, err := time.Parse(constants.DateFormat, l.Day); err != nil {
			result.add(FailureInvalidDate,
				fmt.Sprintf("log day %q is not a valid date", l.Day), nil, []string{l.ID})
			continue
		}
		seenDays[l.HabitID+"|"+l.Day]++
	}
	for key, n := range seenDays {
		if n > 1 {
			result.add(FailureDuplicateLogDay,
				fmt.Sprintf("habit day logged %d times", n), []string{key}, nil)
		}
	}

	return result
}

// ValidateProgress checks a day row for values the server would reject.
func (v *Validator) ValidateProgress(p models.DailyProgress) *Result {
	result := &Result{}

	if p.ID == "" {
		result.add(FailureMissingID, "progress row has no id", []string{p.Day}, nil)
	}
	if _, err := time.Parse(constants.DateFormat, p.Day); err != nil {
		result.add(FailureInvalidDate,
			fmt.Sprintf("day %q is not a valid date", p.Day), nil, []string{p.ID})
	}

	counters := map[string]int{
		"steps":          p.Steps,
		"water":          p.WaterML,
		"active minutes": p.ActiveMinutes,
		"steps goal":     p.StepsGoal,
		"water goal":     p.WaterGoalML,
		"active goal":    p.ActiveMinutesGoal,
	}
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if counters[name] < 0 {
			result.add(FailureNegativeCounter,
				fmt.Sprintf("%s is negative (%d)", name, counters[name]), nil, []string{p.ID})
		}
	}

	return result
}

// ValidateChallenge checks a challenge for values that would break the
// completion latch: a non-positive target, a counter past the target on an
// incomplete row, or a window that ends before it starts.
func (v *Validator) ValidateChallenge(c models.Challenge) *Result {
	result := &Result{}

	if c.ID == "" {
		result.add(FailureMissingID, "challenge has no id", []string{c.Name}, nil)
	}
	if c.Target <= 0 {
		result.add(FailureInvalidTarget,
			fmt.Sprintf("target must be positive, got %d", c.Target), []string{c.Name}, []string{c.ID})
	}
	if !c.IsCompleted && c.Target > 0 && c.Current > c.Target {
		result.add(FailureCounterOverTarget,
			fmt.Sprintf("counter %d exceeds target %d on an incomplete challenge", c.Current, c.Target),
			[]string{c.Name}, []string{c.ID})
	}
	if c.StartsAt != nil && c.EndsAt != nil && !c.EndsAt.After(*c.StartsAt) {
		result.add(FailureInvertedWindow,
			"challenge window ends before it starts", []string{c.Name}, []string{c.ID})
	}

	return result
}
