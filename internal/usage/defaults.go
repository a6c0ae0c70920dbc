package usage

import "time"

// Starter is the only plan for now: ten analyses per rolling week.
const (
	defaultPlan  = "Starter"
	defaultLimit = 10
	periodLength = 7 * 24 * time.Hour
)

func defaultUsage() Usage {
	return Usage{
		Plan:     defaultPlan,
		Limit:    defaultLimit,
		ResetsAt: time.Now().UTC().Add(periodLength),
	}
}
