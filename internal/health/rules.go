package health

import "timedstore/internal/metrics"

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
	Severity       Status
}

// Rule evaluates a metrics snapshot.
type Rule func(snapshot map[string]int64) RuleResult

/* ---------- RULES ---------- */

// Callback failures mean expiration side effects are being lost.
func CallbackFailureRule(snapshot map[string]int64) RuleResult {
	failures := snapshot[string(metrics.CallbackErrorsTotal)]

	if failures > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Expiration callbacks are panicking",
			Recommendation: "Fix the configured callback; its side effects are being dropped",
			Severity:       StatusCritical,
		}
	}
	return RuleResult{}
}

// A miss-heavy read pattern usually means the timeout is shorter than
// the access interval.
func MissHeavyRule(snapshot map[string]int64) RuleResult {
	gets := snapshot[string(metrics.GetsTotal)]
	misses := snapshot[string(metrics.MissesTotal)]

	if gets >= 50 && misses*2 > gets {
		return RuleResult{
			Triggered:      true,
			Signal:         "More than half of reads return no value",
			Recommendation: "Consider a longer timeout or check that readers use the keys writers set",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Constant re-triggering means every sample is saturated with expired
// keys and the sweeper is running hot.
func SweepChurnRule(snapshot map[string]int64) RuleResult {
	passes := snapshot[string(metrics.SweepPassesTotal)]
	retriggers := snapshot[string(metrics.SweepRetriggersTotal)]

	if passes >= 10 && retriggers*2 > passes {
		return RuleResult{
			Triggered:      true,
			Signal:         "Sweep passes are re-triggering more often than they sleep",
			Recommendation: "Raise expired_keys_ratio or sample_probability so bursts drain in fewer passes",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}
