package health

// Analyzer converts metric snapshots into a health report.
type Analyzer struct {
	snapshot func() map[string]int64
	rules    []Rule
}

// NewAnalyzer creates an analyzer over a snapshot source, typically
// the store's Metrics method.
func NewAnalyzer(snapshot func() map[string]int64) *Analyzer {
	return &Analyzer{
		snapshot: snapshot,
		rules: []Rule{
			CallbackFailureRule,
			MissHeavyRule,
			SweepChurnRule,
		},
	}
}

// Analyze evaluates all rules against a fresh snapshot.
func (ha *Analyzer) Analyze() Report {
	snapshot := ha.snapshot()

	var (
		signals         = []string{}
		recommendations = []string{}
		status          = StatusOK
	)

	for _, rule := range ha.rules {
		result := rule(snapshot)
		if !result.Triggered {
			continue
		}

		signals = append(signals, result.Signal)
		recommendations = append(recommendations, result.Recommendation)

		// Escalate status
		if result.Severity == StatusCritical {
			status = StatusCritical
		} else if result.Severity == StatusDegraded && status == StatusOK {
			status = StatusDegraded
		}
	}

	summary := "Store is healthy"
	if status != StatusOK {
		summary = "Store health issues detected"
	}

	return Report{
		OverallStatus:   status,
		Summary:         summary,
		Signals:         signals,
		Recommendations: recommendations,
	}
}
