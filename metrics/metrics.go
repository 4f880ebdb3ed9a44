package metrics

// Metrics is what the tournament service reports. Implemented by the
// Prometheus-backed Service and by Mock in tests.
type Metrics interface {
	IncOperation(op string, outcome string)
	IncRejection(kind string)
	ObserveOperationDuration(op string, seconds float64)
	IncStandingsRecomputed()
	IncPublishFailure(target string)
	SetLiveViewers(n int)
}

// Noop discards everything. Used when metrics are not wired.
type Noop struct{}

var _ Metrics = Noop{}

func (Noop) IncOperation(string, string)              {}
func (Noop) IncRejection(string)                      {}
func (Noop) ObserveOperationDuration(string, float64) {}
func (Noop) IncStandingsRecomputed()                  {}
func (Noop) IncPublishFailure(string)                 {}
func (Noop) SetLiveViewers(int)                       {}
