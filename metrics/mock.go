package metrics

import "sync"

// Mock records calls for assertions in tests. It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	operations          map[string]int
	rejections          map[string]int
	durations           map[string][]float64
	standingsRecomputed int
	publishFailures     map[string]int
	liveViewers         int
}

func NewMock() *Mock {
	return &Mock{
		operations:      make(map[string]int),
		rejections:      make(map[string]int),
		durations:       make(map[string][]float64),
		publishFailures: make(map[string]int),
	}
}

func (m *Mock) IncOperation(op string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[op+"/"+outcome]++
}

func (m *Mock) IncRejection(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections[kind]++
}

func (m *Mock) ObserveOperationDuration(op string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[op] = append(m.durations[op], seconds)
}

func (m *Mock) IncStandingsRecomputed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standingsRecomputed++
}

func (m *Mock) IncPublishFailure(target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishFailures[target]++
}

func (m *Mock) SetLiveViewers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveViewers = n
}

// Operations returns how often op finished with outcome.
func (m *Mock) Operations(op, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.operations[op+"/"+outcome]
}

func (m *Mock) Rejections(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejections[kind]
}

func (m *Mock) Durations(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.durations[op])
}

func (m *Mock) StandingsRecomputed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standingsRecomputed
}

func (m *Mock) PublishFailures(target string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.publishFailures[target]
}

func (m *Mock) LiveViewers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveViewers
}
