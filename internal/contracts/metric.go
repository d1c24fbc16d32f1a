package contracts

// Metric is a tagged outcome for a computed signal: either a value or
// "unavailable". It keeps "could not compute" distinguishable from
// "computed and failed the threshold" without exception-style control flow.
type Metric[T any] struct {
	value T
	ok    bool
}

// MetricValue wraps a successfully computed value.
func MetricValue[T any](v T) Metric[T] {
	return Metric[T]{value: v, ok: true}
}

// Unavailable is the zero metric: no value could be computed.
func Unavailable[T any]() Metric[T] {
	return Metric[T]{}
}

// Available reports whether a value was computed.
func (m Metric[T]) Available() bool {
	return m.ok
}

// Get returns the value and whether it is available.
func (m Metric[T]) Get() (T, bool) {
	return m.value, m.ok
}

// Or returns the value, or def when unavailable.
func (m Metric[T]) Or(def T) T {
	if m.ok {
		return m.value
	}
	return def
}

// Ptr returns a pointer to the value, or nil when unavailable.
// Used when persisting metrics into nullable columns.
func (m Metric[T]) Ptr() *T {
	if !m.ok {
		return nil
	}
	v := m.value
	return &v
}

// MetricFromPtr converts a nullable column back into a Metric.
func MetricFromPtr[T any](p *T) Metric[T] {
	if p == nil {
		return Unavailable[T]()
	}
	return MetricValue(*p)
}
