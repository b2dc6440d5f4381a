package trainer

// Log is the ordered set of values reported for one epoch.
type Log struct {
	keys   []string
	values map[string]float64
}

func newLog() *Log {
	return &Log{values: make(map[string]float64)}
}

// Set records v under key; the first Set fixes the key's position.
func (l *Log) Set(key string, v float64) {
	if _, ok := l.values[key]; !ok {
		l.keys = append(l.keys, key)
	}
	l.values[key] = v
}

// Get returns the value recorded under key.
func (l *Log) Get(key string) (float64, bool) {
	v, ok := l.values[key]
	return v, ok
}

// Keys lists the recorded keys in insertion order.
func (l *Log) Keys() []string {
	return append([]string(nil), l.keys...)
}

// Attrs flattens the log into slog key/value pairs.
func (l *Log) Attrs() []any {
	attrs := make([]any, 0, 2*len(l.keys))
	for _, k := range l.keys {
		attrs = append(attrs, k, l.values[k])
	}
	return attrs
}
