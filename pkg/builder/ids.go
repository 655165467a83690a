package builder

import "time"

// IDSource issues question ids. Ids are Unix milliseconds, bumped past the
// last issued value so rapid additions stay unique and increasing.
type IDSource struct {
	now  func() time.Time
	last int64
}

// NewIDSource returns a source driven by now (time.Now when nil).
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns a fresh id.
func (s *IDSource) Next() int64 {
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe records an existing id so later ids sort after it.
func (s *IDSource) Observe(id int64) {
	if id > s.last {
		s.last = id
	}
}
