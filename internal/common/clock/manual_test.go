package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ManualClockTestSuite struct {
	suite.Suite
	start time.Time
	clock *Manual
}

func (s *ManualClockTestSuite) SetupTest() {
	s.start = time.Date(2025, 12, 1, 20, 0, 0, 0, time.UTC)
	s.clock = NewManual(s.start)
}

func TestManualClockTestSuite(t *testing.T) {
	suite.Run(t, new(ManualClockTestSuite))
}

func (s *ManualClockTestSuite) TestAdvanceFiresInDeadlineOrder() {
	var fired []string
	s.clock.AfterFunc(30*time.Second, func() { fired = append(fired, "late") })
	s.clock.AfterFunc(10*time.Second, func() { fired = append(fired, "early") })

	s.clock.Advance(20 * time.Second)
	s.Equal([]string{"early"}, fired)
	s.Equal(s.start.Add(20*time.Second), s.clock.Now())

	s.clock.Advance(10 * time.Second)
	s.Equal([]string{"early", "late"}, fired)
	s.Equal(0, s.clock.Pending())
}

func (s *ManualClockTestSuite) TestStopPreventsCallback() {
	fired := false
	t := s.clock.AfterFunc(time.Second, func() { fired = true })

	s.True(t.Stop())
	s.False(t.Stop())

	s.clock.Advance(time.Minute)
	s.False(fired)
}

func (s *ManualClockTestSuite) TestCallbackScheduledDuringAdvance() {
	var fired []time.Time
	s.clock.AfterFunc(time.Second, func() {
		fired = append(fired, s.clock.Now())
		s.clock.AfterFunc(time.Second, func() {
			fired = append(fired, s.clock.Now())
		})
	})

	s.clock.Advance(5 * time.Second)

	s.Require().Len(fired, 2)
	s.Equal(s.start.Add(time.Second), fired[0])
	s.Equal(s.start.Add(2*time.Second), fired[1])
}
