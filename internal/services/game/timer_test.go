package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/czar/internal/common/clock"
)

type RoundTimerTestSuite struct {
	suite.Suite
	clock   *clock.Manual
	timer   *RoundTimer
	warned  []time.Duration
	expired int
}

func (s *RoundTimerTestSuite) SetupTest() {
	s.clock = clock.NewManual(time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC))
	s.timer = newRoundTimer(s.clock, 120*time.Second, func(f func()) { f() })
	s.warned = nil
	s.expired = 0
}

func TestRoundTimerTestSuite(t *testing.T) {
	suite.Run(t, new(RoundTimerTestSuite))
}

func (s *RoundTimerTestSuite) start() {
	s.timer.Start(func(left time.Duration) {
		s.warned = append(s.warned, left)
	}, func() {
		s.expired++
	})
}

func (s *RoundTimerTestSuite) TestWarnsThenExpires() {
	s.start()

	s.clock.Advance(59 * time.Second)
	s.Empty(s.warned)

	s.clock.Advance(time.Second)
	s.Equal([]time.Duration{60 * time.Second}, s.warned)

	s.clock.Advance(60 * time.Second)
	s.Equal([]time.Duration{60 * time.Second, 30 * time.Second, 10 * time.Second}, s.warned)
	s.Equal(1, s.expired)
	s.False(s.timer.Active())
	s.Equal(0, s.clock.Pending())
}

func (s *RoundTimerTestSuite) TestRestartingFiresOnlyOnce() {
	s.start()
	s.clock.Advance(100 * time.Second)
	s.start()
	s.start()

	s.clock.Advance(10 * time.Minute)

	s.Equal(1, s.expired)
	s.Equal(0, s.clock.Pending())
}

func (s *RoundTimerTestSuite) TestStopCancelsEverything() {
	s.start()
	s.timer.Stop()

	s.clock.Advance(10 * time.Minute)

	s.Empty(s.warned)
	s.Zero(s.expired)
	s.Equal(0, s.clock.Pending())
}

func (s *RoundTimerTestSuite) TestShortLimitSkipsElapsedWarnings() {
	s.timer = newRoundTimer(s.clock, 20*time.Second, func(f func()) { f() })
	s.start()

	s.clock.Advance(20 * time.Second)

	s.Equal([]time.Duration{10 * time.Second}, s.warned)
	s.Equal(1, s.expired)
}

func (s *RoundTimerTestSuite) TestPauseKeepsElapsedTime() {
	s.start()
	s.clock.Advance(50 * time.Second)

	elapsed := s.timer.Pause()
	s.Equal(50*time.Second, elapsed)

	s.clock.Advance(time.Hour)
	s.Empty(s.warned)
	s.Zero(s.expired)
	s.Equal(50*time.Second, s.timer.Elapsed())

	s.timer.Resume()
	s.clock.Advance(69 * time.Second)
	s.Zero(s.expired)
	s.Equal([]time.Duration{60 * time.Second, 30 * time.Second, 10 * time.Second}, s.warned)

	s.clock.Advance(time.Second)
	s.Equal(1, s.expired)
}

func (s *RoundTimerTestSuite) TestResumeSkipsWarningsAlreadyPassed() {
	s.start()
	s.clock.Advance(95 * time.Second)
	s.timer.Pause()
	s.warned = nil

	s.timer.Resume()
	s.clock.Advance(25 * time.Second)

	s.Equal([]time.Duration{10 * time.Second}, s.warned)
	s.Equal(1, s.expired)
}

type DeferredActionTestSuite struct {
	suite.Suite
	clock  *clock.Manual
	action *deferredAction
	runs   int
}

func (s *DeferredActionTestSuite) SetupTest() {
	s.clock = clock.NewManual(time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC))
	s.action = newDeferredAction(s.clock, func(f func()) { f() })
	s.runs = 0
}

func TestDeferredActionTestSuite(t *testing.T) {
	suite.Run(t, new(DeferredActionTestSuite))
}

func (s *DeferredActionTestSuite) run() {
	s.runs++
}

func (s *DeferredActionTestSuite) TestRunsOnceAfterDelay() {
	s.True(s.action.Schedule(3*time.Second, s.run))
	s.True(s.action.Pending())

	s.clock.Advance(2 * time.Second)
	s.Zero(s.runs)

	s.clock.Advance(time.Second)
	s.Equal(1, s.runs)
	s.False(s.action.Pending())
}

func (s *DeferredActionTestSuite) TestSecondScheduleIsIgnoredWhilePending() {
	s.True(s.action.Schedule(3*time.Second, s.run))
	s.False(s.action.Schedule(3*time.Second, s.run))

	s.clock.Advance(time.Minute)
	s.Equal(1, s.runs)
}

func (s *DeferredActionTestSuite) TestZeroDelayRunsImmediately() {
	s.True(s.action.Schedule(0, s.run))
	s.Equal(1, s.runs)
	s.False(s.action.Pending())
}

func (s *DeferredActionTestSuite) TestCancel() {
	s.action.Schedule(3*time.Second, s.run)
	s.True(s.action.Cancel())
	s.False(s.action.Cancel())

	s.clock.Advance(time.Minute)
	s.Zero(s.runs)
}

func (s *DeferredActionTestSuite) TestFlushRunsNow() {
	s.action.Schedule(3*time.Second, s.run)
	s.True(s.action.Flush())
	s.Equal(1, s.runs)

	s.clock.Advance(time.Minute)
	s.Equal(1, s.runs)
	s.False(s.action.Flush())
}
