package blinkmenu

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRig struct {
	app   *App
	gpio  *fakeGPIO
	clock *fakeClock
	disp  *fakeDisplay
	pres  *fakePresenter
	log   *fakeLogger
	cfg   Config
}

func newTestRig(t *testing.T, mutate func(*Config)) *testRig {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	r := &testRig{
		gpio:  newFakeGPIO(),
		clock: &fakeClock{},
		disp:  newFakeDisplay(96, 64),
		pres:  newFakePresenter(),
		log:   &fakeLogger{},
		cfg:   cfg,
	}
	r.clock.now.Store(1000)

	app, err := New(cfg, r.gpio, r.disp, r.clock)
	require.NoError(t, err)
	app.SetLogger(r.log)
	app.SetPresenter(r.pres)
	r.app = app
	return r
}

func newInitializedRig(t *testing.T, mutate func(*Config)) *testRig {
	t.Helper()
	r := newTestRig(t, mutate)
	require.NoError(t, r.app.Init())
	// drain the initial render
	r.next(t)
	return r
}

// press fires the interrupt for id a full bounce window after the previous press.
func (r *testRig) press(id ButtonID) {
	r.clock.advance(r.cfg.BounceWindow())
	r.gpio.fire(r.cfg.ButtonPin(id))
}

func (r *testRig) next(t *testing.T) menuSnapshot {
	t.Helper()
	select {
	case s := <-r.pres.ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("menu was not presented")
		return menuSnapshot{}
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(DefaultConfig(), nil, newFakeDisplay(96, 64), nil)
	assert.Error(t, err)

	_, err = New(DefaultConfig(), newFakeGPIO(), nil, nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.LED = cfg.ButtonUp
	_, err = New(cfg, newFakeGPIO(), newFakeDisplay(96, 64), nil)
	assert.Equal(t, ErrInvalidConfig, errors.Cause(err))
}

func TestInit_ConfiguresHardware(t *testing.T) {
	r := newTestRig(t, nil)
	require.NoError(t, r.app.Init())

	for _, id := range Buttons {
		pin := r.cfg.ButtonPin(id)
		assert.Equal(t, inputConfig{pull: PullUp, edge: EdgeFalling}, r.gpio.inputs[pin], "%s button", id)
		assert.NotNil(t, r.gpio.handlers[pin], "%s button handler", id)
	}
	_, ok := r.gpio.outputs[r.cfg.LED]
	assert.True(t, ok, "led configured as output")

	s := r.next(t)
	assert.Equal(t, 0, s.selected)
	assert.Equal(t, statusOffline, s.status)

	// the splash has a white border
	assert.Equal(t, uint8(0xFF), r.disp.pixel(0, 0).R)
	assert.Positive(t, r.disp.flushes())

	assert.Equal(t, DefaultQueueCapacity, r.app.Queue().Cap())
	assert.Equal(t, BounceWindow, r.app.Debouncer().Window())
	assert.Equal(t, 2, r.app.Menu().Len())
}

func TestInit_Twice(t *testing.T) {
	r := newInitializedRig(t, nil)
	assert.Equal(t, ErrAlreadyInitialized, r.app.Init())
}

func TestInit_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *fakeGPIO)
	}{
		{
			name:  "led output",
			setup: func(g *fakeGPIO) { g.failOut = true },
		},
		{
			name:  "select input",
			setup: func(g *fakeGPIO) { g.failInput = DefaultConfig().ButtonSelect },
		},
		{
			name:  "interrupt registration",
			setup: func(g *fakeGPIO) { g.failIRQ = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(t, nil)
			tt.setup(r.gpio)
			err := r.app.Init()
			require.Error(t, err)
			assert.Equal(t, errFakeGPIO, errors.Cause(err))
			assert.Equal(t, ErrNotInitialized, r.app.Start(context.Background()))
		})
	}
}

func TestInit_RetryAfterPresentFailure(t *testing.T) {
	r := newTestRig(t, func(c *Config) { c.FlipDisplay = true })
	r.pres.setErr(errors.New("spi write failed"))

	require.Error(t, r.app.Init())
	upPin := r.cfg.ButtonPin(ButtonUp)
	r.gpio.fire(upPin)
	assert.Equal(t, 0, r.app.Queue().Len(), "edges ignored until init succeeds")

	r.pres.setErr(nil)
	require.NoError(t, r.app.Init())

	// still rotated exactly once
	marker := color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}
	r.app.display.SetPixel(0, 0, marker)
	assert.Equal(t, marker, r.disp.pixel(95, 63))

	r.clock.advance(r.cfg.BounceWindow())
	r.gpio.fire(upPin)
	assert.Equal(t, 1, r.app.Queue().Len())
}

func TestInit_MissingSplash(t *testing.T) {
	r := newTestRig(t, func(c *Config) { c.Splash = "nope" })
	require.NoError(t, r.app.Init())
	assert.True(t, r.log.contains("nope"))
}

func TestOnEdge_QuickEdgesCollapse(t *testing.T) {
	r := newInitializedRig(t, nil)
	r.app.Menu().MoveDown()
	upPin := r.cfg.ButtonPin(ButtonUp)

	for i := 0; i < 3; i++ {
		r.clock.advance(10)
		r.gpio.fire(upPin)
	}
	require.Equal(t, 1, r.app.Queue().Len())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	id, ok := r.app.Queue().Pop(ctx)
	require.True(t, ok)
	assert.Equal(t, ButtonUp, id)

	require.NoError(t, r.app.HandleEvent(id))
	assert.Equal(t, 0, r.app.Menu().Selected())
}

func TestOnEdge_BeforeInit(t *testing.T) {
	r := newTestRig(t, nil)
	assert.NotPanics(t, func() { r.app.OnEdge(ButtonUp) })
}

func TestHandleEvent_Actions(t *testing.T) {
	r := newInitializedRig(t, nil)

	require.NoError(t, r.app.HandleEvent(ButtonSelect))
	assert.True(t, r.app.Connected())
	assert.Equal(t, statusOnline, r.next(t).status)
	assert.True(t, r.log.contains("Connect"))

	require.NoError(t, r.app.HandleEvent(ButtonDown))
	assert.Equal(t, 1, r.next(t).selected)

	require.NoError(t, r.app.HandleEvent(ButtonSelect))
	assert.False(t, r.app.Connected())
	assert.Equal(t, statusOffline, r.next(t).status)
	assert.True(t, r.log.contains("Disconnect"))

	require.NoError(t, r.app.HandleEvent(ButtonID(9)))
	assert.Equal(t, 1, r.app.Menu().Selected())
}

func TestHandleEvent_NotInitialized(t *testing.T) {
	r := newTestRig(t, nil)
	assert.Equal(t, ErrNotInitialized, r.app.HandleEvent(ButtonUp))
}

func TestHandleEvent_LogsDrops(t *testing.T) {
	r := newInitializedRig(t, func(c *Config) { c.QueueCapacity = 2 })

	for i := 0; i < 5; i++ {
		r.press(ButtonDown)
	}
	assert.Equal(t, uint32(3), r.app.Queue().Dropped())

	require.NoError(t, r.app.HandleEvent(ButtonDown))
	assert.True(t, r.log.contains("dropped 3"))
}

func TestStart_EndToEnd(t *testing.T) {
	r := newInitializedRig(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.app.Start(ctx))

	r.press(ButtonDown)
	assert.Equal(t, 1, r.next(t).selected)

	r.press(ButtonUp)
	assert.Equal(t, 0, r.next(t).selected)

	r.press(ButtonSelect)
	s := r.next(t)
	assert.Equal(t, 0, s.selected)
	assert.Equal(t, statusOnline, s.status)
}

func TestStart_Banner(t *testing.T) {
	r := newInitializedRig(t, func(c *Config) { c.Banner = "Running!" })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.app.Start(ctx))

	assert.Eventually(t, func() bool { return r.log.contains("Running!") }, time.Second, 5*time.Millisecond)
}

func TestStart_BlinksLED(t *testing.T) {
	r := newInitializedRig(t, func(c *Config) { c.BlinkPeriod = 5 * time.Millisecond })
	base := r.gpio.levelChanges()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.app.Start(ctx))

	assert.Eventually(t, func() bool { return r.gpio.levelChanges() >= base+4 }, time.Second, time.Millisecond)
}

func TestStart_FatalOnPresentError(t *testing.T) {
	r := newInitializedRig(t, nil)
	fatal := make(chan error, 1)
	r.app.SetFatalHandler(func(err error) { fatal <- err })

	spiErr := errors.New("spi write failed")
	r.pres.setErr(spiErr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.app.Start(ctx))
	r.press(ButtonDown)

	select {
	case err := <-fatal:
		assert.Equal(t, spiErr, errors.Cause(err))
	case <-time.After(2 * time.Second):
		t.Fatal("fatal handler not called")
	}
}

func TestStart_FatalStopsLEDTask(t *testing.T) {
	r := newInitializedRig(t, func(c *Config) { c.BlinkPeriod = 2 * time.Millisecond })
	changesAtFatal := make(chan int, 1)
	r.app.SetFatalHandler(func(error) { changesAtFatal <- r.gpio.levelChanges() })
	r.pres.setErr(errors.New("spi write failed"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.app.Start(ctx))
	base := r.gpio.levelChanges()
	require.Eventually(t, func() bool { return r.gpio.levelChanges() >= base+2 }, time.Second, time.Millisecond)
	r.press(ButtonDown)

	var n int
	select {
	case n = <-changesAtFatal:
	case <-time.After(2 * time.Second):
		t.Fatal("fatal handler not called")
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, r.gpio.levelChanges(), "led left to the fatal handler")
	assert.False(t, r.gpio.level(r.cfg.LED))
}
