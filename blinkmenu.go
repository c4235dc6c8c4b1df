package blinkmenu

import (
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"tinygo.org/x/drivers"

	"github.com/espwerk/blinkmenu/internal/flip"
	"github.com/espwerk/blinkmenu/internal/media"
)

const (
	statusOffline = "offline"
	statusOnline  = "online"
)

// App wires the buttons, the event queue, the menu and the display together.
type App struct {
	cfg     Config
	gpio    GPIO
	panel   drivers.Displayer
	display drivers.Displayer
	clock   Clock
	log     Logger
	led     Blinker
	fatal   func(error)

	presenter Presenter
	debounce  *Debouncer
	queue     *EventQueue
	menu      *Menu

	connected   bool
	lastDropped uint32

	// armed is set once Init has succeeded; edges before that are ignored
	armed atomic.Bool
	init  bool
	start time.Time
}

func New(cfg Config, gpio GPIO, display drivers.Displayer, clock Clock) (*App, error) {
	if gpio == nil {
		return nil, errors.New("must provide gpio")
	}
	if display == nil {
		return nil, errors.New("must provide menu display")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = NewMonotonicClock()
	}

	a := &App{
		cfg:     cfg,
		gpio:    gpio,
		panel:   display,
		display: display,
		clock:   clock,
		log:     ConsoleLogger(cfg.Verbose),
		start:   time.Now(),
	}
	a.fatal = a.panic
	return a, nil
}

// SetLogger replaces the console logger.
func (a *App) SetLogger(l Logger) {
	if l != nil {
		a.log = l
	}
}

// SetPresenter replaces the text presenter Init would otherwise build on the display. It must be called before Init.
func (a *App) SetPresenter(p Presenter) {
	a.presenter = p
}

// SetFatalHandler replaces the default fatal handler, which blinks the LED forever.
func (a *App) SetFatalHandler(f func(error)) {
	if f != nil {
		a.fatal = f
	}
}

// Init brings up every peripheral. Any error is fatal: the board is in an unknown state.
func (a *App) Init() error {
	if a.init {
		return ErrAlreadyInitialized
	}
	a.log.Info("starting init")

	err := a.gpio.ConfigureOutput(a.cfg.LED)
	if err != nil {
		return errors.Wrapf(err, "configure led pin %d", a.cfg.LED)
	}
	a.led = gpioBlinker{gpio: a.gpio, pin: a.cfg.LED}
	a.blink()

	for _, id := range Buttons {
		pin := a.cfg.ButtonPin(id)
		err = a.gpio.ConfigureInput(pin, PullUp, EdgeFalling)
		if err != nil {
			return errors.Wrapf(err, "configure %s button pin %d", id, pin)
		}
	}

	// rebuilt from the panel so a retried Init does not flip twice
	a.display = a.panel
	if a.cfg.FlipDisplay {
		a.display = flip.New(a.panel)
	}
	presenter := a.presenter
	if presenter == nil {
		tp, err := NewTextPresenter(a.display)
		if err != nil {
			return errors.Wrap(err, "init menu")
		}
		presenter = tp
	}
	a.bootMessage(presenter, "BOOTING")
	a.showSplash()

	a.queue, err = NewEventQueue(a.cfg.QueueCapacity)
	if err != nil {
		return errors.Wrap(err, "create event queue")
	}
	a.debounce = NewDebouncer(a.cfg.BounceWindow())

	a.menu, err = NewMenu(a.cfg.MenuTitle,
		&ActionItem{Name: ActionConnect.String(), Action: ActionConnect},
		&ActionItem{Name: ActionDisconnect.String(), Action: ActionDisconnect},
	)
	if err != nil {
		return errors.Wrap(err, "create menu")
	}
	a.menu.Status = statusOffline

	for _, id := range Buttons {
		id := id
		pin := a.cfg.ButtonPin(id)
		err = a.gpio.RegisterInterrupt(pin, func() { a.OnEdge(id) })
		if err != nil {
			return errors.Wrapf(err, "register %s button interrupt on pin %d", id, pin)
		}
	}

	err = presenter.Present(a.menu)
	if err != nil {
		return errors.Wrap(err, "show menu")
	}
	a.presenter = presenter
	a.armed.Store(true)

	a.blink()
	a.init = true
	a.log.Info("init complete in " + time.Since(a.start).Round(100*time.Millisecond).String())
	return nil
}

// bootMessage prints on the display when it is backed by a text buffer.
func (a *App) bootMessage(p Presenter, msg string) {
	tp, ok := p.(*TextPresenter)
	if !ok {
		return
	}
	buf := tp.Buffer()
	buf.Clear()
	_ = buf.SetLineInverse(0, msg)
	mem := runtime.MemStats{}
	runtime.ReadMemStats(&mem)
	_ = buf.SetLine(1, strconv.Itoa(int(mem.HeapSys/1024))+"k RAM")
	_ = buf.Display()
}

func (a *App) showSplash() {
	if a.cfg.Splash == "" {
		return
	}
	img, err := media.LoadImage(media.TypeSplash, a.cfg.Splash)
	if err != nil {
		// the menu still works without it
		a.log.Infof("splash %q: %v", a.cfg.Splash, err)
		return
	}
	media.DrawImage(a.display, 0, 0, img)
	if err = a.display.Display(); err != nil {
		a.log.Infof("splash: %v", err)
	}
}

// OnEdge is the interrupt handler for a falling edge on a button line. It neither blocks nor allocates: presses
// that arrive while the queue is full are counted and dropped. Edges before Init has succeeded are ignored.
func (a *App) OnEdge(id ButtonID) {
	if !a.armed.Load() {
		return
	}
	if !a.debounce.Accept(id, a.clock.Ticks()) {
		return
	}
	a.queue.Push(id)
}

// HandleEvent applies one button press to the menu and redraws it.
func (a *App) HandleEvent(id ButtonID) error {
	if !a.init {
		return ErrNotInitialized
	}
	if d := a.queue.Dropped(); d != a.lastDropped {
		a.log.Debugf("%v: dropped %d presses", ErrQueueFull, d-a.lastDropped)
		a.lastDropped = d
	}

	switch id {
	case ButtonUp:
		a.menu.MoveUp()
	case ButtonDown:
		a.menu.MoveDown()
	case ButtonSelect:
		a.dispatch(a.menu.Select())
	default:
		a.log.Debugf("ignoring unknown button %d", id)
		return nil
	}
	return errors.Wrap(a.presenter.Present(a.menu), "present menu")
}

func (a *App) dispatch(index int) {
	item := a.menu.Item(index)
	if item == nil {
		return
	}
	switch item.Action {
	case ActionConnect:
		a.log.Info("Connect")
		a.connected = true
		a.menu.Status = statusOnline
	case ActionDisconnect:
		a.log.Info("Disconnect")
		a.connected = false
		a.menu.Status = statusOffline
	}
}

// Start launches the consumer, LED and banner tasks. They stop when ctx is done; the banner task stops by itself
// once printed. A fatal error in the consumer stops the LED task before the fatal handler runs, so the handler
// owns the LED.
func (a *App) Start(ctx context.Context) error {
	if !a.init {
		return ErrNotInitialized
	}
	ctx, cancel := context.WithCancel(ctx)
	blinkDone := make(chan struct{})
	go a.consume(ctx, cancel, blinkDone)
	go a.blinkLED(ctx, blinkDone)
	go a.banner()
	return nil
}

// Run does not return. It starts the tasks and then idles.
func (a *App) Run() {
	err := a.Start(context.Background())
	if err != nil {
		a.fatal(err)
	}
	for {
		time.Sleep(a.cfg.IdlePeriod)
	}
}

func (a *App) consume(ctx context.Context, stopBlink context.CancelFunc, blinkDone <-chan struct{}) {
	defer stopBlink()
	for {
		id, ok := a.queue.Pop(ctx)
		if !ok {
			return
		}
		err := a.HandleEvent(id)
		if err != nil {
			stopBlink()
			<-blinkDone
			a.fatal(err)
			return
		}
	}
}

func (a *App) blinkLED(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(a.cfg.BlinkPeriod)
	defer t.Stop()

	on := true
	a.led.High()
	for {
		select {
		case <-ctx.Done():
			a.led.Low()
			return
		case <-t.C:
			on = !on
			if on {
				a.led.High()
			} else {
				a.led.Low()
			}
		}
	}
}

func (a *App) banner() {
	a.log.Info(a.cfg.Banner)
}

func (a *App) Menu() *Menu { return a.menu }

func (a *App) Queue() *EventQueue { return a.queue }

func (a *App) Debouncer() *Debouncer { return a.debounce }

func (a *App) Connected() bool { return a.connected }

// unfortunately you can't recover runtime panics in tinygo, so this is just going to be used for things we detect
// that are fatal
func (a *App) panic(v error) {
	for {
		println(v.Error())
		a.blink()
	}
}

func (a *App) blink() {
	if a.led == nil {
		return
	}
	a.led.High()
	time.Sleep(100 * time.Millisecond)
	a.led.Low()
	time.Sleep(100 * time.Millisecond)
}
