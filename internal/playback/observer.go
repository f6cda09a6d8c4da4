package playback

// Listener receives playback lifecycle hooks.
//
// Hooks are called on the main context in a strict order for one session and
// must return without blocking: anything slow is handed to a goroutine.
// OnEngineReleased may be delivered more than once.
type Listener interface {
	OnInitDone()
	OnVideoLoaded(v *Video)
	OnPlay()
	OnPause()
	OnPlayEnd()
	OnEngineReleased()
	OnViewResumed()
}

// BaseListener provides no-op hooks for embedding.
type BaseListener struct{}

func (BaseListener) OnInitDone()            {}
func (BaseListener) OnVideoLoaded(_ *Video) {}
func (BaseListener) OnPlay()                {}
func (BaseListener) OnPause()               {}
func (BaseListener) OnPlayEnd()             {}
func (BaseListener) OnEngineReleased()      {}
func (BaseListener) OnViewResumed()         {}

// Observer fans lifecycle hooks out to its listeners in registration order
// and tracks the active control surface.
type Observer struct {
	listeners  []Listener
	controller Controller
}

// NewObserver creates an observer with no listeners and no session.
func NewObserver() *Observer {
	return &Observer{}
}

// Add registers a listener. Listeners must be added before the first hook.
func (o *Observer) Add(l Listener) {
	o.listeners = append(o.listeners, l)
}

// Controller returns the active control surface, or nil.
func (o *Observer) Controller() Controller {
	return o.controller
}

// SetController installs the control surface of a new session.
func (o *Observer) SetController(c Controller) {
	o.controller = c
}

func (o *Observer) OnInitDone() {
	for _, l := range o.listeners {
		l.OnInitDone()
	}
}

func (o *Observer) OnVideoLoaded(v *Video) {
	for _, l := range o.listeners {
		l.OnVideoLoaded(v)
	}
}

func (o *Observer) OnPlay() {
	for _, l := range o.listeners {
		l.OnPlay()
	}
}

func (o *Observer) OnPause() {
	for _, l := range o.listeners {
		l.OnPause()
	}
}

func (o *Observer) OnPlayEnd() {
	for _, l := range o.listeners {
		l.OnPlayEnd()
	}
}

// OnEngineReleased notifies listeners while the control surface is still
// visible, then drops it.
func (o *Observer) OnEngineReleased() {
	for _, l := range o.listeners {
		l.OnEngineReleased()
	}
	o.controller = nil
}

func (o *Observer) OnViewResumed() {
	for _, l := range o.listeners {
		l.OnViewResumed()
	}
}

// Verify Observer implements Listener and ControllerSource at compile time.
var (
	_ Listener         = (*Observer)(nil)
	_ ControllerSource = (*Observer)(nil)
)
