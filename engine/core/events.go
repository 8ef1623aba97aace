package core

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed. Data is *KeyEvent.
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released. Data is *KeyEvent.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Resized/resolution changed from the OS. Data is *SystemEvent.
	EVENT_CODE_RESIZED EventCode = 0x08

	MAX_EVENT_CODE EventCode = 0xFF
)

type KeyEvent struct {
	KeyCode KeyCode
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type EventContext struct {
	Type EventCode
	Data interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	id       uint32
	callback FnOnEvent
}

/**
 * @brief Synchronous publish/subscribe dispatcher. Listeners run on the
 * goroutine that calls Fire, in registration order; a listener returning
 * true stops the event from reaching later listeners.
 */
type EventBus struct {
	registered map[EventCode][]registeredEvent
	nextID     uint32
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[EventCode][]registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code.
 * @param code The event code to listen for.
 * @param onEvent The callback invoked when the event code is fired.
 * @returns A handle that can be passed to Unregister.
 */
func (b *EventBus) Register(code EventCode, onEvent FnOnEvent) uint32 {
	b.nextID++
	b.registered[code] = append(b.registered[code], registeredEvent{
		id:       b.nextID,
		callback: onEvent,
	})
	return b.nextID
}

// Unregister removes the listener with the given handle. It returns false
// when nothing matched.
func (b *EventBus) Unregister(code EventCode, id uint32) bool {
	events := b.registered[code]
	for i, e := range events {
		if e.id == id {
			b.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func (b *EventBus) Fire(context EventContext) bool {
	for _, e := range b.registered[context.Type] {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// Shutdown drops every listener.
func (b *EventBus) Shutdown() {
	b.registered = make(map[EventCode][]registeredEvent)
}
