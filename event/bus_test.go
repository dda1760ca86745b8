package event

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestEmitDeliversInRegistrationOrder(t *testing.T) {
	bus := NewBus(nil)
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		bus.On(EventGameStart, func(any) { order = append(order, i) })
	}

	bus.Emit(EventGameStart, nil)

	for i, v := range order {
		if v != i {
			t.Fatalf("Expected order 0..4, got %v", order)
		}
	}
	if len(order) != 5 {
		t.Errorf("Expected 5 deliveries, got %d", len(order))
	}
}

func TestPanickingHandlerDoesNotBlockOthers(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(log.New(&buf, "", 0))

	called := 0
	bus.On(EventGameOver, func(any) { called++ })
	bus.On(EventGameOver, func(any) { panic("boom") })
	bus.On(EventGameOver, func(any) { called++ })

	bus.Emit(EventGameOver, GameOverPayload{Score: 1})

	if called != 2 {
		t.Errorf("Expected 2 healthy handlers to run, got %d", called)
	}
	if bus.Failures() != 1 {
		t.Errorf("Expected 1 recorded failure, got %d", bus.Failures())
	}
	if !strings.Contains(buf.String(), "panicked: boom") {
		t.Errorf("Expected panic to be logged, got %q", buf.String())
	}
}

func TestOnceFiresOnce(t *testing.T) {
	bus := NewBus(nil)
	n := 0
	bus.Once(EventGameReset, func(any) { n++ })

	bus.Emit(EventGameReset, nil)
	bus.Emit(EventGameReset, nil)

	if n != 1 {
		t.Errorf("Expected once handler to fire 1 time, got %d", n)
	}
	if bus.HasListeners(EventGameReset) {
		t.Error("Expected once handler to be unregistered")
	}
}

func TestOnceReentrantEmit(t *testing.T) {
	bus := NewBus(nil)
	n := 0
	bus.Once(EventGameStart, func(any) {
		n++
		bus.Emit(EventGameStart, nil)
	})

	bus.Emit(EventGameStart, nil)
	if n != 1 {
		t.Errorf("Expected nested emit to skip consumed once handler, got %d calls", n)
	}
}

func TestOffRemovesOnlyTarget(t *testing.T) {
	bus := NewBus(nil)
	var got []string
	a := bus.On(EventScoreChange, func(any) { got = append(got, "a") })
	bus.On(EventScoreChange, func(any) { got = append(got, "b") })

	if !bus.Off(EventScoreChange, a) {
		t.Fatal("Expected Off to find listener")
	}
	if bus.Off(EventScoreChange, a) {
		t.Error("Expected second Off to report missing listener")
	}

	bus.Emit(EventScoreChange, ScoreChangePayload{})
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("Expected only b, got %v", got)
	}
	if bus.ListenerCount(EventScoreChange) != 1 {
		t.Errorf("Expected 1 listener, got %d", bus.ListenerCount(EventScoreChange))
	}
}

func TestHandlerRemovedDuringEmitStillSeesSnapshot(t *testing.T) {
	bus := NewBus(nil)
	var second ListenerID
	calls := 0
	bus.On(EventUpdate, func(any) {
		calls++
		bus.Off(EventUpdate, second)
	})
	second = bus.On(EventUpdate, func(any) { calls++ })

	bus.Emit(EventUpdate, UpdatePayload{})
	if calls != 2 {
		t.Errorf("Expected snapshot delivery to both handlers, got %d", calls)
	}

	calls = 0
	bus.Emit(EventUpdate, UpdatePayload{})
	if calls != 1 {
		t.Errorf("Expected removal to apply on next emit, got %d", calls)
	}
}

func TestClearAndHasListeners(t *testing.T) {
	bus := NewBus(nil)
	if bus.HasListeners(EventError) {
		t.Error("Expected no listeners on fresh bus")
	}
	bus.On(EventError, func(any) {})
	if !bus.HasListeners(EventError) {
		t.Error("Expected listener after On")
	}
	bus.Clear()
	if bus.HasListeners(EventError) {
		t.Error("Expected Clear to drop listeners")
	}
}

func TestDebugLogsEmissions(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus(log.New(&buf, "", 0))

	bus.Emit(EventWaveStart, WavePayload{Wave: 3})
	if buf.Len() != 0 {
		t.Errorf("Expected no output with debug off, got %q", buf.String())
	}

	bus.SetDebug(true)
	bus.Emit(EventWaveStart, WavePayload{Wave: 3})
	if !strings.Contains(buf.String(), "wave:start") || !strings.Contains(buf.String(), "Wave:3") {
		t.Errorf("Expected event name and payload in log, got %q", buf.String())
	}
}

func TestRegistryCoversCatalog(t *testing.T) {
	seen := make(map[string]EventType)
	for _, et := range AllTypes() {
		name := GetEventName(et)
		if name == "" {
			t.Errorf("Event %d has no registered name", et)
			continue
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("Name %q registered for %d and %d", name, prev, et)
		}
		seen[name] = et

		back, ok := GetEventType(name)
		if !ok || back != et {
			t.Errorf("GetEventType(%q) = %d, %v", name, back, ok)
		}
	}
}

func TestPayloadMatches(t *testing.T) {
	tests := []struct {
		et      EventType
		payload any
		want    bool
	}{
		{EventGameStart, nil, true},
		{EventGameStart, GameOverPayload{}, false},
		{EventGameOver, GameOverPayload{Score: 5, Reason: "Player died"}, true},
		{EventGameOver, &GameOverPayload{}, false},
		{EventGameOver, nil, false},
		{EventEnemyDead, EnemyDeadPayload{ID: "enemy_x"}, true},
	}
	for _, tt := range tests {
		if got := PayloadMatches(tt.et, tt.payload); got != tt.want {
			t.Errorf("PayloadMatches(%s, %T) = %v, expected %v", tt.et, tt.payload, got, tt.want)
		}
	}

	if _, ok := NewPayloadStruct(EventWaveStart).(*WavePayload); !ok {
		t.Error("Expected *WavePayload from NewPayloadStruct")
	}
	if NewPayloadStruct(EventGamePause) != nil {
		t.Error("Expected nil payload struct for payload-less event")
	}
}

func TestUnknownTypeString(t *testing.T) {
	if got := EventType(9999).String(); got != "event(9999)" {
		t.Errorf("Expected fallback name, got %q", got)
	}
}
