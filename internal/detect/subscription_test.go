package detect

import (
	"errors"
	"testing"
	"testing/synctest"

	"github.com/llehouerou/chorus/internal/identify"
)

func TestNewSubscription_ChannelsReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendState(StateChange{Previous: StateIdle, Current: StateListening})
		sub.sendTrack(TrackChange{Current: &identify.Track{Name: "Song"}})
		sub.sendError(ErrorEvent{Operation: "identify", Err: errors.New("timeout")})

		if e := <-sub.StateChanged; e.Current != StateListening {
			t.Errorf("StateChanged.Current = %v, want Listening", e.Current)
		}
		if tr := <-sub.TrackChanged; tr.Current == nil || tr.Current.Name != "Song" {
			t.Errorf("TrackChanged.Current = %+v", tr.Current)
		}
		if e := <-sub.Error; e.Operation != "identify" {
			t.Errorf("Error.Operation = %q", e.Operation)
		}
	})
}

func TestSubscription_Close_SignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSubscription_NonBlocking_DropsWhenFull(t *testing.T) {
	sub := newSubscription()
	for range eventBufferSize + 5 {
		sub.sendState(StateChange{Current: StateListening})
	}
	if n := len(sub.StateChanged); n != eventBufferSize {
		t.Errorf("buffered events = %d, want %d", n, eventBufferSize)
	}
}
