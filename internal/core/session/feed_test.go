package session

import "testing"

func TestFeedStartsNotReadyButOnline(t *testing.T) {
	f := NewFeed()
	if f.Ready() {
		t.Error("feed ready before any frame")
	}
	if !f.Online() {
		t.Error("feed offline before any netinfo")
	}
	if _, ok := f.Info(); ok {
		t.Error("feed reported connection metadata before any netinfo")
	}
}

func TestFeedFrameMarksReady(t *testing.T) {
	f := NewFeed()
	f.SetFrame([]byte{0xff, 0xd8}, "image/jpeg")
	if !f.Ready() {
		t.Fatal("feed not ready after frame")
	}
	frame, ok := f.Frame()
	if !ok || frame.MIME != "image/jpeg" || len(frame.Data) != 2 {
		t.Errorf("Frame = (%+v, %v)", frame, ok)
	}

	f.SetReady(false)
	if f.Ready() {
		t.Error("SetReady(false) did not take")
	}
	if _, ok := f.Frame(); !ok {
		t.Error("last frame discarded by SetReady(false)")
	}
}

func TestFeedNetInfo(t *testing.T) {
	f := NewFeed()
	f.SetNetInfo(true, "3g", 2.5)
	info, ok := f.Info()
	if !ok || info.EffectiveType != "3g" || info.DownlinkMbps != 2.5 {
		t.Errorf("Info = (%+v, %v)", info, ok)
	}

	f.SetNetInfo(false, "", 0)
	if f.Online() {
		t.Error("feed online after offline report")
	}
	if _, ok := f.Info(); ok {
		t.Error("empty metadata treated as known connection info")
	}
}
