package matchclock

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{seconds: 0, want: "00:00"},
		{seconds: 59, want: "00:59"},
		{seconds: 60, want: "01:00"},
		{seconds: 125, want: "02:05"},
		{seconds: 3600, want: "60:00"},
		{seconds: 6000, want: "100:00"},
		{seconds: -5, want: "00:00"},
	}

	for _, tt := range tests {
		if got := Format(tt.seconds); got != tt.want {
			t.Fatalf("Format(%d)=%q want=%q", tt.seconds, got, tt.want)
		}
	}
}

func TestTransitions(t *testing.T) {
	s := State{ElapsedSeconds: 10}
	if s.Phase() != PhaseStopped {
		t.Fatalf("expected initial phase stopped")
	}

	if got := Tick(s); got != s {
		t.Fatalf("tick on stopped clock must be a no-op, got %+v", got)
	}

	s = Start(s)
	if !s.Running {
		t.Fatalf("expected running after start")
	}
	if again := Start(s); again != s {
		t.Fatalf("start while running must be a no-op")
	}

	s = Tick(Tick(s))
	if s.ElapsedSeconds != 12 {
		t.Fatalf("expected 12 elapsed seconds, got %d", s.ElapsedSeconds)
	}

	s = Pause(s)
	if s.Running || s.ElapsedSeconds != 12 {
		t.Fatalf("unexpected state after pause: %+v", s)
	}

	s = Toggle(s)
	if !s.Running {
		t.Fatalf("toggle should start a stopped clock")
	}
	s = Toggle(s)
	if s.Running {
		t.Fatalf("toggle should pause a running clock")
	}

	s = Reset(Start(s))
	if s != (State{}) {
		t.Fatalf("reset must stop and zero the clock, got %+v", s)
	}
}
