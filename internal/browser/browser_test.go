package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFail_WrapsDeadline(t *testing.T) {
	err := Fail("click", "#login-button", context.DeadlineExceeded)

	var actionErr *ActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("expected *ActionError, got %T", err)
	}
	if actionErr.Action != "click" || actionErr.Target != "#login-button" {
		t.Errorf("unexpected action error fields: %+v", actionErr)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Error("expected error to match ErrTimeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected error to keep context.DeadlineExceeded")
	}
}

func TestFail_Nil(t *testing.T) {
	if err := Fail("click", "x", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantResolution bool
		wantAction     bool
		wantTimeout    bool
	}{
		{
			name:           "not found",
			err:            NotFound("fill", "#user-name", nil),
			wantResolution: true,
		},
		{
			name:           "not found after timeout",
			err:            NotFound("fill", "#user-name", ErrTimeout),
			wantResolution: true,
			wantTimeout:    true,
		},
		{
			name:       "rejected",
			err:        Rejected("click", "#login-button", "element is disabled"),
			wantAction: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsResolution(tt.err); got != tt.wantResolution {
				t.Errorf("IsResolution = %v, want %v", got, tt.wantResolution)
			}
			if got := IsAction(tt.err); got != tt.wantAction {
				t.Errorf("IsAction = %v, want %v", got, tt.wantAction)
			}
			if got := errors.Is(tt.err, ErrTimeout); got != tt.wantTimeout {
				t.Errorf("errors.Is(ErrTimeout) = %v, want %v", got, tt.wantTimeout)
			}
		})
	}
}

func TestCheckURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{raw: "", wantErr: true},
		{raw: "/inventory.html", wantErr: true},
		{raw: "http://", wantErr: true},
		{raw: "http://127.0.0.1:8080/", wantErr: false},
		{raw: "https://www.saucedemo.com", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := CheckURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckURL(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNavigation) {
				t.Errorf("expected ErrNavigation, got %v", err)
			}
		})
	}
}

func TestBound(t *testing.T) {
	ctx, cancel := Bound(context.Background(), time.Second)
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if left := time.Until(deadline); left > time.Second || left <= 0 {
		t.Errorf("unexpected remaining time %v", left)
	}

	parent, parentCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer parentCancel()
	child, childCancel := Bound(parent, time.Hour)
	defer childCancel()
	parentDeadline, _ := parent.Deadline()
	childDeadline, _ := child.Deadline()
	if !childDeadline.Equal(parentDeadline) {
		t.Errorf("expected caller deadline to win, got %v want %v", childDeadline, parentDeadline)
	}
}

func TestBudget(t *testing.T) {
	if got := Budget(context.Background(), 0); got != DefaultTimeout {
		t.Errorf("Budget with zero timeout = %v, want %v", got, DefaultTimeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if got := Budget(ctx, time.Minute); got > 100*time.Millisecond {
		t.Errorf("Budget should be bounded by deadline, got %v", got)
	}
}

func TestChain(t *testing.T) {
	base := Chain{{Kind: StepCSS, Selector: "#countries"}}
	rows := base.With(Step{Kind: StepCSS, Selector: "tr"})
	second := rows.With(Step{Kind: StepNth, Index: 1})

	if len(base) != 1 || len(rows) != 2 {
		t.Fatalf("With must not modify the receiver: base=%d rows=%d", len(base), len(rows))
	}
	if got, want := second.String(), "#countries >> tr >> nth=1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	role := Chain{{Kind: StepRole, Role: "button", Name: "Continue", Exact: true}}
	if got, want := role.String(), `role=button[name="Continue"s]`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		actual, want string
		exact        bool
		match        bool
	}{
		{"Ingresa", "Ingresa", true, true},
		{"Ingresa ahora", "Ingresa", true, false},
		{"Ingresa ahora", "ingresa", false, true},
		{"  First   Name ", "First Name", true, true},
		{"Postal Code", "zip", false, false},
	}
	for _, tt := range tests {
		if got := MatchName(tt.actual, tt.want, tt.exact); got != tt.match {
			t.Errorf("MatchName(%q, %q, %v) = %v, want %v", tt.actual, tt.want, tt.exact, got, tt.match)
		}
	}
}

func TestPickIndex(t *testing.T) {
	tests := []struct {
		index, n int
		want     int
		ok       bool
	}{
		{0, 3, 0, true},
		{2, 3, 2, true},
		{3, 3, 0, false},
		{-1, 3, 2, true},
		{-4, 3, 0, false},
		{0, 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := PickIndex(tt.index, tt.n)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PickIndex(%d, %d) = (%d, %v), want (%d, %v)", tt.index, tt.n, got, ok, tt.want, tt.ok)
		}
	}
}
