package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pthm-cable/folio/systems"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGetField(t *testing.T) {
	controls := systems.NewControls(systems.Params{Noise: 0.5, Friction: 0.05})
	s := NewServer(controls)

	w := do(s.Handler(), http.MethodGet, "/field", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var st fieldState
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if st.State != "idle" || st.Radial != "0" || st.Params.Noise != 0.5 {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestPutFunctions(t *testing.T) {
	controls := systems.NewControls(systems.Params{})
	s := NewServer(controls)

	w := do(s.Handler(), http.MethodPut, "/field/functions", `{"radial":"sin(2t - x)","tangential":"0"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if controls.State() != systems.StateActive {
		t.Error("apply should activate the field")
	}
	if controls.Profiles().RadialSrc != "sin(2t - x)" {
		t.Errorf("unexpected radial %q", controls.Profiles().RadialSrc)
	}
}

func TestPutFunctionsParseError(t *testing.T) {
	controls := systems.NewControls(systems.Params{})
	s := NewServer(controls)

	w := do(s.Handler(), http.MethodPut, "/field/functions", `{"radial":"x +* 2","tangential":"0"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body struct {
		Error    string `json:"error"`
		Expr     string `json:"expr"`
		Position int    `json:"position"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.Expr != "x +* 2" || body.Position != 3 || body.Error == "" {
		t.Errorf("unexpected error body %+v", body)
	}
	if controls.State() != systems.StateIdle {
		t.Error("failed apply must leave profiles untouched")
	}
}

func TestPutParamsPartialAndClamped(t *testing.T) {
	controls := systems.NewControls(systems.Params{Noise: 0.5, Friction: 0.05})
	s := NewServer(controls)

	w := do(s.Handler(), http.MethodPut, "/field/params", `{"friction": 4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	p := controls.Params()
	if p.Friction != 1 || p.Noise != 0.5 {
		t.Errorf("expected friction clamped and noise kept, got %+v", p)
	}
}

func TestPostReset(t *testing.T) {
	controls := systems.NewControls(systems.Params{})
	s := NewServer(controls)

	if w := do(s.Handler(), http.MethodPost, "/field/reset", ""); w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	if controls.ResetCount() != 1 {
		t.Errorf("expected one reset request, got %d", controls.ResetCount())
	}
}

func TestStartStop(t *testing.T) {
	s := NewServer(systems.NewControls(systems.Params{}))
	addr, err := s.Start("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	resp, err := http.Get("http://" + addr + "/field")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("second Stop should be a no-op, got %v", err)
	}
}
