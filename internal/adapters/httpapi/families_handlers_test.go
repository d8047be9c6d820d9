package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/httpapi/wire"
	memclock "github.com/Overland-East-Bay/family-planner-api/internal/adapters/memory/clock"
	memfamilyrepo "github.com/Overland-East-Bay/family-planner-api/internal/adapters/memory/familyrepo"
	memidempotency "github.com/Overland-East-Bay/family-planner-api/internal/adapters/memory/idempotency"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/families"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
	"github.com/Overland-East-Bay/family-planner-api/internal/platform/metrics"
)

const martinBody = `{
	"basicInfo": {"familyName": "  Martin ", "homeCity": "Lyon", "travelType": "Beach", "budget": "Moderate"},
	"dietaryPreferences": {"restrictions": ["Vegetarian"], "allergies": []},
	"members": [
		{"name": "Paul", "age": "41", "role": "Parent", "dietaryRestrictions": [],
		 "adultPreferences": {"travelExperience": [], "interests": ["Museums"], "comfortLevel": "Moderate", "accommodationStyle": []}},
		{"name": "Léa", "age": "7", "role": "Child", "dietaryRestrictions": ["Lactose-free"]}
	]
}`

const idempotencyTTL = time.Hour

type testAPI struct {
	h   http.Handler
	clk *memclock.ManualClock
}

func newTestRouter(t *testing.T) testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	svc := families.NewService(memfamilyrepo.NewRepo(), clk)
	var familySeq, memberSeq int
	svc.SetNewIDsForTest(
		func() domain.FamilyID {
			familySeq++
			return domain.FamilyID(fmt.Sprintf("00000000-0000-0000-0000-%012d", familySeq))
		},
		func() domain.MemberID {
			memberSeq++
			return domain.MemberID(fmt.Sprintf("m-%d", memberSeq))
		},
	)
	m, err := metrics.New(nil)
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	idem := memidempotency.NewStore(memidempotency.WithTTL(idempotencyTTL, clk))
	api := NewServer(svc, idem, clk, nil)
	h := NewRouterWithOptions(api, RouterOptions{Metrics: m, CORSAllowedOrigins: []string{"http://app.test"}})
	return testAPI{h: h, clk: clk}
}

func (a testAPI) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Buffer
	if body != "" {
		rdr = bytes.NewBufferString(body)
	} else {
		rdr = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) wire.ErrorResponse {
	t.Helper()
	var er wire.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return er
}

func TestFamilies_CreateThenGet_201(t *testing.T) {
	t.Parallel()

	api := newTestRouter(t)

	rec := api.do(t, http.MethodPost, "/families", martinBody, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}
	var created wire.FamilyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := created.Family.Profile.BasicInfo.FamilyName; got != "Martin" {
		t.Fatalf("familyName=%q, want normalized", got)
	}
	lea := created.Family.Profile.Members[1]
	if lea.Id == nil || *lea.Id == "" {
		t.Fatalf("member id should be assigned: %+v", lea)
	}
	if lea.ChildPreferences == nil || lea.AdultPreferences != nil {
		t.Fatalf("child should default to child preferences only: %+v", lea)
	}

	rec2 := api.do(t, http.MethodGet, "/families/"+created.Family.FamilyId.String(), "", nil)
	if rec2.Code != http.StatusOK {
		t.Fatalf("get status=%d body=%s", rec2.Code, rec2.Body.String())
	}
	var got wire.FamilyResponse
	if err := json.Unmarshal(rec2.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Fatalf("get mismatch (-want +got):\n%s", diff)
	}
}

func TestFamilies_Create_ValidationErrorDetails_422(t *testing.T) {
	t.Parallel()

	api := newTestRouter(t)
	body := `{
		"basicInfo": {"familyName": " "},
		"members": [
			{"name": "Paul", "age": "41", "role": "Parent",
			 "childPreferences": {"interests": []}}
		]
	}`
	rec := api.do(t, http.MethodPost, "/families", body, map[string]string{"X-Request-Id": "req-1"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	er := decodeError(t, rec)
	if er.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("code=%q", er.Error.Code)
	}
	details, err := er.Error.Details.Get()
	if err != nil {
		t.Fatalf("details missing: %v", err)
	}
	for _, field := range []string{"basicInfo.familyName", "members[0].childPreferences"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("missing detail %q in %v", field, details)
		}
	}
	if rid, err := er.Error.RequestId.Get(); err != nil || rid != "req-1" {
		t.Fatalf("requestId=%q err=%v", rid, err)
	}
}

func TestFamilies_Create_IdempotentReplayAndConflictOnReuse(t *testing.T) {
	t.Parallel()

	api := newTestRouter(t)
	key := map[string]string{"Idempotency-Key": "idem-12345678"}

	rec1 := api.do(t, http.MethodPost, "/families", martinBody, key)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("create1 status=%d body=%s", rec1.Code, rec1.Body.String())
	}

	// Same key + same payload after name normalization replays.
	rec2 := api.do(t, http.MethodPost, "/families", strings.Replace(martinBody, "  Martin ", "Martin", 1), key)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("create2 status=%d body=%s", rec2.Code, rec2.Body.String())
	}
	if rec2.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
	if strings.TrimSpace(rec1.Body.String()) != strings.TrimSpace(rec2.Body.String()) {
		t.Fatalf("replayed body differs:\n%s\n%s", rec1.Body.String(), rec2.Body.String())
	}

	list := api.do(t, http.MethodGet, "/families", "", nil)
	var lr wire.ListFamiliesResponse
	if err := json.Unmarshal(list.Body.Bytes(), &lr); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(lr.Families) != 1 {
		t.Fatalf("replay must not create a second family, got %d", len(lr.Families))
	}

	// Same key + different payload is 409.
	rec3 := api.do(t, http.MethodPost, "/families", strings.Replace(martinBody, "Lyon", "Nantes", 1), key)
	if rec3.Code != http.StatusConflict {
		t.Fatalf("create3 status=%d body=%s", rec3.Code, rec3.Body.String())
	}
	if er := decodeError(t, rec3); er.Error.Code != "IDEMPOTENCY_KEY_REUSE" {
		t.Fatalf("code=%q", er.Error.Code)
	}
}

func TestFamilies_Create_IdempotencyKeyExpiresOnStoreClock(t *testing.T) {
	t.Parallel()

	api := newTestRouter(t)
	key := map[string]string{"Idempotency-Key": "idem-expiring1"}

	rec1 := api.do(t, http.MethodPost, "/families", martinBody, key)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("create1 status=%d body=%s", rec1.Code, rec1.Body.String())
	}

	api.clk.Advance(idempotencyTTL / 2)
	rec2 := api.do(t, http.MethodPost, "/families", martinBody, key)
	if rec2.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay within ttl, status=%d", rec2.Code)
	}

	// Past the ttl the key is free again, even for a different payload.
	api.clk.Advance(idempotencyTTL)
	rec3 := api.do(t, http.MethodPost, "/families", strings.Replace(martinBody, "Lyon", "Nantes", 1), key)
	if rec3.Code != http.StatusCreated {
		t.Fatalf("create3 status=%d body=%s", rec3.Code, rec3.Body.String())
	}
	if rec3.Header().Get("Idempotent-Replayed") != "" {
		t.Fatalf("expired key must not replay")
	}

	var first, third wire.FamilyResponse
	if err := json.Unmarshal(rec1.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal(rec3.Body.Bytes(), &third); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Family.FamilyId == third.Family.FamilyId {
		t.Fatalf("expected a new family, got %s twice", first.Family.FamilyId)
	}
	if got, err := third.Family.Profile.BasicInfo.HomeCity.Get(); err != nil || got != "Nantes" {
		t.Fatalf("homeCity=%q err=%v, want Nantes", got, err)
	}
}

func TestFamilies_ValidateDoesNotStore(t *testing.T) {
	t.Parallel()

	api := newTestRouter(t)
	rec := api.do(t, http.MethodPost, "/families/validate", martinBody, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate status=%d body=%s", rec.Code, rec.Body.String())
	}
	var vr wire.ValidateFamilyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &vr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(vr.Profile.Members) != 2 {
		t.Fatalf("members=%d", len(vr.Profile.Members))
	}

	list := api.do(t, http.MethodGet, "/families", "", nil)
	if !strings.Contains(list.Body.String(), `"families":[]`) {
		t.Fatalf("expected empty list, got %s", list.Body.String())
	}
}

func TestFamilies_ReplaceThenDelete(t *testing.T) {
	t.Parallel()

	api := newTestRouter(t)
	rec := api.do(t, http.MethodPost, "/families", martinBody, nil)
	var created wire.FamilyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	path := "/families/" + created.Family.FamilyId.String()

	api.clk.Advance(time.Hour)
	replaced := api.do(t, http.MethodPut, path, strings.Replace(martinBody, "Beach", "Mountain", 1), nil)
	if replaced.Code != http.StatusOK {
		t.Fatalf("replace status=%d body=%s", replaced.Code, replaced.Body.String())
	}
	var rr wire.FamilyResponse
	if err := json.Unmarshal(replaced.Body.Bytes(), &rr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tt, _ := rr.Family.Profile.BasicInfo.TravelType.Get(); tt != "Mountain" {
		t.Fatalf("travelType=%q", tt)
	}
	if !rr.Family.UpdatedAt.After(rr.Family.CreatedAt) {
		t.Fatalf("updatedAt should advance: %+v", rr.Family)
	}

	if del := api.do(t, http.MethodDelete, path, "", nil); del.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d body=%s", del.Code, del.Body.String())
	}
	gone := api.do(t, http.MethodGet, path, "", nil)
	if gone.Code != http.StatusNotFound {
		t.Fatalf("get after delete status=%d", gone.Code)
	}
	if er := decodeError(t, gone); er.Error.Code != families.CodeFamilyNotFound {
		t.Fatalf("code=%q", er.Error.Code)
	}
}

func TestFamilies_BadInputs(t *testing.T) {
	t.Parallel()

	api := newTestRouter(t)
	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"non-uuid id", http.MethodGet, "/families/not-a-uuid", "", http.StatusBadRequest, "INVALID_PARAMETER"},
		{"malformed json", http.MethodPost, "/families", `{"basicInfo":`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"empty body", http.MethodPost, "/families/validate", "", http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown route", http.MethodGet, "/trips", "", http.StatusNotFound, "NOT_FOUND"},
		{"unknown family", http.MethodDelete, "/families/00000000-0000-0000-0000-000000000999", "", http.StatusNotFound, families.CodeFamilyNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.body, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			if er := decodeError(t, rec); er.Error.Code != tt.wantErr {
				t.Fatalf("code=%q, want %q", er.Error.Code, tt.wantErr)
			}
		})
	}
}

func TestRouter_HealthMetricsAndCORS(t *testing.T) {
	t.Parallel()

	api := newTestRouter(t)

	if rec := api.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz status=%d body=%q", rec.Code, rec.Body.String())
	}

	_ = api.do(t, http.MethodGet, "/families", "", nil)
	rec := api.do(t, http.MethodGet, "/metrics", "", nil)
	if !strings.Contains(rec.Body.String(), "family_planner_http_requests_total") {
		t.Fatalf("metrics missing request counter:\n%s", rec.Body.String())
	}

	preflight := api.do(t, http.MethodOptions, "/families", "", map[string]string{
		"Origin":                        "http://app.test",
		"Access-Control-Request-Method": http.MethodPost,
	})
	if got := preflight.Header().Get("Access-Control-Allow-Origin"); got != "http://app.test" {
		t.Fatalf("allow-origin=%q", got)
	}
}
