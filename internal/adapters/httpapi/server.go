package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/family-planner-api/internal/adapters/httpapi/wire"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/family-planner-api/internal/app/families"
	"github.com/Overland-East-Bay/family-planner-api/internal/domain"
	platformclock "github.com/Overland-East-Bay/family-planner-api/internal/platform/clock"
	"github.com/Overland-East-Bay/family-planner-api/internal/platform/logging"
	clockport "github.com/Overland-East-Bay/family-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/family-planner-api/internal/ports/out/idempotency"
)

const routeFamilies = "/families"

// Server holds the handlers of the families API.
type Server struct {
	Families *families.Service
	Idem     idempotency.Store
	Clock    clockport.Clock
	Logger   *log.Logger
}

// NewServer wires the handlers. idem may be nil to disable replay. clk stamps
// idempotency records and should be the clock the store expires them by; nil
// means the system clock. A nil logger discards output.
func NewServer(svc *families.Service, idem idempotency.Store, clk clockport.Clock, logger *log.Logger) *Server {
	if clk == nil {
		clk = platformclock.NewSystemClock()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		Families: svc,
		Idem:     idem,
		Clock:    clk,
		Logger:   logger,
	}
}

func (s *Server) ListFamilies(w http.ResponseWriter, r *http.Request) {
	fs, err := s.Families.ListFamilies(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]wire.Family, 0, len(fs))
	for _, f := range fs {
		wf, err := wire.FamilyFromDomain(f)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, wf)
	}
	writeJSON(w, http.StatusOK, wire.ListFamiliesResponse{Families: out})
}

func (s *Server) GetFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := familyIDParam(w, r)
	if !ok {
		return
	}
	f, err := s.Families.GetFamily(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFamily(w, r, http.StatusOK, f)
}

func (s *Server) ValidateFamily(w http.ResponseWriter, r *http.Request) {
	var body wire.FamilyProfile
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := s.Families.ValidateFamily(r.Context(), body.ToInput())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.ValidateFamilyResponse{Profile: wire.ProfileFromDomain(p)})
}

// CreateFamily stores a new family. With an Idempotency-Key header a retried
// request replays the first response, and reusing the key for a different
// body is a 409.
func (s *Server) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var body wire.FamilyProfile
	if !decodeBody(w, r, &body) {
		return
	}
	ctx := r.Context()

	respFP, done := s.beginIdempotent(w, r, routeFamilies, hashProfileBody(body))
	if done {
		return
	}

	f, err := s.Families.CreateFamily(ctx, body.ToInput())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	wf, err := wire.FamilyFromDomain(f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := wire.FamilyResponse{Family: wf}

	// Store successful response for replay.
	if respFP != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.Idem.Put(ctx, *respFP, idempotency.Record{
				StatusCode:  http.StatusCreated,
				ContentType: contentTypeJSON,
				Body:        b,
				CreatedAt:   s.Clock.Now(),
			}); err != nil {
				s.Logger.Warn("store idempotent response", "key", respFP.Key, "err", err)
			}
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) ReplaceFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := familyIDParam(w, r)
	if !ok {
		return
	}
	var body wire.FamilyProfile
	if !decodeBody(w, r, &body) {
		return
	}
	f, err := s.Families.ReplaceFamily(r.Context(), id, body.ToInput())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFamily(w, r, http.StatusOK, f)
}

func (s *Server) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := familyIDParam(w, r)
	if !ok {
		return
	}
	if err := s.Families.DeleteFamily(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeFamily(w http.ResponseWriter, r *http.Request, status int, f domain.Family) {
	wf, err := wire.FamilyFromDomain(f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, wire.FamilyResponse{Family: wf})
}

// beginIdempotent implements key reuse detection and replay:
//   - the record under an empty body hash remembers the first body hash
//   - the record under the real body hash holds the response to replay
//
// It returns the fingerprint to store the response under (nil when the
// request carries no key), and done=true once a response has been written.
func (s *Server) beginIdempotent(w http.ResponseWriter, r *http.Request, route string, bodyHash string) (*idempotency.Fingerprint, bool) {
	key := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if key == "" || s.Idem == nil {
		return nil, false
	}
	ctx := r.Context()

	metaFP := idempotency.Fingerprint{
		Key:      idempotency.Key(key),
		Method:   r.Method,
		Route:    route,
		BodyHash: "",
	}
	if meta, ok, err := s.Idem.Get(ctx, metaFP); err != nil {
		s.writeError(w, r, err)
		return nil, true
	} else if ok {
		if string(meta.Body) != bodyHash {
			writeWireError(w, r, http.StatusConflict, codeIdempotencyReuse, "idempotency key reuse with different payload", nil)
			return nil, true
		}
	} else if err := s.Idem.Put(ctx, metaFP, idempotency.Record{
		StatusCode:  0,
		ContentType: idempotencyMetaContent,
		Body:        []byte(bodyHash),
		CreatedAt:   s.Clock.Now(),
	}); err != nil {
		s.writeError(w, r, err)
		return nil, true
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	if replayed := s.replay(ctx, w, respFP); replayed {
		return nil, true
	}
	return &respFP, false
}

func (s *Server) replay(ctx context.Context, w http.ResponseWriter, fp idempotency.Fingerprint) bool {
	rec, ok, err := s.Idem.Get(ctx, fp)
	if err != nil || !ok {
		return false
	}
	if rec.StatusCode < 200 || rec.StatusCode > 299 || !strings.HasPrefix(rec.ContentType, contentTypeJSON) {
		return false
	}
	w.Header().Set("Content-Type", rec.ContentType)
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(rec.StatusCode)
	_, _ = w.Write(rec.Body)
	return true
}

func familyIDParam(w http.ResponseWriter, r *http.Request) (domain.FamilyID, bool) {
	var familyID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "familyId", chi.URLParam(r, "familyId"), &familyID, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeWireError(w, r, http.StatusBadRequest, codeInvalidParameter, "invalid format for parameter familyId", map[string]any{"familyId": "must be a UUID"})
		return "", false
	}
	return domain.FamilyID(familyID.String()), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		writeWireError(w, r, http.StatusUnprocessableEntity, apperr.CodeValidation, "missing request body", nil)
		return false
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "missing request body"
		}
		writeWireError(w, r, http.StatusUnprocessableEntity, apperr.CodeValidation, msg, nil)
		return false
	}
	return true
}

// hashProfileBody hashes the body after normalizing the fields the service
// normalizes, so cosmetic whitespace differences replay instead of conflicting.
func hashProfileBody(b wire.FamilyProfile) string {
	canon := b
	if b.BasicInfo != nil {
		bi := *b.BasicInfo
		bi.FamilyName = domain.NormalizeHumanName(bi.FamilyName)
		canon.BasicInfo = &bi
	}
	if len(b.Members) > 0 {
		canon.Members = make([]wire.Member, len(b.Members))
		for i, m := range b.Members {
			m.Name = domain.NormalizeHumanName(m.Name)
			m.Age = strings.TrimSpace(m.Age)
			m.Role = strings.TrimSpace(m.Role)
			canon.Members[i] = m
		}
	}
	raw, _ := json.Marshal(canon)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
