package audience

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avh-labs/audiencehub/internal/core"
	"github.com/avh-labs/audiencehub/internal/logging"
)

// Service exposes the audience state over HTTP. It is the sharing surface
// other processes use to read the identity bag and the control surface for
// setting identifiers, privacy status, and handling a logout.
//
// State itself is not safe for concurrent use, so the service serializes all
// access through its own mutex.
type Service struct {
	mu     sync.Mutex
	state  *State
	logger logging.Logger
}

// NewService creates an audience service around the given state holder.
func NewService(state *State, logger logging.Logger) *Service {
	return &Service{
		state:  state,
		logger: logger,
	}
}

// Name returns the module identifier.
func (s *Service) Name() string {
	return "audience"
}

// RegisterRoutes sets up HTTP routes for the audience module:
//   - GET    /identity - shared state data bag
//   - PUT    /identity/uuid - set (or mint) the visitor UUID
//   - DELETE /identity/uuid - clear the visitor UUID
//   - PUT    /identity/dpid - set the data-provider ID
//   - PUT    /identity/dpuuid - set the data-provider user ID
//   - PUT    /identity/profile - set the visitor profile
//   - POST   /identity/reset - clear all identifiers (logout)
//   - GET    /privacy - current privacy status
//   - PUT    /privacy - set privacy status
func (s *Service) RegisterRoutes(router chi.Router) {
	router.Get("/identity", s.handleGetIdentity)
	router.Put("/identity/uuid", s.handleSetUUID)
	router.Delete("/identity/uuid", s.handleClearUUID)
	router.Put("/identity/dpid", s.handleSetDpid)
	router.Put("/identity/dpuuid", s.handleSetDpuuid)
	router.Put("/identity/profile", s.handleSetProfile)
	router.Post("/identity/reset", s.handleReset)
	router.Get("/privacy", s.handleGetPrivacy)
	router.Put("/privacy", s.handleSetPrivacy)
}

// identifierRequest is the body for the scalar identifier endpoints.
type identifierRequest struct {
	UUID   string `json:"uuid,omitempty"`
	Dpid   string `json:"dpid,omitempty"`
	Dpuuid string `json:"dpuuid,omitempty"`
}

// privacyRequest is the body for PUT /privacy.
type privacyRequest struct {
	Status string `json:"status"`
}

// handleGetIdentity handles GET /identity and returns the state data bag.
func (s *Service) handleGetIdentity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := s.state.StateData()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, data)
}

// handleSetUUID handles PUT /identity/uuid. A missing or empty uuid in the
// body mints a fresh one, which is how a visitor gets an identity on first
// contact.
func (s *Service) handleSetUUID(w http.ResponseWriter, r *http.Request) {
	var req identifierRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidRequest", "Request body must be valid JSON")
		return
	}

	newUUID := req.UUID
	minted := false
	if newUUID == "" {
		newUUID = uuid.NewString()
		minted = true
	}

	s.mu.Lock()
	s.state.SetUUID(newUUID)
	applied := s.state.UUID()
	s.mu.Unlock()

	s.logger.Info("uuid set",
		logging.String("uuid", applied),
		logging.Bool("minted", minted),
	)
	s.writeJSON(w, http.StatusOK, map[string]string{"uuid": applied})
}

// handleClearUUID handles DELETE /identity/uuid.
func (s *Service) handleClearUUID(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.state.SetUUID("")
	s.mu.Unlock()

	s.logger.Info("uuid cleared")
	w.WriteHeader(http.StatusNoContent)
}

// handleSetDpid handles PUT /identity/dpid. Memory-only; an empty value clears.
func (s *Service) handleSetDpid(w http.ResponseWriter, r *http.Request) {
	var req identifierRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidRequest", "Request body must be valid JSON")
		return
	}

	s.mu.Lock()
	s.state.SetDpid(req.Dpid)
	applied := s.state.Dpid()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]string{"dpid": applied})
}

// handleSetDpuuid handles PUT /identity/dpuuid. Memory-only; an empty value clears.
func (s *Service) handleSetDpuuid(w http.ResponseWriter, r *http.Request) {
	var req identifierRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidRequest", "Request body must be valid JSON")
		return
	}

	s.mu.Lock()
	s.state.SetDpuuid(req.Dpuuid)
	applied := s.state.Dpuuid()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]string{"dpuuid": applied})
}

// handleSetProfile handles PUT /identity/profile. The body is the profile
// map itself; an empty object (or empty body) clears the stored profile.
func (s *Service) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	var profile map[string]string
	if err := decodeBody(r, &profile); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidRequest", "Request body must be a JSON object of string values")
		return
	}

	s.mu.Lock()
	s.state.SetVisitorProfile(profile)
	applied := s.state.VisitorProfile()
	s.mu.Unlock()

	s.logger.Info("visitor profile set",
		logging.Int("attributes", len(applied)),
	)
	s.writeJSON(w, http.StatusOK, applied)
}

// handleReset handles POST /identity/reset, the logout event. Clearing is
// always permitted regardless of privacy status.
func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.state.ClearIdentifiers()
	s.mu.Unlock()

	s.logger.Info("identifiers cleared")
	w.WriteHeader(http.StatusNoContent)
}

// handleGetPrivacy handles GET /privacy.
func (s *Service) handleGetPrivacy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.state.PrivacyStatus()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// handleSetPrivacy handles PUT /privacy.
func (s *Service) handleSetPrivacy(w http.ResponseWriter, r *http.Request) {
	var req privacyRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidRequest", "Request body must be valid JSON")
		return
	}

	status, err := ParsePrivacyStatus(req.Status)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidPrivacyStatus", err.Error())
		return
	}

	s.mu.Lock()
	s.state.SetPrivacyStatus(status)
	s.mu.Unlock()

	s.logger.Info("privacy status set",
		logging.String("status", string(status)),
	)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// decodeBody decodes a JSON request body into dst. An empty body is treated
// as an empty object so clearing endpoints can be called without a payload.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func (s *Service) writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response",
			logging.ErrorField(err),
		)
	}
}

// writeError writes an error response in a consistent format.
func (s *Service) writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// Ensure Service implements the module interface.
var _ core.Module = (*Service)(nil)
