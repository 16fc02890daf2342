package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/getmockd/mockapi/pkg/httputil"
	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries a signed admin token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string     `json:"status"`
	Backend store.Kind `json:"backend"`
	Auth    bool       `json:"auth"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if err := a.auth.CheckPassword(req.Password); err != nil {
		a.log.Warn("admin login failed", "remote_addr", r.RemoteAddr)
		httputil.WriteUnauthorized(w, ErrMsgInvalidPassword)
		return
	}

	token, exp, err := a.auth.Issue()
	if err != nil {
		a.log.Error("failed to issue admin token", "error", err)
		httputil.WriteInternalError(w, ErrMsgInternalError)
		return
	}
	httputil.WriteOK(w, LoginResponse{Token: token, ExpiresAt: exp.UTC()})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Backend: a.backend.Kind(), Auth: a.auth.Enabled()}
	if _, err := a.backend.GetSettings(r.Context()); err != nil && !errors.Is(err, store.ErrNotFound) {
		a.log.Warn("health check storage read failed", "error", err)
		resp.Status = "unavailable"
		httputil.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	httputil.WriteOK(w, resp)
}

// Projects

func (a *API) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := a.backend.Projects().List(r.Context())
	if err != nil {
		a.writeStoreError(w, err, "list projects", ErrMsgNotFound)
		return
	}
	httputil.WriteOK(w, projects)
}

func (a *API) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p model.Project
	if err := httputil.DecodeJSON(w, r, &p); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if err := p.Validate(); err != nil {
		a.writeValidationError(w, err)
		return
	}
	if err := a.backend.Projects().Create(r.Context(), &p); err != nil {
		a.writeStoreError(w, err, "create project", ErrMsgProjectNotFound, "project_id", p.ID)
		return
	}
	a.log.Info("project created", "project_id", p.ID, "name", p.Name)
	httputil.WriteCreated(w, p)
}

func (a *API) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := a.backend.Projects().Get(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, err, "get project", ErrMsgProjectNotFound, "project_id", id)
		return
	}
	httputil.WriteOK(w, p)
}

func (a *API) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var p model.Project
	if err := httputil.DecodeJSON(w, r, &p); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	p.ID = r.PathValue("id")
	if err := p.Validate(); err != nil {
		a.writeValidationError(w, err)
		return
	}
	if err := a.backend.Projects().Update(r.Context(), &p); err != nil {
		a.writeStoreError(w, err, "update project", ErrMsgProjectNotFound, "project_id", p.ID)
		return
	}
	httputil.WriteOK(w, p)
}

func (a *API) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.backend.Projects().Delete(r.Context(), id); err != nil {
		a.writeStoreError(w, err, "delete project", ErrMsgProjectNotFound, "project_id", id)
		return
	}
	a.log.Info("project deleted", "project_id", id)
	httputil.WriteNoContent(w)
}

func (a *API) handleListProjectEndpoints(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := a.backend.Projects().Get(r.Context(), id); err != nil {
		a.writeStoreError(w, err, "get project", ErrMsgProjectNotFound, "project_id", id)
		return
	}
	a.listEndpoints(w, r, &store.EndpointFilter{ProjectID: id})
}

// Endpoints

func (a *API) handleListEndpoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &store.EndpointFilter{
		ProjectID:     q.Get("projectId"),
		IncludeGlobal: q.Get("includeGlobal") == "true",
		Method:        q.Get("method"),
	}
	a.listEndpoints(w, r, filter)
}

func (a *API) listEndpoints(w http.ResponseWriter, r *http.Request, filter *store.EndpointFilter) {
	endpoints, err := a.backend.Endpoints().List(r.Context(), filter)
	if err != nil {
		a.writeStoreError(w, err, "list endpoints", ErrMsgNotFound)
		return
	}
	httputil.WriteOK(w, endpoints)
}

func (a *API) handleCreateEndpoint(w http.ResponseWriter, r *http.Request) {
	var e model.Endpoint
	if err := httputil.DecodeJSON(w, r, &e); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if !a.validateEndpoint(w, &e) {
		return
	}
	if err := a.backend.Endpoints().Create(r.Context(), &e); err != nil {
		a.writeStoreError(w, err, "create endpoint", ErrMsgProjectNotFound, "endpoint_id", e.ID, "project_id", e.ProjectID)
		return
	}
	a.log.Info("endpoint created", "endpoint_id", e.ID, "method", e.Method, "path", e.Path, "project_id", e.ProjectID)
	httputil.WriteCreated(w, e)
}

func (a *API) handleGetEndpoint(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := a.backend.Endpoints().Get(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, err, "get endpoint", ErrMsgEndpointNotFound, "endpoint_id", id)
		return
	}
	httputil.WriteOK(w, e)
}

func (a *API) handleUpdateEndpoint(w http.ResponseWriter, r *http.Request) {
	var e model.Endpoint
	if err := httputil.DecodeJSON(w, r, &e); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	e.ID = r.PathValue("id")
	if !a.validateEndpoint(w, &e) {
		return
	}

	ctx := r.Context()
	if _, err := a.backend.Endpoints().Get(ctx, e.ID); err != nil {
		a.writeStoreError(w, err, "update endpoint", ErrMsgEndpointNotFound, "endpoint_id", e.ID)
		return
	}
	if err := a.backend.Endpoints().Update(ctx, &e); err != nil {
		// The endpoint existed a moment ago, so a miss here is the project.
		a.writeStoreError(w, err, "update endpoint", ErrMsgProjectNotFound, "endpoint_id", e.ID, "project_id", e.ProjectID)
		return
	}
	httputil.WriteOK(w, e)
}

func (a *API) handleDeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.backend.Endpoints().Delete(r.Context(), id); err != nil {
		a.writeStoreError(w, err, "delete endpoint", ErrMsgEndpointNotFound, "endpoint_id", id)
		return
	}
	httputil.WriteNoContent(w)
}

// validateEndpoint normalizes e and rejects invalid fields or a path pattern
// the resolver could never match. It writes the error response itself.
func (a *API) validateEndpoint(w http.ResponseWriter, e *model.Endpoint) bool {
	e.Normalize()
	if err := e.Validate(); err != nil {
		a.writeValidationError(w, err)
		return false
	}
	if _, err := a.compiler.Compile(e.Path); err != nil {
		a.writeValidationError(w, err)
		return false
	}
	return true
}

// Settings

func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := a.backend.GetSettings(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		s, err = model.DefaultSettings(), nil
	}
	if err != nil {
		a.writeStoreError(w, err, "get settings", ErrMsgNotFound)
		return
	}
	httputil.WriteOK(w, s)
}

func (a *API) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var s model.GlobalSettings
	if err := httputil.DecodeJSON(w, r, &s); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if err := s.Validate(); err != nil {
		a.writeValidationError(w, err)
		return
	}
	if s.DefaultHeaders == nil {
		s.DefaultHeaders = map[string]string{}
	}
	if err := a.backend.SaveSettings(r.Context(), &s); err != nil {
		a.writeStoreError(w, err, "save settings", ErrMsgNotFound)
		return
	}
	a.log.Info("global settings updated", "cors_origins", s.CORSOrigins)
	httputil.WriteOK(w, s)
}
