package api

import (
	"net/http"
	"strconv"

	"github.com/oqulab/virtlab/internal/middleware"
	"github.com/oqulab/virtlab/internal/services"
	"github.com/oqulab/virtlab/internal/token"
)

type Router struct {
	auth        *middleware.Auth
	authSvc     *services.AuthService
	labSvc      *services.LabService
	resultSvc   *services.ResultService
	progressSvc *services.ProgressService
}

func NewRouter(store Store, signer *token.Signer) *Router {
	authStore := newAuthStoreAdapter(store)
	authSvc := services.NewAuthService(authStore, signer.Issue)
	return &Router{
		auth:        middleware.NewAuth(signer, authStore),
		authSvc:     authSvc,
		labSvc:      services.NewLabService(newLabStoreAdapter(store)),
		resultSvc:   services.NewResultService(newResultStoreAdapter(store)),
		progressSvc: services.NewProgressService(newProgressStoreAdapter(store)),
	}
}

// LabService exposes the catalog service for startup seeding.
func (rt *Router) LabService() *services.LabService { return rt.labSvc }

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", rt.handleRegister)
	mux.HandleFunc("POST /auth/login", rt.handleLogin)
	mux.Handle("GET /auth/me", rt.auth.RequireAuth(http.HandlerFunc(rt.handleMe)))

	mux.HandleFunc("GET /labs", rt.handleListLabs)
	mux.HandleFunc("GET /labs/{id}", rt.handleGetLab)
	mux.Handle("POST /labs", rt.auth.RequireRole(http.HandlerFunc(rt.handleCreateLab),
		services.RoleTeacher, services.RoleAdmin))

	mux.Handle("POST /results", rt.auth.RequireAuth(http.HandlerFunc(rt.handleSubmitResult)))
	mux.Handle("GET /results/my", rt.auth.RequireAuth(http.HandlerFunc(rt.handleMyResults)))

	mux.Handle("GET /progress/{labID}", rt.auth.RequireAuth(http.HandlerFunc(rt.handleGetProgress)))
	mux.Handle("PUT /progress/{labID}", rt.auth.RequireAuth(http.HandlerFunc(rt.handleUpdateProgress)))

	mux.HandleFunc("POST /seed", rt.handleSeed)
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
		Grade    *int   `json:"grade"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := rt.authSvc.Register(services.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		Grade:    req.Grade,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := rt.authSvc.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": res.Token,
		"token_type":   "bearer",
	})
}

func (rt *Router) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, u)
}

func (rt *Router) handleListLabs(w http.ResponseWriter, r *http.Request) {
	var f services.LabFilter
	if v := r.URL.Query().Get("grade"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeValidationError(w, "grade must be an integer")
			return
		}
		f.Grade = &n
	}
	f.Subject = r.URL.Query().Get("subject")

	labs, err := rt.labSvc.List(f)
	if err != nil {
		writeError(w, err)
		return
	}
	if labs == nil {
		labs = []*services.Lab{}
	}
	writeJSON(w, http.StatusOK, labs)
}

func (rt *Router) handleGetLab(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeValidationError(w, "lab id must be an integer")
		return
	}
	lab, err := rt.labSvc.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lab)
}

func (rt *Router) handleCreateLab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TitleKK       string         `json:"title_kk"`
		TitleRU       string         `json:"title_ru"`
		Subject       string         `json:"subject"`
		Grade         int            `json:"grade"`
		LabNumber     string         `json:"lab_number"`
		DescriptionKK string         `json:"description_kk"`
		DescriptionRU string         `json:"description_ru"`
		Difficulty    string         `json:"difficulty"`
		EstimatedTime int            `json:"estimated_time"`
		Config        map[string]any `json:"config"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, _ := middleware.UserFromContext(r.Context())
	lab, err := rt.labSvc.Create(u.Role, services.CreateLabRequest{
		TitleKK:       req.TitleKK,
		TitleRU:       req.TitleRU,
		Subject:       req.Subject,
		Grade:         req.Grade,
		LabNumber:     req.LabNumber,
		DescriptionKK: req.DescriptionKK,
		DescriptionRU: req.DescriptionRU,
		Difficulty:    req.Difficulty,
		EstimatedTime: req.EstimatedTime,
		Config:        req.Config,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lab)
}

func (rt *Router) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LabID     int64                            `json:"lab_id"`
		Answers   map[string]services.AnswerRecord `json:"answers"`
		TimeSpent int                              `json:"time_spent"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, _ := middleware.UserFromContext(r.Context())
	res, err := rt.resultSvc.Submit(u.ID, services.SubmitResultRequest{
		LabID:     req.LabID,
		Answers:   req.Answers,
		TimeSpent: req.TimeSpent,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (rt *Router) handleMyResults(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())
	results, err := rt.resultSvc.ListMine(u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []*services.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (rt *Router) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	labID, err := strconv.ParseInt(r.PathValue("labID"), 10, 64)
	if err != nil {
		writeValidationError(w, "lab id must be an integer")
		return
	}
	u, _ := middleware.UserFromContext(r.Context())
	p, err := rt.progressSvc.Get(u.ID, labID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (rt *Router) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	labID, err := strconv.ParseInt(r.PathValue("labID"), 10, 64)
	if err != nil {
		writeValidationError(w, "lab id must be an integer")
		return
	}
	var req struct {
		CurrentStep int  `json:"current_step"`
		IsCompleted bool `json:"is_completed"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, _ := middleware.UserFromContext(r.Context())
	p, err := rt.progressSvc.Update(u.ID, labID, req.CurrentStep, req.IsCompleted)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /seed inserts the demonstration catalog; safe to call repeatedly.
func (rt *Router) handleSeed(w http.ResponseWriter, r *http.Request) {
	created, err := rt.labSvc.Seed()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "created": created})
}
