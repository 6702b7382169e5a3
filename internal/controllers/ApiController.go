package controllers

import (
	"fmt"
	"fvm/internal/models"
	"fvm/internal/providers"
	"fvm/internal/services"
	"net/http"
)

type ApiController struct {
	logger  providers.Logger
	service services.FamilyServiceInterface
}

func NewApiController(logger providers.Logger, service services.FamilyServiceInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
	}
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type moveRequest struct {
	Index int `json:"index"`
}

func (ac *ApiController) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeDomainError(w, ac.logger, r, err)
}

func (ac *ApiController) machine(w http.ResponseWriter, r *http.Request, status int) {
	view, err := ac.service.Machine(r.PathValue("role"))
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, status, view)
}

func (ac *ApiController) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.State())
}

func (ac *ApiController) GetMachine(w http.ResponseWriter, r *http.Request) {
	ac.machine(w, r, http.StatusOK)
}

func (ac *ApiController) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ac.service.SetTheme(req.Theme); err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeRequest{Theme: req.Theme})
}

func (ac *ApiController) SetName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ac.service.SetName(r.PathValue("role"), req.Name); err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.machine(w, r, http.StatusOK)
}

func (ac *ApiController) AddButton(w http.ResponseWriter, r *http.Request) {
	var input models.ButtonInput
	if !decodeBody(w, r, &input) {
		return
	}
	b, err := ac.service.AddButton(r.PathValue("role"), input)
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (ac *ApiController) UpdateButton(w http.ResponseWriter, r *http.Request) {
	var patch models.ButtonInput
	if !decodeBody(w, r, &patch) {
		return
	}
	b, err := ac.service.UpdateButton(r.PathValue("role"), r.PathValue("id"), patch)
	if err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (ac *ApiController) DeleteButton(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.DeleteButton(r.PathValue("role"), r.PathValue("id")); err != nil {
		ac.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) MoveButton(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ac.service.MoveButton(r.PathValue("role"), r.PathValue("id"), req.Index); err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.machine(w, r, http.StatusOK)
}

func (ac *ApiController) ClearButtons(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.ClearAllButtons(r.PathValue("role")); err != nil {
		ac.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) LoadExample(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.LoadExample(r.PathValue("role")); err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.machine(w, r, http.StatusOK)
}

func (ac *ApiController) ResetMachine(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.ResetMachine(r.PathValue("role")); err != nil {
		ac.fail(w, r, err)
		return
	}
	ac.machine(w, r, http.StatusOK)
}

func (ac *ApiController) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.ResetAll(); err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ac.service.State())
}

func (ac *ApiController) Save(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.Flush(); err != nil {
		ac.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ac.service.ExportFileName()))
	if err := ac.service.Export(w); err != nil {
		ac.logger.Errorf(providers.TypeGet, "Export failed: %s", err)
	}
}

func (ac *ApiController) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := ac.service.Import(r.Body); err != nil {
		ac.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ac.service.State())
}

func (ac *ApiController) StorageInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.StorageInfo())
}
