package controllers

import (
	"errors"
	"fvm/internal/models"
	"fvm/internal/providers"
	"fvm/internal/services"
	"net/http"
	"strconv"
)

type ShareController struct {
	logger  providers.Logger
	service services.FamilyServiceInterface
}

func NewShareController(logger providers.Logger, service services.FamilyServiceInterface) *ShareController {
	return &ShareController{
		logger:  logger,
		service: service,
	}
}

func (sc *ShareController) GetShare(w http.ResponseWriter, r *http.Request) {
	link, err := sc.service.ShareLink()
	if err != nil {
		writeDomainError(w, sc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// GetShareQR proxies the QR image of the current share link.
func (sc *ShareController) GetShareQR(w http.ResponseWriter, r *http.Request) {
	img, err := sc.service.ShareQR(r.Context())
	if err != nil {
		if errors.Is(err, models.ErrNoButtons) {
			writeDomainError(w, sc.logger, r, err)
			return
		}
		sc.logger.Warnf(providers.TypeGet, "QR fetch failed: %s", err)
		writeError(w, http.StatusBadGateway, "qr_unavailable", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (sc *ShareController) PreviewShared(w http.ResponseWriter, r *http.Request) {
	data, err := sc.service.SharedPreview(r.URL.Query())
	if err != nil {
		writeDomainError(w, sc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (sc *ShareController) ApplyShared(w http.ResponseWriter, r *http.Request) {
	if err := sc.service.ApplyShared(r.URL.Query()); err != nil {
		writeDomainError(w, sc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc.service.State())
}
