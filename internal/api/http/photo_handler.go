package http

import (
	"net/http"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/service"
)

type PhotoHandler struct {
	photos service.PhotoService
}

func NewPhotoHandler(photos service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

func (h *PhotoHandler) ListByRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "rentalId")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	photos, err := h.photos.ListPhotos(r.Context(), rentalID, domain.PhotoType(r.URL.Query().Get("photo_type")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", photos)
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	if err := h.photos.DeletePhoto(r.Context(), user, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Foto eliminata con successo", nil)
}
