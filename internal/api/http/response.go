package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/notify"
	"rental-backoffice/internal/service"
)

// envelope is the body of every JSON response
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeError maps service errors to status codes; anything unknown is a 500
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, "Errore interno del server"
	switch {
	case errors.Is(err, service.ErrRentalNotFound):
		status, message = http.StatusNotFound, "Noleggio non trovato"
	case errors.Is(err, service.ErrCustomerNotFound):
		status, message = http.StatusNotFound, "Cliente non trovato"
	case errors.Is(err, service.ErrVehicleNotFound):
		status, message = http.StatusNotFound, "Veicolo non trovato"
	case errors.Is(err, service.ErrPhotoNotFound):
		status, message = http.StatusNotFound, "Foto non trovata"
	case errors.Is(err, service.ErrCustomerExists):
		status, message = http.StatusConflict, "Cliente già esistente con questo codice fiscale o email"
	case errors.Is(err, service.ErrVehicleExists):
		status, message = http.StatusConflict, "Veicolo già esistente con questa targa"
	case errors.Is(err, service.ErrCustomerHasRental):
		status, message = http.StatusConflict, "Impossibile eliminare cliente con noleggi associati"
	case errors.Is(err, service.ErrContractMissing):
		status, message = http.StatusNotFound, "Contratto non trovato. Generarlo prima."
	case errors.Is(err, service.ErrInvalidDates):
		status, message = http.StatusBadRequest, "Date non valide"
	case errors.Is(err, service.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, message = http.StatusForbidden, "Accesso non autorizzato"
	case errors.Is(err, service.ErrRentalClosed):
		status, message = http.StatusConflict, "Noleggio già chiuso"
	case errors.Is(err, notify.ErrNoRecipient):
		status, message = http.StatusUnprocessableEntity, "Il cliente non ha un indirizzo email"
	case errors.Is(err, notify.ErrMailDisabled):
		status, message = http.StatusServiceUnavailable, "Invio email non configurato"
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	writeFailure(w, status, message)
}
