package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/service"
)

type ContractHandler struct {
	contracts service.ContractService
}

func NewContractHandler(contracts service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

func (h *ContractHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, err := rentalID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	name, err := h.contracts.GenerateContract(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Contratto generato con successo", map[string]string{"filename": name})
}

func (h *ContractHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := rentalID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	rc, name, size, err := h.contracts.OpenContract(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		logger.WarnContext(r.Context(), "Contract download interrupted", "file", name, "error", err)
	}
}

func (h *ContractHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := rentalID(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	name, err := h.contracts.SendContract(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Contratto inviato al cliente", map[string]string{"filename": name})
}
