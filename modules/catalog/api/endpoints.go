package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/R3E-Network/modulith/internal/httputil"
	"github.com/R3E-Network/modulith/modules/catalog/app"
	"github.com/R3E-Network/modulith/pkg/result"
)

const (
	uuidPattern = "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}"

	// codeBody reports a request body that could not be decoded.
	codeBody = "body"
)

func (m *Module) ping(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "module": "Catalog"})
}

func (m *Module) createProduct(w http.ResponseWriter, r *http.Request) {
	var cmd app.CreateProductCommand
	if err := httputil.DecodeJSON(w, r, &cmd); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		httputil.WriteProblem(w, r, status, result.NewError(codeBody, err.Error()))
		return
	}

	res := m.create.Handle(r.Context(), cmd)
	id, failure := res.Get()
	if failure != nil {
		if failure.Code == app.CodePersistence {
			httputil.WriteProblem(w, r, http.StatusInternalServerError, failure)
			return
		}
		httputil.WriteProblem(w, r, http.StatusBadRequest, failure)
		return
	}

	w.Header().Set("Location", "/v1/catalog/products/"+id.String())
	httputil.WriteJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
}

func (m *Module) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	view, found, err := m.get.Handle(r.Context(), app.GetProductQuery{ID: id})
	if err != nil {
		m.log.WithContext(r.Context()).WithError(err).Error("get product")
		httputil.WriteProblem(w, r, http.StatusInternalServerError, result.NewError("product.lookup", "Product could not be loaded"))
		return
	}
	if !found {
		httputil.WriteProblem(w, r, http.StatusNotFound, nil)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}
