package handlers

import (
	"net/http"
	"strconv"

	"github.com/utility-oms/backoffice-api/v1/models"
	"github.com/utility-oms/backoffice-api/v1/services"
)

// CustomerHandler handles the staff-side customer registry
type CustomerHandler struct {
	customers   *services.CustomerService
	connections *services.ConnectionService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customers *services.CustomerService, connections *services.ConnectionService) *CustomerHandler {
	return &CustomerHandler{
		customers:   customers,
		connections: connections,
	}
}

// CreateCustomer handles POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	customer, err := h.customers.CreateCustomer(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, customer)
}

// ListCustomers handles GET /api/v1/customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))

	customers, total, err := h.customers.ListCustomers(r.Context(), services.CustomerFilter{
		Search:       query.Get("search"),
		County:       query.Get("county"),
		CustomerType: query.Get("customerType"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(customers, total))
}

// GetCustomer handles GET /api/v1/customers/{customerId}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.GetCustomer(r.Context(), r.PathValue("customerId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, customer)
}

// UpdateCustomer handles PUT /api/v1/customers/{customerId}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCustomerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	customer, err := h.customers.UpdateCustomer(r.Context(), r.PathValue("customerId"), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, customer)
}

// GetCustomerConnections handles GET /api/v1/customers/{customerId}/connections
func (h *CustomerHandler) GetCustomerConnections(w http.ResponseWriter, r *http.Request) {
	// The customer must exist; an unknown ID is a 404, not an empty list
	if _, err := h.customers.GetCustomer(r.Context(), r.PathValue("customerId")); err != nil {
		respondWithServiceError(w, err)
		return
	}

	connections, err := h.customers.GetCustomerConnections(r.Context(), r.PathValue("customerId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, collectionResponse(connections, int64(len(connections))))
}
