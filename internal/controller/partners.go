package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"care-admin-service/internal/dto"
	"care-admin-service/internal/model"
	"care-admin-service/internal/service"
	"care-admin-service/internal/store"
)

// GET /pathologies?q= — todas las pathologies, con búsqueda opcional
func (ctl *Controller) GetPathologies(c *gin.Context) {
	partners, err := ctl.Partners.GetAll(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data: " + err.Error(), "data": []*model.PathologyPartner{}})
		return
	}
	c.JSON(http.StatusOK, partners)
}

// GET /pathologies/unverified — vista de pendientes de verificación
func (ctl *Controller) GetUnverifiedPathologies(c *gin.Context) {
	partners, err := ctl.Partners.GetUnverified(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data: " + err.Error(), "data": []*model.PathologyPartner{}})
		return
	}
	c.JSON(http.StatusOK, partners)
}

// GET /pathologies/stream — feed en vivo por SSE
func (ctl *Controller) StreamPathologies(c *gin.Context) {
	ch, release, err := ctl.Partners.Subscribe(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer release()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("pathologies", snap)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// POST /pathologies/:id/verify — marca el partner como verificado
func (ctl *Controller) VerifyPathology(c *gin.Context) {
	err := ctl.Partners.Verify(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "pathology verified"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "pathology not found"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// GET /pathologies/:id/transactions?q=&sort=
func (ctl *Controller) GetPathologyTransactions(c *gin.Context) {
	txs, err := ctl.Partners.Transactions(c.Request.Context(), c.Param("id"), c.Query("q"), c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching transactions: " + err.Error(), "data": []*model.Transaction{}})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// GET /hospitals — lectura one-shot
func (ctl *Controller) GetHospitals(c *gin.Context) {
	hospitals, err := ctl.Hospitals.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading hospitals: " + err.Error(), "data": []*model.HospitalPartner{}})
		return
	}
	c.JSON(http.StatusOK, hospitals)
}

// POST /hospitals — alta de hospital con re-fetch del listado
func (ctl *Controller) RegisterHospital(c *gin.Context) {
	var req dto.RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hosp, all, err := ctl.Hospitals.Register(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrAllFieldsRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
	case err != nil && hosp == nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case err != nil:
		// El alta se escribió pero el re-fetch falló.
		c.JSON(http.StatusCreated, gin.H{"hospital": hosp, "warning": err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"hospital": hosp, "hospitals": all})
	}
}

// GET /geocode?q= — pasa la consulta al colaborador de mapas
func (ctl *Controller) Geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	res, err := ctl.Geocoder.Search(query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
