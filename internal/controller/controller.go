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
	"care-admin-service/internal/timeutil"
)

type Controller struct {
	Booking   *service.BookingService
	Partners  *service.PartnerService
	Hospitals *service.HospitalService
	Auth      *service.AuthService
	Dashboard *service.DashboardService
	Geocoder  Geocoder
}

// Geocoder es el colaborador externo de mapas: texto libre -> dirección
// visible + par "lat,lng". Para el core es entrada opaca del formulario.
type Geocoder interface {
	Search(query string) (*dto.GeocodeResponse, error)
}

func New(booking *service.BookingService, partners *service.PartnerService, hospitals *service.HospitalService, auth *service.AuthService, dashboard *service.DashboardService, geocoder Geocoder) *Controller {
	return &Controller{
		Booking:   booking,
		Partners:  partners,
		Hospitals: hospitals,
		Auth:      auth,
		Dashboard: dashboard,
		Geocoder:  geocoder,
	}
}

// GET /orders — listado completo, más recientes primero
func (ctl *Controller) GetOrders(c *gin.Context) {
	orders, err := ctl.Booking.GetAll(c.Request.Context())
	if err != nil {
		// Error de lectura: la lista se reporta vacía con mensaje, nunca
		// datos viejos.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions: " + err.Error(), "data": []dto.OrderResponse{}})
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// GET /orders/stream — feed en vivo por SSE. La suscripción se libera en
// todos los caminos de salida, incluida la desconexión del cliente.
func (ctl *Controller) StreamOrders(c *gin.Context) {
	ch, release, err := ctl.Booking.Subscribe(c.Request.Context())
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
			c.SSEvent("orders", toOrderResponses(snap))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// PATCH /orders/:orderId/booking — guarda el draft de edición
func (ctl *Controller) UpdateBooking(c *gin.Context) {
	orderID := c.Param("orderId")

	var req dto.BookingEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := ctl.Booking.CommitBookingEdit(c.Request.Context(), orderID, req.Date, req.Time, req.Status)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "booking updated"})
	case errors.Is(err, timeutil.ErrMissingDateTime), errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, service.ErrPartialWrite), errors.Is(err, service.ErrWriteFailed):
		// Falla de escritura: una sola alerta, el draft queda abierto para
		// reintentar. Sin rollback.
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// GET /dashboard/summary
func (ctl *Controller) GetDashboardSummary(c *gin.Context) {
	sum, err := ctl.Dashboard.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GET /wallet/summary
func (ctl *Controller) GetWalletSummary(c *gin.Context) {
	sum, err := ctl.Dashboard.Wallet(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sum)
}

func toOrderResponses(orders []*model.TransportOrder) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.OrderResponse{
			ID:                 o.ID,
			UserNumber:         o.UserNumber,
			TotalAmount:        o.TotalAmount,
			BookingTime:        o.BookingTime,
			ArrivalTime:        o.ArrivalTime,
			BookingTimeDisplay: timeutil.Display(o.BookingTime),
			ArrivalTimeDisplay: timeutil.Display(o.ArrivalTime),
			Status:             string(o.EffectiveStatus()),
			UserID:             o.UserID,
		})
	}
	return out
}
