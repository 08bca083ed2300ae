package rabbit

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"care-admin-service/internal/metrics"
	"care-admin-service/internal/model"
	"care-admin-service/internal/service"
)

type BookingPlacedConsumer struct {
	Repo service.OrderRepository
}

func NewBookingPlacedConsumer(r service.OrderRepository) *BookingPlacedConsumer {
	return &BookingPlacedConsumer{Repo: r}
}

// El flujo de reserva externo publica este evento al crear un traslado.
// Acá solo se materializa la orden pendiente; la edición posterior es del
// workflow de booking.
type BookingPlacedMessage struct {
	CorrelationID string `json:"correlation_id"`
	Message       struct {
		OrderID     string  `json:"orderId"`
		UserID      string  `json:"userId"`
		UserNumber  string  `json:"userNumber"`
		TotalAmount float64 `json:"totalAmount"`
	} `json:"message"`
}

func (c *BookingPlacedConsumer) Handle(msg []byte) error {

	log.Println("[Rabbit] Evento recibido: booking_placed")

	var event BookingPlacedMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		log.Println("Error parseando mensaje:", err)
		return err
	}

	// Sin bookingTime todavía: lo fija el operador al editar. El estado
	// arranca siempre en pending. Reentregas del mismo orderId pisan el
	// mismo registro, así que el consumo es idempotente.
	order := &model.TransportOrder{
		ID:          event.Message.OrderID,
		UserID:      event.Message.UserID,
		UserNumber:  event.Message.UserNumber,
		TotalAmount: event.Message.TotalAmount,
		Status:      model.StatusPending,
	}

	if err := c.Repo.Save(context.Background(), order); err != nil {
		log.Println("❌ Error creando la orden:", err)
		metrics.OperationErrorsTotal.WithLabelValues("booking_ingest").Inc()
		return err
	}

	metrics.OrdersIngestedTotal.Inc()
	log.Println("✔ Orden pendiente creada:", event.Message.OrderID)
	return nil
}
