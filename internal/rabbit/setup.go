// setup.go
package rabbit

import (
	"github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"care-admin-service/internal/service"
)

func SetupConsumers(ch *amqp091.Channel, repo service.OrderRepository) {
	consumer := NewBookingPlacedConsumer(repo)

	// 1. Declarar la queue
	q, err := ch.QueueDeclare(
		"care_admin_service_bookings", // cola exclusiva para este servicio
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error declarando queue:", err)
		return
	}

	// 2. Bindear al exchange fanout
	err = ch.QueueBind(
		q.Name,
		"",               // fanout ignora routing key
		"booking_placed", // el exchange del flujo de reservas
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error binding exchange:", err)
		return
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error al consumir queue:", err)
		return
	}

	go func() {
		for m := range msgs {
			consumer.Handle(m.Body)
		}
	}()

	log.Println("🐰 Suscrito a exchange booking_placed (fanout)")
}
