package repository

import "care-admin-service/internal/store"

// Paths lógicos del store jerárquico. Toda la app los construye acá,
// nunca a mano.
func OrderPath(orderID string) string {
	return "transportOrders/" + orderID
}

// MirrorOrderPath es la copia desnormalizada bajo el registro del cliente.
func MirrorOrderPath(userID, orderID string) string {
	return "users/" + userID + "/transportOrders/" + orderID
}

func PathologyPath(partnerID string) string {
	return "pathologyPartners/" + partnerID
}

func PathologyTransactionsPath(partnerID string) string {
	return "pathologyPartners/" + partnerID + "/transactions"
}

func HospitalPath(hospitalID string) string {
	return "hospitalPartners/" + hospitalID
}

func AdminPath(phone string) string {
	return "admins/" + phone
}

const (
	OrdersCollection      = "transportOrders"
	PathologiesCollection = "pathologyPartners"
	HospitalsCollection   = "hospitalPartners"
)

var ErrNotFound = store.ErrNotFound
