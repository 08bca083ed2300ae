// models.go
package model

// Estados de ciclo de vida de una orden de traslado.
// Revisiones viejas guardaban un booleano isCompleted; acá se decodifica
// al leer y nunca se vuelve a escribir.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted:
		return true
	}
	return false
}

// TransportOrder es la copia ledger de una orden de care carriage.
// bookingTime y arrivalTime se persisten como string RFC3339 con offset,
// el único formato que cruza el límite del store.
type TransportOrder struct {
	ID          string      `bson:"-" json:"id"`
	UserNumber  string      `bson:"userNumber,omitempty" json:"userNumber"`
	TotalAmount float64     `bson:"totalAmount,omitempty" json:"totalAmount"`
	BookingTime string      `bson:"bookingTime,omitempty" json:"bookingTime"`
	ArrivalTime string      `bson:"arrivalTime,omitempty" json:"arrivalTime"`
	Status      OrderStatus `bson:"status,omitempty" json:"status"`
	// Back-reference opcional al cliente dueño; ubica la copia espejo.
	UserID string `bson:"userId,omitempty" json:"userId,omitempty"`

	// Solo lectura: flag booleano de revisiones anteriores al enum.
	LegacyCompleted *bool `bson:"isCompleted,omitempty" json:"-"`
}

// EffectiveStatus resuelve el estado incluso para registros viejos que
// solo traen isCompleted.
func (o *TransportOrder) EffectiveStatus() OrderStatus {
	if o.Status.IsValid() {
		return o.Status
	}
	if o.LegacyCompleted != nil && *o.LegacyCompleted {
		return StatusCompleted
	}
	return StatusPending
}

type TestItem struct {
	TestName string  `bson:"testName" json:"testName"`
	Price    float64 `bson:"price" json:"price"`
}

// PathologyPartner usa los nombres de campo históricos del store
// (path_name, path_phoneNo, ...) para seguir leyendo los registros existentes.
type PathologyPartner struct {
	ID          string     `bson:"-" json:"id"`
	Name        string     `bson:"path_name" json:"path_name"`
	PhoneNo     string     `bson:"path_phoneNo" json:"path_phoneNo"`
	Address     string     `bson:"path_address" json:"path_address"`
	OpenTime    string     `bson:"path_openTime" json:"path_openTime"`
	CloseTime   string     `bson:"path_closeTime" json:"path_closeTime"`
	Verified    bool       `bson:"verified" json:"verified"`
	IsOpen      bool       `bson:"isOpen" json:"isOpen"`
	Certificate string     `bson:"certificate,omitempty" json:"certificate,omitempty"`
	Lat         float64    `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng         float64    `bson:"lng,omitempty" json:"lng,omitempty"`
	Tests       []TestItem `bson:"tests,omitempty" json:"tests,omitempty"`
}

type HospitalPartner struct {
	ID           string `bson:"-" json:"id"`
	Name         string `bson:"hospital_name" json:"hospital_name"`
	Address      string `bson:"hospital_address" json:"hospital_address"`
	Number       string `bson:"hospital_number" json:"hospital_number"`
	Timing       string `bson:"hospital_timing" json:"hospital_timing"`
	BlockPeriod  string `bson:"appointment_block_period" json:"appointment_block_period"`
	CoverageArea string `bson:"coverage_area" json:"coverage_area"`
	// Par "lat,lng" tal como lo entrega el widget de mapas.
	LatLng string `bson:"lat_log" json:"lat_log"`
	IsOpen bool   `bson:"isOpen" json:"isOpen"`
}

type SelectedTest struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

type PaymentDetails struct {
	Amount    float64 `bson:"amount" json:"amount"`
	Contact   string  `bson:"contact" json:"contact"`
	Email     string  `bson:"email" json:"email"`
	Status    string  `bson:"status" json:"status"`
	PaymentID string  `bson:"paymentId" json:"paymentId"`
}

// Transaction se produce completa en el checkout externo; este sistema
// solo la lee.
type Transaction struct {
	TransactionKey string         `bson:"transactionKey" json:"transactionKey"`
	InitiatedAt    string         `bson:"initiatedAt" json:"initiatedAt"`
	Address        string         `bson:"address,omitempty" json:"address,omitempty"`
	Lat            float64        `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng            float64        `bson:"lng,omitempty" json:"lng,omitempty"`
	PathologyID    string         `bson:"pathologyId,omitempty" json:"pathologyId,omitempty"`
	UserID         string         `bson:"userId,omitempty" json:"userId,omitempty"`
	TotalAmount    float64        `bson:"totalAmount" json:"totalAmount"`
	SelectedTests  []SelectedTest `bson:"selectedTests,omitempty" json:"selectedTests,omitempty"`
	PaymentDetails PaymentDetails `bson:"paymentDetails" json:"paymentDetails"`
}

// AdminCredential vive en admins/{phone}. El password puede ser un hash
// bcrypt o, en registros legados, texto plano.
type AdminCredential struct {
	Password string `bson:"password" json:"-"`
}
