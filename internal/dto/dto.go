// dto.go
package dto

// LoginRequest es el primer paso del ingreso: teléfono + password contra
// el registro admin guardado.
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	OTPRequired bool   `json:"otpRequired"`
	Message     string `json:"message"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type VerifyOTPResponse struct {
	Token string `json:"token"`
}

// BookingEditRequest es el draft editable de una orden: día calendario,
// hora:minuto y estado enumerado.
type BookingEditRequest struct {
	Date   string `json:"date" binding:"required"`   // 2006-01-02
	Time   string `json:"time" binding:"required"`   // 15:04
	Status string `json:"status" binding:"required"` // pending | confirmed | completed
}

type RegisterHospitalRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Number     string `json:"number"`
	OpenTime   string `json:"openTime"`
	CloseTime  string `json:"closeTime"`
	BlockStart string `json:"blockStart"`
	BlockEnd   string `json:"blockEnd"`
	// Radio de cobertura en km, como texto del formulario.
	CoverageKm string `json:"coverageKm"`
	LatLng     string `json:"latlng"`
	IsOpen     bool   `json:"isOpen"`
}

// OrderResponse agrega a la orden persistida las proyecciones de display
// ("11 Jun 2025 11:14 PM"); nunca vuelven al storage.
type OrderResponse struct {
	ID                 string  `json:"id"`
	UserNumber         string  `json:"userNumber"`
	TotalAmount        float64 `json:"totalAmount"`
	BookingTime        string  `json:"bookingTime"`
	ArrivalTime        string  `json:"arrivalTime"`
	BookingTimeDisplay string  `json:"bookingTimeDisplay"`
	ArrivalTimeDisplay string  `json:"arrivalTimeDisplay"`
	Status             string  `json:"status"`
	UserID             string  `json:"userId,omitempty"`
}

type DashboardSummary struct {
	TotalOrders          int     `json:"totalOrders"`
	PendingOrders        int     `json:"pendingOrders"`
	ConfirmedOrders      int     `json:"confirmedOrders"`
	CompletedOrders      int     `json:"completedOrders"`
	TotalHospitals       int     `json:"totalHospitals"`
	TotalPathologies     int     `json:"totalPathologies"`
	VerifiedPathologies  int     `json:"verifiedPathologies"`
	PendingVerifications int     `json:"pendingVerifications"`
	TotalRevenue         float64 `json:"totalRevenue"`
}

type WalletSummary struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	CapturedBalance  float64 `json:"capturedBalance"`
	TransactionCount int     `json:"transactionCount"`
}

type GeocodeResponse struct {
	DisplayName string `json:"displayName"`
	LatLng      string `json:"latlng"`
}
