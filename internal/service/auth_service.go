package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"care-admin-service/internal/repository"
	"care-admin-service/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("teléfono o password incorrectos")
	ErrInvalidOTP         = errors.New("código OTP incorrecto")
	// El paso OTP solo es alcanzable después de un login exitoso.
	ErrOTPNotRequested = errors.New("no hay un login pendiente para este teléfono")
	ErrInvalidToken    = errors.New("token inválido o expirado")
)

// AuthService resuelve el ingreso en dos pasos: credencial phone+password
// contra admins/{phone} (lectura única, no suscripción) y después un
// código fijo de seis dígitos como segundo factor.
//
// El código fijo es un placeholder de un envío OTP real; las sesiones son
// tokens opacos en memoria, sin expiración ni persistencia.
type AuthService struct {
	admins  *repository.AdminRepository
	otpCode string

	mu       sync.Mutex
	pending  map[string]bool   // teléfonos con login exitoso esperando OTP
	sessions map[string]string // token -> teléfono
}

func NewAuthService(admins *repository.AdminRepository, otpCode string) *AuthService {
	return &AuthService{
		admins:   admins,
		otpCode:  otpCode,
		pending:  map[string]bool{},
		sessions: map[string]string{},
	}
}

// Login compara la credencial guardada. Acepta hashes bcrypt y, para
// registros legados, texto plano comparado en tiempo constante.
func (a *AuthService) Login(ctx context.Context, phone, password string) error {
	cred, err := a.admins.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if strings.HasPrefix(cred.Password, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(password)) != nil {
			return ErrInvalidCredentials
		}
	} else if subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}

	a.mu.Lock()
	a.pending[phone] = true
	a.mu.Unlock()
	return nil
}

// VerifyOTP consume el login pendiente y emite el token de sesión.
func (a *AuthService) VerifyOTP(phone, code string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.pending[phone] {
		return "", ErrOTPNotRequested
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(a.otpCode)) != 1 {
		return "", ErrInvalidOTP
	}

	delete(a.pending, phone)
	token := uuid.NewString()
	a.sessions[token] = phone
	return token, nil
}

// ValidateToken devuelve el teléfono del admin dueño de la sesión.
func (a *AuthService) ValidateToken(token string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	phone, ok := a.sessions[token]
	if !ok {
		return "", ErrInvalidToken
	}
	return phone, nil
}
