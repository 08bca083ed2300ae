// config.go
package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	MongoURI    string
	MongoDBName string
	RabbitURL   string
	GeocodeURL  string
	OTPCode     string
	BookingTZ   string
	Port        string
}

func Load() *Config {
	// .env opcional para desarrollo local
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "care_admin_db"),
		RabbitURL:   getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		GeocodeURL:  getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org"),
		OTPCode:     getEnv("ADMIN_OTP_CODE", "123456"),
		BookingTZ:   getEnv("BOOKING_TZ", "Asia/Kolkata"),
		Port:        getEnv("PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
