package config

import (
	"os"
	"strconv"
	"time"
)

// Значения по умолчанию общие для всех сервисов; порты повторяют раскладку
// docker-compose: store 8480, order 8380, warehouse 8280, warranty 8180.
const (
	defaultUpdateDuration = 60 * time.Second
	defaultCalloutNumber  = 4
	defaultCalloutTimeout = 3 * time.Second

	defaultAdminUsername = "root"
	defaultAdminPassword = "root"

	defaultQueueName    = "warranty_enrolment"
	defaultUserCacheTTL = 300 * time.Second
)

// Gate — параметры health gate для исходящих вызовов.
type Gate struct {
	// UpdateDuration — cooldown до повторной пробы упавшего сервиса.
	UpdateDuration time.Duration
	// CalloutNumber — число попыток на один исходящий вызов.
	CalloutNumber int
	// CalloutTimeout — таймаут одной попытки.
	CalloutTimeout time.Duration
}

// Admin — учётные данные basic auth для /manage/health.
type Admin struct {
	Username string
	Password string
}

// Store — конфигурация сервиса витрины.
type Store struct {
	Addr          string
	DatabaseURL   string
	OrderHost     string
	WarehouseHost string
	WarrantyHost  string
	RedisAddr     string
	RedisPassword string
	UserCacheTTL  time.Duration
	Gate          Gate
	Admin         Admin
	LogLevel      string
}

// Order — конфигурация сервиса заказов.
type Order struct {
	Addr          string
	DatabaseURL   string
	WarehouseHost string
	WarrantyHost  string
	AMQPURL       string
	QueueName     string
	KafkaBrokers  string
	Gate          Gate
	Admin         Admin
	LogLevel      string
}

// Warehouse — конфигурация сервиса склада.
type Warehouse struct {
	Addr         string
	DatabaseURL  string
	WarrantyHost string
	Gate         Gate
	Admin        Admin
	LogLevel     string
}

// Warranty — конфигурация сервиса гарантий.
type Warranty struct {
	Addr        string
	DatabaseURL string
	Admin       Admin
	LogLevel    string
}

// LoadStore читает конфигурацию витрины из окружения.
func LoadStore() Store {
	return Store{
		Addr:          ":" + getEnv("PORT", "8480"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		OrderHost:     os.Getenv("ORDER_HOST"),
		WarehouseHost: os.Getenv("WAREHOUSE_HOST"),
		WarrantyHost:  os.Getenv("WARRANTY_HOST"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		UserCacheTTL:  getEnvSeconds("USER_CACHE_TTL", defaultUserCacheTTL),
		Gate:          loadGate(),
		Admin:         loadAdmin(),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// LoadOrder читает конфигурацию сервиса заказов из окружения.
func LoadOrder() Order {
	return Order{
		Addr:          ":" + getEnv("PORT", "8380"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		WarehouseHost: os.Getenv("WAREHOUSE_HOST"),
		WarrantyHost:  os.Getenv("WARRANTY_HOST"),
		AMQPURL:       os.Getenv("AMQP_URL"),
		QueueName:     getEnv("QUEUE_NAME", defaultQueueName),
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		Gate:          loadGate(),
		Admin:         loadAdmin(),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// LoadWarehouse читает конфигурацию склада из окружения.
func LoadWarehouse() Warehouse {
	return Warehouse{
		Addr:         ":" + getEnv("PORT", "8280"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		WarrantyHost: os.Getenv("WARRANTY_HOST"),
		Gate:         loadGate(),
		Admin:        loadAdmin(),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

// LoadWarranty читает конфигурацию сервиса гарантий из окружения.
func LoadWarranty() Warranty {
	return Warranty{
		Addr:        ":" + getEnv("PORT", "8180"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Admin:       loadAdmin(),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func loadGate() Gate {
	return Gate{
		UpdateDuration: getEnvSeconds("SERVICES_UPDATE_DURATION", defaultUpdateDuration),
		CalloutNumber:  getEnvInt("SERVICES_CALLOUT_NUMBER", defaultCalloutNumber),
		CalloutTimeout: getEnvSeconds("SERVICES_CALLOUT_TIMEOUT", defaultCalloutTimeout),
	}
}

func loadAdmin() Admin {
	return Admin{
		Username: getEnv("ADMIN_USERNAME", defaultAdminUsername),
		Password: getEnv("ADMIN_PASSWORD", defaultAdminPassword),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// getEnvSeconds трактует значение переменной как число секунд.
func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
