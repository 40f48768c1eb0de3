package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	catalogModels "github.com/m04kA/SMC-VoiceReceptionist/internal/service/catalog/models"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/types"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

var (
	ErrInvalidPort     = errors.New("config: invalid port")
	ErrInvalidStorage  = errors.New("config: invalid storage driver")
	ErrInvalidTimezone = errors.New("config: invalid clinic timezone")
	ErrInvalidSchedule = errors.New("config: invalid schedule")
	ErrInvalidDatabase = errors.New("config: invalid database settings")
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Storage    StorageConfig    `toml:"storage"`
	Database   DatabaseConfig   `toml:"database"`
	Redis      RedisConfig      `toml:"redis"`
	Vapi       VapiConfig       `toml:"vapi"`
	Clinic     ClinicConfig     `toml:"clinic"`
	Schedule   ScheduleConfig   `toml:"schedule"`
	StaffAlert StaffAlertConfig `toml:"staff_alert"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int    `toml:"http_port"`
	Environment     string `toml:"environment"`
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	IdleTimeout     int    `toml:"idle_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
	RequestTimeout  int    `toml:"request_timeout"`

	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// StorageConfig выбор хранилища расписания
type StorageConfig struct {
	Driver       string `toml:"driver"`
	SeedDemoData bool   `toml:"seed_demo_data"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig настройки журнала звонков в Redis
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	CallLogKey string `toml:"call_log_key"`
	MaxEntries int    `toml:"max_entries"`
}

// VapiConfig настройки голосовой платформы
type VapiConfig struct {
	WebhookSecret string `toml:"webhook_secret"`
	APIKey        string `toml:"api_key"`
	PhoneNumberID string `toml:"phone_number_id"`
}

// ClinicConfig профиль клиники
type ClinicConfig struct {
	Name       string               `toml:"name"`
	Phone      string               `toml:"phone"`
	Email      string               `toml:"email"`
	Address    string               `toml:"address"`
	StaffPhone string               `toml:"staff_phone"`
	StaffEmail string               `toml:"staff_email"`
	Timezone   string               `toml:"timezone"`
	Hours      domain.ClinicHours   `toml:"hours"`
	Pricing    domain.ClinicPricing `toml:"pricing"`
}

// ScheduleConfig каталог слотов
type ScheduleConfig struct {
	Slots        []SlotConfig        `toml:"slots"`
	Appointments []AppointmentConfig `toml:"appointments"`
	Policy       PolicyConfig        `toml:"policy"`
}

// SlotConfig явный слот каталога
type SlotConfig struct {
	Date string `toml:"date"` // YYYY-MM-DD
	Time string `toml:"time"` // HH:MM
}

// AppointmentConfig демонстрационная запись
type AppointmentConfig struct {
	PatientName     string `toml:"patient_name"`
	Phone           string `toml:"phone"`
	Email           string `toml:"email"`
	Date            string `toml:"date"`
	Time            string `toml:"time"`
	AppointmentType string `toml:"appointment_type"`
	IsNewPatient    bool   `toml:"is_new_patient"`
}

// PolicyConfig генерация слотов по рабочим часам
type PolicyConfig struct {
	Enabled             bool                 `toml:"enabled"`
	SlotDurationMinutes int                  `toml:"slot_duration_minutes"`
	DaysAhead           int                  `toml:"days_ahead"`
	MinNoticeMinutes    int                  `toml:"min_notice_minutes"`
	Holidays            []string             `toml:"holidays"`
	Hours               map[string]DayConfig `toml:"hours"`
}

// DayConfig рабочие часы дня. Пустой open означает выходной
type DayConfig struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// StaffAlertConfig оповещение персонала при переводе звонка
type StaffAlertConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load читает .env, затем TOML файл, затем переменные окружения.
// Отсутствующий файл не ошибка: используются значения по умолчанию.
func Load(path string) (*Config, error) {
	// 1. .env не обязателен
	_ = godotenv.Load()

	// 2. Значения по умолчанию
	cfg := Default()

	// 3. TOML поверх значений по умолчанию
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	// 4. Переменные окружения
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// 5. Валидация
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация демо-клиники
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        3000,
			Environment:     "development",
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			RequestTimeout:  10,

			CORSAllowedOrigins: []string{"*"},
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "voice_receptionist",
		},
		Storage: StorageConfig{
			Driver:       StorageMemory,
			SeedDemoData: true,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			DBName:          "voice_receptionist",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			CallLogKey: "voice_receptionist:call_logs",
			MaxEntries: 1000,
		},
		Clinic: ClinicConfig{
			Name:       "SmileCare Orthodontics",
			Phone:      "(555) 123-4567",
			Email:      "hello@smilecareortho.com",
			Address:    "123 Dental Street, Healthcare City, HC 12345",
			StaffPhone: "(555) 123-4567",
			StaffEmail: "staff@smilecareortho.com",
			Timezone:   "UTC",
			Hours: domain.ClinicHours{
				Monday:    "8:00 AM - 5:00 PM",
				Tuesday:   "8:00 AM - 5:00 PM",
				Wednesday: "8:00 AM - 5:00 PM",
				Thursday:  "8:00 AM - 5:00 PM",
				Friday:    "8:00 AM - 3:00 PM",
				Saturday:  "Closed",
				Sunday:    "Closed",
			},
			Pricing: domain.ClinicPricing{
				Consultation: "$150 (FREE for new patients)",
				Braces:       "$3,500 - $7,000",
				Invisalign:   "$4,000 - $8,000",
				Retainers:    "$300 - $600",
			},
		},
		Schedule: defaultSchedule(),
		StaffAlert: StaffAlertConfig{
			Timeout: 5,
		},
	}
}

func defaultSchedule() ScheduleConfig {
	seed := catalogModels.DefaultSeed()

	slots := make([]SlotConfig, 0, len(seed.Slots))
	for _, s := range seed.Slots {
		slots = append(slots, SlotConfig{Date: s.Date, Time: s.Time.String()})
	}

	appointments := make([]AppointmentConfig, 0, len(seed.Appointments))
	for _, a := range seed.Appointments {
		appointments = append(appointments, AppointmentConfig{
			PatientName:     a.PatientName,
			Phone:           a.Phone,
			Email:           a.Email,
			Date:            a.Date,
			Time:            a.Time,
			AppointmentType: a.AppointmentType,
			IsNewPatient:    a.IsNewPatient,
		})
	}

	return ScheduleConfig{
		Slots:        slots,
		Appointments: appointments,
		Policy: PolicyConfig{
			SlotDurationMinutes: seed.Policy.SlotDurationMinutes,
			DaysAhead:           seed.Policy.DaysAhead,
			Hours: map[string]DayConfig{
				"monday":    {Open: "08:00", Close: "17:00"},
				"tuesday":   {Open: "08:00", Close: "17:00"},
				"wednesday": {Open: "08:00", Close: "17:00"},
				"thursday":  {Open: "08:00", Close: "17:00"},
				"friday":    {Open: "08:00", Close: "15:00"},
			},
		},
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalidPort, v)
		}
		c.Server.HTTPPort = port
	}
	if v := os.Getenv("DATABASE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: DATABASE_PORT=%q", ErrInvalidDatabase, v)
		}
		c.Database.Port = port
	}

	overrides := map[string]*string{
		"ENVIRONMENT":          &c.Server.Environment,
		"LOG_LEVEL":            &c.Logs.Level,
		"VAPI_API_KEY":         &c.Vapi.APIKey,
		"VAPI_WEBHOOK_SECRET":  &c.Vapi.WebhookSecret,
		"VAPI_PHONE_NUMBER_ID": &c.Vapi.PhoneNumberID,
		"STORAGE_DRIVER":       &c.Storage.Driver,
		"DATABASE_HOST":        &c.Database.Host,
		"DATABASE_USER":        &c.Database.User,
		"DATABASE_PASSWORD":    &c.Database.Password,
		"DATABASE_NAME":        &c.Database.DBName,
		"DATABASE_SSLMODE":     &c.Database.SSLMode,
		"REDIS_PASSWORD":       &c.Redis.Password,
		"STAFF_ALERT_URL":      &c.StaffAlert.URL,
		"CLINIC_TIMEZONE":      &c.Clinic.Timezone,
	}
	for key, target := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}

	// Адрес Redis включает журнал звонков в Redis
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	return nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.HTTPPort)
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: host and dbname are required", ErrInvalidDatabase)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStorage, c.Storage.Driver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	for _, s := range c.Schedule.Slots {
		if _, err := time.Parse(domain.DateFormat, s.Date); err != nil {
			return fmt.Errorf("%w: slot date %q", ErrInvalidSchedule, s.Date)
		}
		if _, err := types.NewTimeStringFromString(s.Time); err != nil {
			return fmt.Errorf("%w: slot time %q", ErrInvalidSchedule, s.Time)
		}
	}

	for day := range c.Schedule.Policy.Hours {
		if _, ok := weekdays[day]; !ok {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, day)
		}
	}

	return nil
}

// Location часовой пояс клиники
func (c *Config) Location() (*time.Location, error) {
	if c.Clinic.Timezone == "" || strings.EqualFold(c.Clinic.Timezone, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Clinic.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, c.Clinic.Timezone, err)
	}
	return loc, nil
}

// ClinicInfo профиль клиники для ответов и дашборда
func (c *Config) ClinicInfo() domain.ClinicInfo {
	return domain.ClinicInfo{
		Name:       c.Clinic.Name,
		Phone:      c.Clinic.Phone,
		Email:      c.Clinic.Email,
		Address:    c.Clinic.Address,
		Hours:      c.Clinic.Hours,
		Pricing:    c.Clinic.Pricing,
		StaffPhone: c.Clinic.StaffPhone,
		StaffEmail: c.Clinic.StaffEmail,
	}
}

// StaffAlertTimeout таймаут оповещения персонала
func (c *Config) StaffAlertTimeout() time.Duration {
	return time.Duration(c.StaffAlert.Timeout) * time.Second
}

// RequestTimeout таймаут обработки одного вызова функции
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}
