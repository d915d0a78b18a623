package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/geo"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Office   OfficeConfig
	Window   WindowConfig
	Jobs     JobsConfig
	HR       HRConfig
	Roster   RosterConfig
	SMTP     SMTPConfig
	Email    EmailConfig
	Storage  StorageConfig
	Slack    SlackConfig
	AWS      AWSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// OfficeConfig is the geofence around the office.
type OfficeConfig struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// WindowConfig holds "HH:MM" bounds for check-in and check-out.
type WindowConfig struct {
	MorningStart   string
	MorningEnd     string
	AfternoonStart string
	AfternoonEnd   string
	CheckOutMin    string
}

type JobsConfig struct {
	Enabled          bool
	LeaveMarkingHour int
	MonthlyReportDay int
	ReportHour       int
	ArchiveHour      int
	ArchiveAfterDays int
}

type HRConfig struct {
	Email    string
	Password string
	Name     string
	MDEmail  string
}

// RosterConfig locates the roster. SSMParameter wins over Path when set.
type RosterConfig struct {
	Path         string
	SSMParameter string
}

type AWSConfig struct {
	Region string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type EmailConfig struct {
	Provider string // smtp | ses
	From     string
	FromName string
}

type StorageConfig struct {
	Provider string // local | s3
	BasePath string
	BaseURL  string
	Bucket   string
	Prefix   string
}

type SlackConfig struct {
	Token          string
	InfoChannelID  string
	ErrorChannelID string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, reading configuration from environment", "error", err)
	}

	config, err := FromEnv()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds a Config from the process environment without validating it.
func FromEnv() (*Config, error) {
	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "zugo_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Office geofence
	lat, err := getEnvFloat("OFFICE_LAT", 11.120529)
	if err != nil {
		return nil, err
	}
	lon, err := getEnvFloat("OFFICE_LON", 77.3398681)
	if err != nil {
		return nil, err
	}
	radius, err := getEnvFloat("OFFICE_RADIUS_METERS", 100)
	if err != nil {
		return nil, err
	}
	config.Office = OfficeConfig{Latitude: lat, Longitude: lon, RadiusMeters: radius}

	// Check-in windows
	config.Window = WindowConfig{
		MorningStart:   getEnv("CHECKIN_MORNING_START", "09:10"),
		MorningEnd:     getEnv("CHECKIN_MORNING_END", "19:45"),
		AfternoonStart: getEnv("CHECKIN_AFTERNOON_START", "13:30"),
		AfternoonEnd:   getEnv("CHECKIN_AFTERNOON_END", "13:45"),
		CheckOutMin:    getEnv("CHECKOUT_MIN_TIME", "19:15"),
	}

	// Scheduled jobs
	leaveHour, err := getEnvInt("LEAVE_MARKING_HOUR", 20)
	if err != nil {
		return nil, err
	}
	reportDay, err := getEnvInt("MONTHLY_REPORT_DAY", 20)
	if err != nil {
		return nil, err
	}
	reportHour, err := getEnvInt("MONTHLY_REPORT_HOUR", 9)
	if err != nil {
		return nil, err
	}
	archiveHour, err := getEnvInt("ARCHIVE_HOUR", 2)
	if err != nil {
		return nil, err
	}
	archiveDays, err := getEnvInt("ARCHIVE_AFTER_DAYS", 365)
	if err != nil {
		return nil, err
	}
	config.Jobs = JobsConfig{
		Enabled:          getEnv("JOBS_ENABLED", "true") == "true",
		LeaveMarkingHour: leaveHour,
		MonthlyReportDay: reportDay,
		ReportHour:       reportHour,
		ArchiveHour:      archiveHour,
		ArchiveAfterDays: archiveDays,
	}

	config.HR = HRConfig{
		Email:    strings.ToLower(getEnv("HR_EMAIL", "")),
		Password: getEnv("HR_PASSWORD", ""),
		Name:     getEnv("HR_NAME", "HR"),
		MDEmail:  strings.ToLower(getEnv("MD_EMAIL", "")),
	}

	config.Roster = RosterConfig{
		Path:         getEnv("ROSTER_FILE", "config/roster.yaml"),
		SSMParameter: getEnv("ROSTER_SSM_PARAMETER", ""),
	}

	config.AWS = AWSConfig{
		Region: getEnv("AWS_REGION", ""),
	}

	// Email
	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USER", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
	}
	config.Email = EmailConfig{
		Provider: getEnv("EMAIL_PROVIDER", "smtp"),
		From:     getEnv("EMAIL_FROM", getEnv("SMTP_USER", "")),
		FromName: getEnv("EMAIL_FROM_NAME", "Zugo Attendance"),
	}

	// Storage
	config.Storage = StorageConfig{
		Provider: getEnv("STORAGE_PROVIDER", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./data"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
		Bucket:   getEnv("STORAGE_BUCKET", ""),
		Prefix:   getEnv("STORAGE_PREFIX", "attendance"),
	}

	config.Slack = SlackConfig{
		Token:          getEnv("SLACK_BOT_TOKEN", ""),
		InfoChannelID:  getEnv("SLACK_INFO_CHANNEL", ""),
		ErrorChannelID: getEnv("SLACK_ERROR_CHANNEL", ""),
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.HR.Email == "" {
		return fmt.Errorf("HR_EMAIL is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Office.RadiusMeters <= 0 {
		return fmt.Errorf("OFFICE_RADIUS_METERS must be positive")
	}
	if _, err := c.Window.Policy(); err != nil {
		return err
	}
	if c.Jobs.LeaveMarkingHour < 0 || c.Jobs.LeaveMarkingHour > 23 {
		return fmt.Errorf("LEAVE_MARKING_HOUR must be between 0 and 23")
	}
	if c.Jobs.ReportHour < 0 || c.Jobs.ReportHour > 23 {
		return fmt.Errorf("MONTHLY_REPORT_HOUR must be between 0 and 23")
	}
	if c.Jobs.ArchiveHour < 0 || c.Jobs.ArchiveHour > 23 {
		return fmt.Errorf("ARCHIVE_HOUR must be between 0 and 23")
	}
	if c.Jobs.MonthlyReportDay < 1 || c.Jobs.MonthlyReportDay > 28 {
		return fmt.Errorf("MONTHLY_REPORT_DAY must be between 1 and 28")
	}
	switch c.Email.Provider {
	case "smtp", "ses":
	default:
		return fmt.Errorf("EMAIL_PROVIDER must be smtp or ses")
	}
	if c.Email.Provider == "ses" && c.Email.From == "" {
		return fmt.Errorf("EMAIL_FROM is required for ses")
	}
	switch c.Storage.Provider {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("STORAGE_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("STORAGE_PROVIDER must be local or s3")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the office time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// Fence returns the office geofence.
func (c OfficeConfig) Fence() geo.Fence {
	return geo.Fence{
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		RadiusMeters: c.RadiusMeters,
	}
}

// Policy parses the configured windows.
func (c WindowConfig) Policy() (attendance.WindowPolicy, error) {
	var policy attendance.WindowPolicy
	fields := []struct {
		env   string
		value string
		dst   *attendance.TimeOfDay
	}{
		{"CHECKIN_MORNING_START", c.MorningStart, &policy.MorningStart},
		{"CHECKIN_MORNING_END", c.MorningEnd, &policy.MorningEnd},
		{"CHECKIN_AFTERNOON_START", c.AfternoonStart, &policy.AfternoonStart},
		{"CHECKIN_AFTERNOON_END", c.AfternoonEnd, &policy.AfternoonEnd},
		{"CHECKOUT_MIN_TIME", c.CheckOutMin, &policy.CheckOutMin},
	}
	for _, f := range fields {
		tod, err := attendance.ParseTimeOfDay(f.value)
		if err != nil {
			return attendance.WindowPolicy{}, fmt.Errorf("invalid %s: %w", f.env, err)
		}
		*f.dst = tod
	}
	if err := policy.Validate(); err != nil {
		return attendance.WindowPolicy{}, err
	}
	return policy, nil
}

// UsesAWS reports whether any component needs AWS credentials.
func (c *Config) UsesAWS() bool {
	return c.Email.Provider == "ses" || c.Storage.Provider == "s3" || c.Roster.SSMParameter != ""
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
