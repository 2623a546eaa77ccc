package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"securityalert"`

	// CORS 配置，逗号分隔的允许来源，* 表示全部
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"securityalert"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`
	// 只读副本，留空表示不启用读写分离
	PostgreSQLReplicaHost string `env:"POSTGRESQL_REPLICA_HOST"`
	PostgreSQLReplicaPort string `env:"POSTGRESQL_REPLICA_PORT" envDefault:"5432"`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"salert"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// JWT 配置
	JWTSecret        string `env:"JWT_SECRET"` // 必填，用于签名 JWT
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"30"`
	JWTRefreshDays   int    `env:"JWT_REFRESH_DAYS" envDefault:"7"`

	// 会话 / CSRF 配置（Web 端 cookie 登录时启用）
	SessionSecret string `env:"SESSION_SECRET"`
	CSRFSecret    string `env:"CSRF_SECRET"`
	CSRFEnabled   bool   `env:"CSRF_ENABLED" envDefault:"false"`

	// 邮件服务配置（告警通知通过邮件送达联系人）
	MailProvider  string `env:"MAIL_PROVIDER" envDefault:"sendgrid"` // sendgrid, mock
	MailAPIKey    string `env:"MAIL_API_KEY"`
	MailFromName  string `env:"MAIL_FROM_NAME" envDefault:"SecurityAlert"`
	MailFromEmail string `env:"MAIL_FROM_EMAIL" envDefault:"alerts@securityalert.local"`

	// 短信服务配置（仅留电话的紧急联系人走短信通道）
	// 注意：AccessKey 和 SecretKey 通过阿里云 SDK 的环境变量自动获取
	// 需要设置环境变量：ALIBABA_CLOUD_ACCESS_KEY_ID 和 ALIBABA_CLOUD_ACCESS_KEY_SECRET
	SMSProvider     string `env:"SMS_PROVIDER" envDefault:"mock"` // aliyun, mock
	SMSSignName     string `env:"SMS_SIGN_NAME"`
	SMSTemplateCode string `env:"SMS_TEMPLATE_CODE"`

	// 公开举报接口的人机验证配置
	CaptchaProvider string `env:"CAPTCHA_PROVIDER" envDefault:"none"` // aliyun, none
	CaptchaSceneID  string `env:"CAPTCHA_SCENE_ID" envDefault:"report_submit"`

	// 通缉犯照片存储配置
	PhotoStorageDir string `env:"PHOTO_STORAGE_DIR" envDefault:"./storage/photos"`
	PhotoMaxCount   int    `env:"PHOTO_MAX_COUNT" envDefault:"5"`
	PhotoMaxBytes   int64  `env:"PHOTO_MAX_BYTES" envDefault:"2097152"` // 2MB

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`

	// 速率限制配置, 配置在中间件内
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"100"` // 每秒请求数

	// 告警触发锁 TTL，防止同一用户并发重复触发
	TriggerLockSeconds int `env:"TRIGGER_LOCK_SECONDS" envDefault:"10"`
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.JWTSecret == "" {
		if Cfg.IsProduction() {
			log.Fatal("JWT_SECRET is required in production")
		}
		log.Printf("WARN: JWT_SECRET is not set, using an insecure development secret")
		Cfg.JWTSecret = "insecure-dev-secret"
	}

	if Cfg.MailProvider == "sendgrid" && Cfg.MailAPIKey == "" {
		log.Printf("WARN: MAIL_API_KEY is not set, alert emails will not be delivered")
	}

	if Cfg.SMSProvider == "aliyun" && Cfg.SMSSignName == "" {
		log.Printf("WARN: SMS_SIGN_NAME is not set, SMS delivery may not work properly")
	}
	if Cfg.SMSProvider == "aliyun" && Cfg.SMSTemplateCode == "" {
		log.Printf("WARN: SMS_TEMPLATE_CODE is not set, SMS delivery may not work properly")
	}

	if Cfg.CSRFEnabled && (Cfg.CSRFSecret == "" || Cfg.SessionSecret == "") {
		log.Fatal("CSRF_SECRET and SESSION_SECRET are required when CSRF_ENABLED=true")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

// GetReplicaDSN 返回只读副本 DSN，未配置副本时返回空字符串。
func (c *Config) GetReplicaDSN() string {
	if c.PostgreSQLReplicaHost == "" {
		return ""
	}
	return "host=" + c.PostgreSQLReplicaHost +
		" port=" + c.PostgreSQLReplicaPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
