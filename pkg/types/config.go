package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DatabaseSchema  string `envconfig:"DATABASE_SCHEMA" default:"aimploy"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"60"`

	// File storage
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"disk"` // disk or s3
	UploadDir      string `envconfig:"UPLOAD_DIR" default:"public/uploads"`

	// S3 compatible storage (AWS, R2, MinIO). Credentials fall back to the
	// default AWS chain when the static keys are empty.
	S3BucketName string `envconfig:"S3_BUCKET_NAME"`
	S3Endpoint   string `envconfig:"S3_ENDPOINT"`
	S3Region     string `envconfig:"S3_REGION"`
	S3AccessKey  string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey  string `envconfig:"S3_SECRET_KEY"`

	// Draft cookie
	DraftCookieName string `envconfig:"DRAFT_COOKIE_NAME" default:"aimploy_draft"`
	DraftMaxAgeSec  int    `envconfig:"DRAFT_MAX_AGE_SEC" default:"86400"` // 1 day
	CookieSecure    bool   `envconfig:"COOKIE_SECURE" default:"true"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Submissions from older clients that only send the top-level
	// behavioralAnswer/audioResponseUrl/videoResponseUrl fields.
	AcceptLegacyPayloads bool `envconfig:"ACCEPT_LEGACY_PAYLOADS" default:"true"`
}
