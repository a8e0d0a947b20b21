package config

import (
	"encoding/json"
	"os"

	"github.com/artistkatta/jobservice/internal/flagx"
	"github.com/artistkatta/jobservice/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// both "10s" strings and integer nanoseconds via timex.Duration.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	StoreBackend       string         `json:"store_backend"`
	JobsTable          string         `json:"jobs_table"`
	JobsDateIndex      string         `json:"jobs_date_index"`
	DynamoEndpoint     string         `json:"dynamo_endpoint"`
	DatabaseDSN        string         `json:"database_dsn"`
	AWSRegion          string         `json:"aws_region"`
	AWSAccessKeyID     string         `json:"aws_access_key_id"`
	AWSSecretAccessKey string         `json:"aws_secret_access_key"`
	S3Bucket           string         `json:"s3_bucket"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	S3PublicURL        string         `json:"s3_public_url"`
	UploadMaxBytes     int64          `json:"upload_max_bytes"`
	UploadFolders      []string       `json:"upload_folders"`
	SecretKey          string         `json:"secret_key"`
	CORSAllowedOrigins []string       `json:"cors_allowed_origins"`
	LogLevel           string         `json:"log_level"`
	SentryDSN          string         `json:"sentry_dsn"`
	ShutdownTimeout    timex.Duration `json:"shutdown_timeout"`
	SeedUsersFile      string         `json:"seed_users_file"`
}

// parseJson loads the file named by -c or -config, if any, and copies every
// field present in it into config. A file that cannot be read or decoded
// panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	str(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	str(&config.StoreBackend, c.StoreBackend)
	str(&config.JobsTable, c.JobsTable)
	str(&config.JobsDateIndex, c.JobsDateIndex)
	str(&config.DynamoEndpoint, c.DynamoEndpoint)
	str(&config.DatabaseDSN, c.DatabaseDSN)
	str(&config.AWSRegion, c.AWSRegion)
	str(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	str(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	str(&config.S3Bucket, c.S3Bucket)
	str(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	str(&config.S3PublicURL, c.S3PublicURL)
	str(&config.SecretKey, c.SecretKey)
	str(&config.LogLevel, c.LogLevel)
	str(&config.SentryDSN, c.SentryDSN)
	str(&config.SeedUsersFile, c.SeedUsersFile)

	if c.UploadMaxBytes > 0 {
		config.UploadMaxBytes = c.UploadMaxBytes
	}
	if c.UploadFolders != nil {
		config.UploadFolders = c.UploadFolders
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
