package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win over it.
//
// Variables:
//
//	KATTA_HTTP_ADDR, KATTA_STORE, JOBS_TABLE, KATTA_JOBS_DATE_INDEX,
//	KATTA_DYNAMO_ENDPOINT, KATTA_DATABASE_DSN, AWS_REGION,
//	AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, KATTA_S3_BUCKET,
//	KATTA_S3_ENDPOINT, KATTA_S3_PUBLIC_URL, KATTA_UPLOAD_MAX_BYTES,
//	KATTA_UPLOAD_FOLDERS (comma separated), KATTA_SECRET_KEY,
//	KATTA_CORS_ORIGINS (comma separated), KATTA_LOG_LEVEL, SENTRY_DSN,
//	KATTA_SHUTDOWN_TIMEOUT (Go duration), KATTA_SEED_USERS.
//
// Malformed numeric or duration values panic, like a malformed JSON file.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = splitList(v)
		}
	}

	str("KATTA_HTTP_ADDR", &config.EndpointAddrHTTP)
	str("KATTA_STORE", &config.StoreBackend)
	str("JOBS_TABLE", &config.JobsTable)
	str("KATTA_JOBS_DATE_INDEX", &config.JobsDateIndex)
	str("KATTA_DYNAMO_ENDPOINT", &config.DynamoEndpoint)
	str("KATTA_DATABASE_DSN", &config.DatabaseDSN)
	str("AWS_REGION", &config.AWSRegion)
	str("AWS_ACCESS_KEY_ID", &config.AWSAccessKeyID)
	str("AWS_SECRET_ACCESS_KEY", &config.AWSSecretAccessKey)
	str("KATTA_S3_BUCKET", &config.S3Bucket)
	str("KATTA_S3_ENDPOINT", &config.S3BaseEndpoint)
	str("KATTA_S3_PUBLIC_URL", &config.S3PublicURL)
	list("KATTA_UPLOAD_FOLDERS", &config.UploadFolders)
	str("KATTA_SECRET_KEY", &config.SecretKey)
	list("KATTA_CORS_ORIGINS", &config.CORSAllowedOrigins)
	str("KATTA_LOG_LEVEL", &config.LogLevel)
	str("SENTRY_DSN", &config.SentryDSN)
	str("KATTA_SEED_USERS", &config.SeedUsersFile)

	if v, ok := os.LookupEnv("KATTA_UPLOAD_MAX_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		config.UploadMaxBytes = n
	}
	if v, ok := os.LookupEnv("KATTA_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.ShutdownTimeout = d
	}
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
