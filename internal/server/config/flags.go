package config

import (
	"flag"
	"os"

	"github.com/artistkatta/jobservice/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-m string   store backend: dynamodb, postgres or memory
//	-t string   DynamoDB jobs table
//	-i string   DynamoDB date index (empty scans the table)
//	-d string   PostgreSQL DSN
//	-g string   AWS region
//	-b string   S3 bucket name
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-s string   JWT HMAC secret key
//	-l string   log level
//	-u string   JSON file of users to seed the memory backend with
//
// Only the flags listed above are taken from os.Args; the rest are left for
// other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-t", "-i", "-d", "-g", "-b", "-e", "-s", "-l", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StoreBackend, "m", config.StoreBackend, "store backend (dynamodb, postgres, memory)")
	fs.StringVar(&config.JobsTable, "t", config.JobsTable, "DynamoDB jobs table")
	fs.StringVar(&config.JobsDateIndex, "i", config.JobsDateIndex, "DynamoDB date index")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AWSRegion, "g", config.AWSRegion, "AWS region")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.SeedUsersFile, "u", config.SeedUsersFile, "seed users file (memory backend)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
