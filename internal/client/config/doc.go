// Package config loads runtime configuration for the katta CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the job service
//	-t int      request timeout (seconds)
//	-s int      profile cache lifetime (minutes)
//	-k string   bearer token for mutating requests
//	-x string   server signing key; login then mints a token for the user
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "15s",
//	  "session_ttl": "30m",
//	  "token": "",
//	  "signing_key": ""
//	}
package config
