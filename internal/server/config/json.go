package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/filedrop/internal/flagx"
	"github.com/dmitrijs2005/filedrop/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds. Pointers tell an
// absent key from an explicit false or zero.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3UsePathStyle              *bool          `json:"s3_use_path_style"`
	S3RetryMax                  *int           `json:"s3_retry_max"`
	S3RetryWaitMax              timex.Duration `json:"s3_retry_wait_max"`
	LocalStorageRoot            string         `json:"local_storage_root"`
	MasterKey                   string         `json:"master_key"`
	StreamChunkSize             int            `json:"stream_chunk_size"`
	BulkCompression             string         `json:"bulk_compression"`
	AllowPartialBulk            *bool          `json:"allow_partial_bulk"`
	DirectLinkTTL               timex.Duration `json:"direct_link_ttl"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	The FILEDROP_CONFIG environment variable.
//	If neither is set, no JSON file is loaded.
//
// Keys missing from the file keep the value already in config. If the file
// cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.ConfigPath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.S3UsePathStyle != nil {
		config.S3UsePathStyle = *c.S3UsePathStyle
	}
	if c.S3RetryMax != nil {
		config.S3RetryMax = *c.S3RetryMax
	}
	if c.S3RetryWaitMax.Duration != 0 {
		config.S3RetryWaitMax = c.S3RetryWaitMax.Duration
	}
	setString(&config.LocalStorageRoot, c.LocalStorageRoot)
	setString(&config.MasterKey, c.MasterKey)
	if c.StreamChunkSize != 0 {
		config.StreamChunkSize = c.StreamChunkSize
	}
	setString(&config.BulkCompression, c.BulkCompression)
	if c.AllowPartialBulk != nil {
		config.AllowPartialBulk = *c.AllowPartialBulk
	}
	if c.DirectLinkTTL.Duration != 0 {
		config.DirectLinkTTL = c.DirectLinkTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
