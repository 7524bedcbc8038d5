package cmd

import "time"

type Config struct {
	HTTPPort           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	KafkaBrokers       []string
	KafkaEventsTopic   string
	StaleTaskThreshold time.Duration
}
