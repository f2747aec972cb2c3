package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS  = ""     // e.g. "example.com,example2.com"
	MYSQL_DSN    = ""     // MySQL will be used if this is set
	SQLITE_FILE  = ""     // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS = "0.0.0.0:8080"
	TMP_DIR      = "/tmp" // Local scratch space when media lives on S3
	DEBUG_MODE   = true

	// Media roots. A value starting with "s3://" selects the S3 backend,
	// anything else is a directory on disk.
	IMAGES_ROOT = "uploads/images"
	AUDIO_ROOT  = "uploads/audio"

	S3_ACCESS_KEY = ""
	S3_SECRET_KEY = ""
	S3_REGION     = "us-east-1"
	S3_ENDPOINT   = ""

	// Upload limits
	MAX_IMAGE_SIZE_MB = 10
	MAX_AUDIO_SIZE_MB = 15

	// Translation
	TRANSLATION_ENABLED  = true
	TRANSLATION_PROVIDER = "deepl" // "deepl" or "rest"
	TRANSLATION_ENDPOINT = ""      // REST provider endpoint
	TRANSLATION_API_KEY  = ""      // REST provider key (optional)
	DEEPL_API_KEY        = ""
	SOURCE_LANGUAGE      = "cs"
	TARGET_LANGUAGES     = "en,de,es,fr,hi,ja,pt,ru,zh"

	SESSION_KEY = "change me in production"
)

func init() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("IMAGES_ROOT", &IMAGES_ROOT)
	readEnvString("AUDIO_ROOT", &AUDIO_ROOT)
	readEnvString("S3_ACCESS_KEY", &S3_ACCESS_KEY)
	readEnvString("S3_SECRET_KEY", &S3_SECRET_KEY)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvInt("MAX_IMAGE_SIZE_MB", &MAX_IMAGE_SIZE_MB)
	readEnvInt("MAX_AUDIO_SIZE_MB", &MAX_AUDIO_SIZE_MB)
	readEnvBool("TRANSLATION_ENABLED", &TRANSLATION_ENABLED)
	readEnvString("TRANSLATION_PROVIDER", &TRANSLATION_PROVIDER)
	readEnvString("TRANSLATION_ENDPOINT", &TRANSLATION_ENDPOINT)
	readEnvString("TRANSLATION_API_KEY", &TRANSLATION_API_KEY)
	readEnvString("DEEPL_API_KEY", &DEEPL_API_KEY)
	readEnvString("SOURCE_LANGUAGE", &SOURCE_LANGUAGE)
	readEnvString("TARGET_LANGUAGES", &TARGET_LANGUAGES)
	readEnvString("SESSION_KEY", &SESSION_KEY)
}

// TargetLanguages returns the configured target language codes with the
// source language filtered out. Order is as configured.
func TargetLanguages() []string {
	result := []string{}
	for _, lang := range strings.Split(TARGET_LANGUAGES, ",") {
		lang = strings.TrimSpace(lang)
		if lang == "" || lang == SOURCE_LANGUAGE {
			continue
		}
		result = append(result, lang)
	}
	return result
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
