package main

import (
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/cloak"
)

// Environment variables read by every subcommand.
const (
	envKey         = "CLOAK_KEY"
	envKeyEncoding = "CLOAK_KEY_ENCODING"
	envAlgorithm   = "CLOAK_ALGORITHM"
	envEnv         = "CLOAK_ENV"
	envMarker      = "CLOAK_MARKER"
)

// Key encodings.
const (
	keyRaw        = "raw"
	keyBase64     = "base64"
	keyPassphrase = "passphrase"
)

// passphraseSalt and passphraseInfo bind derived keys to this tool.
var (
	passphraseSalt = []byte("cloak")
	passphraseInfo = []byte("cloak cli key")
)

// cliConfig is the merged configuration of a subcommand. Values come from
// .env, then the process environment, then the -config file, then flags.
type cliConfig struct {
	Key         string `yaml:"key"`
	KeyEncoding string `yaml:"key_encoding"`
	Algorithm   string `yaml:"algorithm"`
	Env         string `yaml:"env"`
	Marker      string `yaml:"marker"`
}

// commonFlags are the flags shared by every subcommand.
type commonFlags struct {
	config    *string
	key       *string
	algorithm *string
	dev       *bool
}

func registerCommon(flags *flag.FlagSet) commonFlags {
	return commonFlags{
		config:    flags.String("config", "", "YAML config file"),
		key:       flags.String("key", "", "key material (overrides "+envKey+")"),
		algorithm: flags.String("algorithm", "", "cipher algorithm: aes, chacha20, envelope"),
		dev:       flags.Bool("dev", false, "development mode: send cleartext, skip decryption"),
	}
}

// resolve merges every configuration source for an already parsed flag set.
func (f commonFlags) resolve() (cliConfig, error) {
	cfg, err := loadConfig(*f.config)
	if err != nil {
		return cfg, err
	}
	if *f.key != "" {
		cfg.Key = *f.key
	}
	if *f.algorithm != "" {
		cfg.Algorithm = *f.algorithm
	}
	if *f.dev {
		cfg.Env = "development"
	}
	return cfg, nil
}

// loadConfig reads .env (a missing file is fine), the environment and the
// optional YAML file at path.
func loadConfig(path string) (cliConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cliConfig{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := cliConfig{
		Key:         os.Getenv(envKey),
		KeyEncoding: os.Getenv(envKeyEncoding),
		Algorithm:   os.Getenv(envAlgorithm),
		Env:         os.Getenv(envEnv),
		Marker:      os.Getenv(envMarker),
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var file cliConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.merge(file)
	return cfg, nil
}

// merge overrides c with every non-empty field of other.
func (c *cliConfig) merge(other cliConfig) {
	if other.Key != "" {
		c.Key = other.Key
	}
	if other.KeyEncoding != "" {
		c.KeyEncoding = other.KeyEncoding
	}
	if other.Algorithm != "" {
		c.Algorithm = other.Algorithm
	}
	if other.Env != "" {
		c.Env = other.Env
	}
	if other.Marker != "" {
		c.Marker = other.Marker
	}
}

func (c cliConfig) dev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development":
		return true
	}
	return false
}

// keyBytes decodes the configured key material.
func (c cliConfig) keyBytes() ([]byte, error) {
	if c.Key == "" {
		return nil, nil
	}
	switch strings.ToLower(c.KeyEncoding) {
	case "", keyRaw:
		return []byte(c.Key), nil
	case keyBase64:
		key, err := base64.StdEncoding.DecodeString(c.Key)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", envKey, err)
		}
		return key, nil
	case keyPassphrase:
		return cloak.DeriveKey([]byte(c.Key), passphraseSalt, passphraseInfo, 32)
	default:
		return nil, fmt.Errorf("unknown key encoding %q", c.KeyEncoding)
	}
}

// pipeline builds the cloak pipeline described by c.
func (c cliConfig) pipeline() (*cloak.Pipeline, error) {
	key, err := c.keyBytes()
	if err != nil {
		return nil, err
	}

	cfg := cloak.Config{
		Key:       key,
		Algorithm: cloak.EncryptAlgo(strings.ToLower(c.Algorithm)),
		Dev:       c.dev(),
		Codecs:    codecs(),
	}
	if c.Marker != "" {
		marker := c.Marker
		cfg.Marker = func() string { return marker }
	}
	return cloak.New(cfg)
}
