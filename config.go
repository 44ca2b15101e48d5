package cloak

import (
	"context"
	"time"
)

// Config declares the strategies of a Pipeline. Every slot is optional
// except key material for the default cipher; New resolves each unset slot
// to its built-in default once.
type Config struct {
	// Key is the key material of the default cipher. Required unless Cipher
	// is set or both Encrypt and Decrypt are set.
	Key []byte

	// Algorithm selects the default cipher. Defaults to EncryptAES.
	Algorithm EncryptAlgo

	// Cipher replaces the default cipher.
	Cipher Cipher

	// Encrypt and Decrypt individually override the cipher.
	Encrypt func(plaintext string) (string, error)
	Decrypt func(ciphertext string) (string, error)

	// NotEncrypted replaces the exemption policy. Defaults to
	// DefaultExemption(IsDev).
	NotEncrypted func(*Request) bool

	// Dev enables development mode: requests go out in cleartext and
	// responses are passed through untouched.
	Dev bool

	// IsDev overrides Dev with a dynamic check.
	IsDev func() bool

	// IsEncryptionPath replaces the path classifier predicate.
	IsEncryptionPath func(segment string) bool

	// Rules replaces the classifier rule set. Defaults to DefaultRules().
	Rules []Rule

	// Marker supplies an explicit marker header value for encrypted
	// requests. An empty result falls back to the current time.
	Marker func() string

	// Now is the clock used for marker values. Defaults to time.Now.
	Now func() time.Time

	// Codecs registers additional body codecs keyed by their content type.
	// JSON is always available.
	Codecs []Codec
}

// Pipeline holds the resolved strategies. It never re-reads the Config it
// was built from and is safe for concurrent use.
type Pipeline struct {
	encrypt          func(string) (string, error)
	decrypt          func(string) (string, error)
	notEncrypted     func(*Request) bool
	isDev            func() bool
	isEncryptionPath func(string) bool
	classifier       *Classifier
	marker           func() string
	now              func() time.Time
	codecs           codecSet
	algorithm        EncryptAlgo
}

// New resolves cfg into a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	p := &Pipeline{
		encrypt:          cfg.Encrypt,
		decrypt:          cfg.Decrypt,
		notEncrypted:     cfg.NotEncrypted,
		isDev:            cfg.IsDev,
		isEncryptionPath: cfg.IsEncryptionPath,
		classifier:       NewClassifier(cfg.Rules...),
		marker:           cfg.Marker,
		now:              cfg.Now,
		codecs:           newCodecSet(cfg.Codecs),
		algorithm:        cfg.Algorithm,
	}

	if p.encrypt == nil || p.decrypt == nil {
		c := cfg.Cipher
		if c == nil {
			enc, err := NewEncryptor(cfg.Algorithm, cfg.Key)
			if err != nil {
				return nil, err
			}
			c = TextCipher(enc)
			if p.algorithm == "" {
				p.algorithm = EncryptAES
			}
		}
		if p.encrypt == nil {
			p.encrypt = c.Encrypt
		}
		if p.decrypt == nil {
			p.decrypt = c.Decrypt
		}
	}

	if p.isDev == nil {
		dev := cfg.Dev
		p.isDev = func() bool { return dev }
	}
	if p.notEncrypted == nil {
		p.notEncrypted = DefaultExemption(p.isDev)
	}
	if p.isEncryptionPath == nil {
		p.isEncryptionPath = p.classifier.IsSensitiveSegment
	}
	if p.now == nil {
		p.now = time.Now
	}

	algorithm := string(p.algorithm)
	if algorithm == "" {
		algorithm = "custom"
	}
	emitPipelineCreated(context.Background(), algorithm, len(p.classifier.rules), p.isDev())
	return p, nil
}

// Classifier returns the classifier built from the configured rules.
func (p *Pipeline) Classifier() *Classifier {
	return p.classifier
}

// Dev reports whether development mode is active.
func (p *Pipeline) Dev() bool {
	return p.isDev()
}
