package cloak

// EncryptAlgo represents a supported default cipher algorithm.
type EncryptAlgo string

const (
	// EncryptAES uses AES-GCM symmetric encryption.
	EncryptAES EncryptAlgo = "aes"

	// EncryptChaCha20 uses XChaCha20-Poly1305 symmetric encryption.
	EncryptChaCha20 EncryptAlgo = "chacha20"

	// EncryptEnvelope uses envelope encryption with per-message data keys.
	EncryptEnvelope EncryptAlgo = "envelope"
)

// validEncryptAlgos contains all valid encryption algorithms.
var validEncryptAlgos = map[EncryptAlgo]bool{
	EncryptAES:      true,
	EncryptChaCha20: true,
	EncryptEnvelope: true,
}

// IsValidEncryptAlgo returns true if the algorithm is a known encryption algorithm.
func IsValidEncryptAlgo(algo EncryptAlgo) bool {
	return validEncryptAlgos[algo]
}

// NewEncryptor builds the built-in encryptor for algo from raw key material.
// An empty algorithm selects AES.
func NewEncryptor(algo EncryptAlgo, key []byte) (Encryptor, error) {
	if algo == "" {
		algo = EncryptAES
	}
	if !IsValidEncryptAlgo(algo) {
		return nil, newConfigError(ErrInvalidAlgorithm, string(algo), "Algorithm")
	}
	if len(key) == 0 {
		return nil, newConfigError(ErrMissingKey, string(algo), "Key")
	}

	var (
		enc Encryptor
		err error
	)
	switch algo {
	case EncryptChaCha20:
		enc, err = ChaCha20(key)
	case EncryptEnvelope:
		enc, err = Envelope(key)
	default:
		enc, err = AES(key)
	}
	if err != nil {
		return nil, &ConfigError{Err: err, Field: "Key", Algorithm: string(algo)}
	}
	return enc, nil
}
