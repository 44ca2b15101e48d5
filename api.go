// Package cloak provides selective encryption of HTTP requests and
// responses.
//
// A Pipeline decides which parts of an outbound request carry sensitive
// data, encrypts them through a pluggable Cipher, and decrypts the matching
// response body, transparently to the calling code.
//
// # Requests
//
// TransformRequest rewrites a Request descriptor in place:
//
//   - exempt requests (development mode, multipart or binary payloads,
//     blob responses) are only marked with the cleartext tag
//   - the body is serialized with the codec for its Content-Type and
//     replaced by its ciphertext
//   - params are query-encoded (see package qs) and replaced by a RawQuery
//     holding their ciphertext
//   - a literal query string in the URL is encrypted as a whole; otherwise
//     each path segment matching a classification rule is encrypted
//
// Every request carries the marker header Z: the cleartext tag, or an
// opaque timestamp-derived value when encrypted.
//
// # Responses
//
// TransformResponse decrypts the body unless development mode is active,
// the request was marked cleartext, or the body is binary.
//
// # Basic Usage
//
//	p, err := cloak.New(cloak.Config{Key: key})
//	if err != nil {
//	    return err
//	}
//	client := &http.Client{Transport: cloak.NewTransport(p, nil)}
//
//	// GET /user/13800000000 is sent as GET /user/<ciphertext>
//	resp, err := client.Get("https://api.example.com/user/13800000000")
//
// # Classification Rules
//
// The default rules match whole path segments shaped like:
//
//   - id_card: 15 digits, or 17 digits followed by a digit or X
//   - mobile: 1, one of 3/4/5/7/8, then 9 digits
//   - numeric_id: one or more digits
//
// # Ciphers
//
// Built-in encryptors, selected by Config.Algorithm:
//
//   - AES(key) - AES-GCM symmetric encryption
//   - ChaCha20(key) - XChaCha20-Poly1305 symmetric encryption
//   - Envelope(masterKey) - Envelope encryption with per-message data keys
//
// Ciphertext is rendered as unpadded URL-safe base64. Any Cipher, or a pair
// of Encrypt/Decrypt functions, can replace the built-ins.
//
// # Codec Providers
//
// JSON is built in. The following codecs are available as subpackages:
//
//   - yaml - YAML encoding (application/yaml)
//   - xml - XML encoding (application/xml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package cloak
