package cloak

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for pipeline events.
var (
	SignalPipelineCreated    = capitan.NewSignal("cloak.pipeline.created", "Pipeline instantiated")
	SignalRequestExempt      = capitan.NewSignal("cloak.request.exempt", "Request sent in cleartext")
	SignalRequestEncrypted   = capitan.NewSignal("cloak.request.encrypted", "Request parts encrypted")
	SignalResponseSkipped    = capitan.NewSignal("cloak.response.skipped", "Response passed through undecrypted")
	SignalResponseDecrypted  = capitan.NewSignal("cloak.response.decrypted", "Response body decrypted")
	SignalResponseDiagnostic = capitan.NewSignal("cloak.response.diagnostic", "Decrypted response observed in development mode")
)

// Keys for typed event data.
var (
	KeyAlgorithm    = capitan.NewStringKey("algorithm")
	KeyRuleCount    = capitan.NewIntKey("rule_count")
	KeyMode         = capitan.NewStringKey("mode")
	KeyURL          = capitan.NewStringKey("url")
	KeyMarker       = capitan.NewStringKey("marker")
	KeyReason       = capitan.NewStringKey("reason")
	KeyFieldCount   = capitan.NewIntKey("field_count")
	KeySize         = capitan.NewIntKey("size")
	KeyPayload      = capitan.NewStringKey("payload")
	KeyContentType  = capitan.NewStringKey("content_type")
	KeyResponseType = capitan.NewStringKey("response_type")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
)

// Reasons a response is passed through.
const (
	reasonDev       = "dev"
	reasonCleartext = "cleartext"
	reasonBinary    = "binary"
	reasonEmpty     = "empty"
)

func modeName(dev bool) string {
	if dev {
		return "development"
	}
	return "production"
}

// emitPipelineCreated emits an event when a pipeline is created.
func emitPipelineCreated(ctx context.Context, algorithm string, rules int, dev bool) {
	capitan.Emit(ctx, SignalPipelineCreated,
		KeyAlgorithm.Field(algorithm),
		KeyRuleCount.Field(rules),
		KeyMode.Field(modeName(dev)),
	)
}

// emitRequestExempt emits an event when a request bypasses encryption.
func emitRequestExempt(ctx context.Context, url string) {
	capitan.Emit(ctx, SignalRequestExempt,
		KeyURL.Field(url),
		KeyMarker.Field(CleartextTag),
	)
}

// emitRequestEncrypted emits an event when request transformation finishes.
func emitRequestEncrypted(ctx context.Context, url, marker string, fields int, duration time.Duration, err error) {
	fieldsList := []capitan.Field{
		KeyURL.Field(url),
		KeyMarker.Field(marker),
		KeyFieldCount.Field(fields),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fieldsList = append(fieldsList, KeyError.Field(err))
		capitan.Error(ctx, SignalRequestEncrypted, fieldsList...)
	} else {
		capitan.Emit(ctx, SignalRequestEncrypted, fieldsList...)
	}
}

// emitResponseSkipped emits an event when a response is passed through.
func emitResponseSkipped(ctx context.Context, url, reason string) {
	capitan.Emit(ctx, SignalResponseSkipped,
		KeyURL.Field(url),
		KeyReason.Field(reason),
	)
}

// emitResponseDecrypted emits an event when response decryption finishes.
func emitResponseDecrypted(ctx context.Context, url string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyURL.Field(url),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalResponseDecrypted, fields...)
	} else {
		capitan.Emit(ctx, SignalResponseDecrypted, fields...)
	}
}

// emitResponseDiagnostic emits the decrypted payload for pre-production
// inspection. Callers gate it behind development mode.
func emitResponseDiagnostic(ctx context.Context, url string, cfg *Request, payload string) {
	capitan.Emit(ctx, SignalResponseDiagnostic, diagnosticFields(url, cfg, payload)...)
}

// diagnosticFields describes the originating request alongside the payload.
func diagnosticFields(url string, cfg *Request, payload string) []capitan.Field {
	var marker, contentType, responseType string
	if cfg != nil {
		marker = cfg.Headers.Get(HeaderMarker)
		contentType = cfg.Headers.Get("Content-Type")
		responseType = string(cfg.ResponseType)
	}
	return []capitan.Field{
		KeyURL.Field(url),
		KeyMarker.Field(marker),
		KeyContentType.Field(contentType),
		KeyResponseType.Field(responseType),
		KeyPayload.Field(payload),
	}
}
