package benchmarks

import (
	"context"
	"testing"

	"github.com/zoobzio/cloak"
	"github.com/zoobzio/cloak/qs"
	cloaktest "github.com/zoobzio/cloak/testing"
)

func BenchmarkTransformRequest_Exempt(b *testing.B) {
	p := cloaktest.TestPipeline(b, cloak.Config{Dev: true})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := &cloak.Request{URL: "/user/13800000000", Data: map[string]any{"a": 1}}
		_, _ = p.TransformRequest(ctx, req)
	}
}

func BenchmarkTransformRequest_Path(b *testing.B) {
	p := cloaktest.TestPipeline(b, cloak.Config{})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := &cloak.Request{URL: "/user/13800000000/orders/42"}
		_, _ = p.TransformRequest(ctx, req)
	}
}

func BenchmarkTransformRequest_AllParts(b *testing.B) {
	p := cloaktest.TestPipeline(b, cloak.Config{})
	ctx := context.Background()
	profile := cloaktest.Profile{Name: "Alice", Mobile: "13800000000", Tags: []string{"a"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := &cloak.Request{
			URL:    "/user/13800000000",
			Data:   profile,
			Params: map[string]any{"page": 1, "size": 20},
		}
		_, _ = p.TransformRequest(ctx, req)
	}
}

func BenchmarkTransformResponse(b *testing.B) {
	p := cloaktest.TestPipeline(b, cloak.Config{})
	ctx := context.Background()
	ciphertext, _ := cloaktest.TestCipher(b).Encrypt(`{"name":"Alice","mobile":"13800000000"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp := &cloak.Response{Data: ciphertext}
		_, _ = p.TransformResponse(ctx, resp)
	}
}

func BenchmarkClassifier_Match(b *testing.B) {
	c := cloak.NewClassifier()
	segments := []string{"user", "13800000000", "110101199001011234", "42", "orders"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Match(segments[i%len(segments)])
	}
}

func BenchmarkQS_Stringify(b *testing.B) {
	params := map[string]any{
		"owner":  "张三",
		"ids":    []int{7, 8, 9},
		"filter": map[string]string{"status": "paid", "city": "Hangzhou"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = qs.Stringify(params)
	}
}

func BenchmarkQS_Parse(b *testing.B) {
	query := "filter[city]=Hangzhou&filter[status]=paid&ids[]=7&ids[]=8&owner=%E5%BC%A0"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = qs.Parse(query)
	}
}
