// Package tracer 初始化 opentracing 全局 tracer
package tracer

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewJaegerTracer 创建上报到 jaeger agent 的 tracer 并设置为全局 tracer
// agent 为空时使用 NoopTracer，返回的 closer 总是可以安全调用
func NewJaegerTracer(serviceName, agent string) (opentracing.Tracer, io.Closer, error) {
	if agent == "" {
		t := opentracing.NoopTracer{}
		opentracing.SetGlobalTracer(t)
		return t, nopCloser{}, nil
	}

	cfg := &jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: agent,
		},
	}
	t, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, nil, errors.Wrap(err, "create jaeger tracer failed")
	}
	opentracing.SetGlobalTracer(t)
	return t, closer, nil
}
