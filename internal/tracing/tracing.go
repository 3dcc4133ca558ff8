package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type config interface {
	Enabled() bool
	AgentAddr() string
}

// Init sets the global opentracing tracer. When tracing is disabled the
// opentracing noop tracer stays in place and the returned closer is nil.
func Init(serviceName string, cfg config) (io.Closer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	conf := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.AgentAddr(),
		},
	}

	tracer, closer, err := conf.NewTracer()
	if err != nil {
		return nil, errors.Wrap(err, "init tracer")
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}
