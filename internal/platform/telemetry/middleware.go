package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/daily-quote/telemetry"

// HeaderTraceID carries the request's trace ID back to the caller.
const HeaderTraceID = "X-Trace-ID"

type httpInstruments struct {
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("API requests in flight"),
	)
	if err != nil {
		return nil, err
	}

	return &httpInstruments{duration: duration, inFlight: inFlight}, nil
}

// Middleware returns the otelgin tracing handler followed by one that records
// request metrics on the global meter and sets X-Trace-ID. Install both:
//
//	engine.Use(telemetry.Middleware(name)...)
func Middleware(serviceName string) gin.HandlersChain {
	inst, err := newHTTPInstruments(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
	}

	return gin.HandlersChain{
		otelgin.Middleware(serviceName),
		func(c *gin.Context) {
			ctx := c.Request.Context()

			if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
				c.Header(HeaderTraceID, sc.TraceID().String())
			}

			if inst == nil {
				c.Next()
				return
			}

			route := attribute.String("http.route", c.FullPath())
			method := attribute.String("http.request.method", c.Request.Method)

			inst.inFlight.Add(ctx, 1, metric.WithAttributes(method, route))
			start := time.Now()

			c.Next()

			inst.inFlight.Add(ctx, -1, metric.WithAttributes(method, route))
			inst.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				method, route, attribute.Int("http.response.status_code", c.Writer.Status()),
			))
		},
	}
}
