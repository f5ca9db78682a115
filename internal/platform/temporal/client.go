// Package temporal dials the Temporal frontend with the process-wide tracing
// and logging configuration shared by the API and the checkout worker.
package temporal

import (
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	temporallog "go.temporal.io/sdk/log"

	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

// ErrDisabled is returned by Dial when Temporal is switched off by configuration.
var ErrDisabled = errors.New("temporal disabled via TEMPORAL_DISABLED env")

// DialOptions selects the Temporal frontend.
type DialOptions struct {
	Address   string
	Namespace string
	Disabled  bool
	// TracerName names the OpenTelemetry tracer handed to the interceptor.
	TracerName string
}

// Dial connects a Temporal client with an OpenTelemetry tracing interceptor
// and a structured slog logger.
func Dial(opts DialOptions, instruments *platformobservability.Instruments) (client.Client, error) {
	if opts.Disabled {
		return nil, ErrDisabled
	}
	clientOptions, err := ClientOptions(opts, instruments)
	if err != nil {
		return nil, err
	}
	return client.Dial(clientOptions)
}

// ClientOptions builds client.Options without dialing.
func ClientOptions(opts DialOptions, instruments *platformobservability.Instruments) (client.Options, error) {
	address := opts.Address
	if address == "" {
		address = client.DefaultHostPort
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = client.DefaultNamespace
	}
	tracerName := opts.TracerName
	if tracerName == "" {
		tracerName = "temporal-client"
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return client.Options{}, err
	}
	options := client.Options{
		HostPort:  address,
		Namespace: namespace,
		Logger:    temporallog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return options, nil
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
