package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobby-s-dev/skyfall/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultTimeout = 10 * time.Second

	tracerName           = "github.com/bobby-s-dev/skyfall/pkg/client"
	malformedDataMessage = "Received malformed data from OpenWeatherMap."
)

// Units selects the unit system OpenWeatherMap reports temperatures in.
type Units string

const (
	UnitsStandard Units = "standard"
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ParseUnits validates a unit system name.
func ParseUnits(value string) (Units, error) {
	switch u := Units(value); u {
	case UnitsStandard, UnitsMetric, UnitsImperial:
		return u, nil
	default:
		return "", newError(KindInvalidConfiguration,
			"Units must be one of 'standard', 'metric', or 'imperial'.", nil)
	}
}

type options struct {
	timeout        time.Duration
	units          Units
	baseURL        string
	httpClient     HTTPClient
	logger         *zap.Logger
	tracerProvider trace.TracerProvider
}

type Option func(*options)

func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

func WithUnits(units Units) Option {
	return func(o *options) { o.units = units }
}

// WithBaseURL points the client at an alternative current-weather endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

func WithHTTPClient(httpClient HTTPClient) Option {
	return func(o *options) { o.httpClient = httpClient }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// OpenWeatherClient looks up current conditions by city name. Its
// configuration is fixed at construction, so one instance can serve
// concurrent callers.
type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	units   Units
	timeout time.Duration
	baseURL *url.URL
	tracer  trace.Tracer
}

func NewOpenWeatherClient(apiKey string, opts ...Option) (*OpenWeatherClient, error) {
	o := options{
		timeout: DefaultTimeout,
		units:   UnitsMetric,
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, newError(KindInvalidConfiguration, "An OpenWeatherMap API key is required.", nil)
	}
	units, err := ParseUnits(string(o.units))
	if err != nil {
		return nil, err
	}
	if o.timeout <= 0 {
		return nil, newError(KindInvalidConfiguration, "Timeout must be positive.", nil)
	}

	rawURL := strings.TrimSpace(o.baseURL)
	if rawURL == "" {
		rawURL = DefaultBaseURL
	}
	baseURL, err := url.Parse(rawURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, newError(KindInvalidConfiguration,
			fmt.Sprintf("Base URL %q is not an absolute URL.", rawURL), err)
	}

	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}

	return &OpenWeatherClient{
		BaseClient: NewBaseClient(o.httpClient, o.timeout, o.logger),
		apiKey:     key,
		units:      units,
		timeout:    o.timeout,
		baseURL:    baseURL,
		tracer:     o.tracerProvider.Tracer(tracerName),
	}, nil
}

func (c *OpenWeatherClient) Units() Units {
	return c.units
}

func (c *OpenWeatherClient) Timeout() time.Duration {
	return c.timeout
}

// FetchWeather performs one lookup of the current weather for city. Every
// failure is an *Error; nothing is retried.
func (c *OpenWeatherClient) FetchWeather(ctx context.Context, city string) (*models.WeatherReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, newError(KindInvalidArgument, "City must be a non-empty string.", nil)
	}

	ctx, span := c.tracer.Start(ctx, "OpenWeatherClient.FetchWeather",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("weather.city", city),
			attribute.String("weather.units", string(c.units)),
		))
	defer span.End()

	report, err := c.fetch(ctx, city, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, KindOf(err).String())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return report, nil
}

func (c *OpenWeatherClient) fetch(ctx context.Context, city string, span trace.Span) (*models.WeatherReport, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.Get(ctx, c.requestURL(city))
	if err != nil {
		return nil, newError(KindUnreachable, "Could not reach OpenWeatherMap", err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Kind:       KindAPIRejected,
			Message:    extractErrorMessage(resp.StatusCode, resp.Body),
			StatusCode: resp.StatusCode,
		}
	}

	payload, err := parsePayload(resp.Body)
	if err != nil {
		return nil, err
	}

	readings, ok := payload["main"].(map[string]any)
	if !ok {
		return nil, newError(KindMalformedResponse, malformedDataMessage,
			fmt.Errorf("field %q is not an object", "main"))
	}
	temperature, err := floatField(readings, "temp")
	if err != nil {
		return nil, newError(KindMalformedResponse, malformedDataMessage, err)
	}
	feelsLike, err := floatField(readings, "feels_like")
	if err != nil {
		return nil, newError(KindMalformedResponse, malformedDataMessage, err)
	}
	humidity, err := intField(readings, "humidity")
	if err != nil {
		return nil, newError(KindMalformedResponse, malformedDataMessage, err)
	}

	return &models.WeatherReport{
		City:         cityName(payload, city),
		Description:  describe(payload),
		TemperatureC: temperature,
		FeelsLikeC:   feelsLike,
		Humidity:     humidity,
		Raw:          payload,
	}, nil
}

func (c *OpenWeatherClient) requestURL(city string) string {
	u := *c.baseURL
	query := u.Query()
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", string(c.units))
	u.RawQuery = query.Encode()
	return u.String()
}
