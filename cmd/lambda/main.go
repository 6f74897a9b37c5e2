// Command lambda runs the Events API handler behind an AWS Lambda function URL.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"

	"emojitranslator/internal/app"
	"emojitranslator/internal/config"
	"emojitranslator/internal/logging"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, _, err := logging.New(logging.Options{Level: cfg.General.LogLevel, Format: "json"})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}

	a, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("build: %v", err)
	}
	lambda.Start(newHandler(a.EventsHandler()))
}

// newHandler adapts an http.Handler to function URL invocations.
func newHandler(h http.Handler) func(context.Context, events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	return func(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		httpReq, err := toHTTPRequest(ctx, req)
		if err != nil {
			return events.LambdaFunctionURLResponse{StatusCode: http.StatusBadRequest}, err
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httpReq)

		headers := make(map[string]string, len(rec.Header()))
		for k, v := range rec.Header() {
			headers[k] = strings.Join(v, ",")
		}
		return events.LambdaFunctionURLResponse{
			StatusCode: rec.Code,
			Headers:    headers,
			Body:       rec.Body.String(),
		}, nil
	}
}

func toHTTPRequest(ctx context.Context, req events.LambdaFunctionURLRequest) (*http.Request, error) {
	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		body = string(decoded)
	}

	url := req.RawPath
	if url == "" {
		url = "/"
	}
	if req.RawQueryString != "" {
		url += "?" + req.RawQueryString
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.RequestContext.HTTP.Method, url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.RemoteAddr = req.RequestContext.HTTP.SourceIP
	return httpReq, nil
}
