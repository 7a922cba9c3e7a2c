package rest

import (
	"bytes"
	"context"
	_ "embed"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// OpenAPIDocument returns the published API contract.
func OpenAPIDocument() []byte {
	return openAPIDocument
}

// ContractValidator validates HTTP requests and responses against the
// embedded OpenAPI document.
type ContractValidator struct {
	doc     *openapi3.T
	router  routers.Router
	options *openapi3filter.Options
}

// NewContractValidator loads and validates the embedded document.
func NewContractValidator() (*ContractValidator, error) {
	return newContractValidator(openAPIDocument)
}

func newContractValidator(data []byte) (*ContractValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	return &ContractValidator{
		doc:    doc,
		router: router,
		// Bearer tokens are checked by AuthMiddleware.
		options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}, nil
}

// ValidateRequest checks the parameters and body of req. The body is left
// readable for the handler.
func (cv *ContractValidator) ValidateRequest(req *http.Request) error {
	input, err := cv.requestInput(req)
	if err != nil {
		return err
	}
	if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
		return fmt.Errorf("request validation failed: %w", err)
	}
	return nil
}

// ValidateResponse checks a recorded response to req.
func (cv *ContractValidator) ValidateResponse(req *http.Request, status int, header http.Header, body []byte) error {
	input, err := cv.requestInput(req)
	if err != nil {
		return err
	}
	responseInput := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: input,
		Status:                 status,
		Header:                 header,
		Options:                cv.options,
	}
	responseInput.SetBodyBytes(body)

	if err := openapi3filter.ValidateResponse(req.Context(), responseInput); err != nil {
		return fmt.Errorf("response validation failed: %w", err)
	}
	return nil
}

// GetOperation returns the operation req is routed to.
func (cv *ContractValidator) GetOperation(req *http.Request) (*openapi3.Operation, error) {
	route, _, err := cv.router.FindRoute(req)
	if err != nil {
		return nil, fmt.Errorf("no matching route found: %w", err)
	}
	return route.Operation, nil
}

// ValidateSchema validates a decoded JSON value against a component schema.
func (cv *ContractValidator) ValidateSchema(schemaName string, data interface{}) error {
	schema := cv.doc.Components.Schemas[schemaName]
	if schema == nil {
		return fmt.Errorf("schema %s not found", schemaName)
	}
	if err := schema.Value.VisitJSON(data); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func (cv *ContractValidator) requestInput(req *http.Request) (*openapi3filter.RequestValidationInput, error) {
	route, pathParams, err := cv.router.FindRoute(req)
	if err != nil {
		return nil, fmt.Errorf("no matching route found: %w", err)
	}
	return &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
		Options:    cv.options,
	}, nil
}

// Middleware rejects /api/v1 requests that do not conform to the document.
// Requests for routes the document does not describe pass through so the mux
// can answer them.
func (cv *ContractValidator) Middleware(base *BaseHandler, maxBodyBytes int64, logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/v1/") || strings.HasPrefix(r.URL.Path, "/api/v1/ws/") {
				next.ServeHTTP(w, r)
				return
			}

			input, err := cv.requestInput(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.Body != nil && maxBodyBytes > 0 {
				body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
				if err != nil {
					base.WriteError(w, r, &ValidationError{Message: "Request body too large"})
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.WarnContext(r.Context(), "contract validation failed",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err)
				base.WriteError(w, r, contractError(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// contractError converts an openapi3filter failure into a ValidationError
// naming the offending parameter when there is one.
func contractError(err error) *ValidationError {
	verr := &ValidationError{Message: "Request does not conform to API contract"}

	var reqErr *openapi3filter.RequestError
	if stderrors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			verr.Fields = map[string][]string{reqErr.Parameter.Name: {reqErr.Reason}}
			if reqErr.Reason == "" {
				verr.Fields[reqErr.Parameter.Name] = []string{"Invalid value"}
			}
		case reqErr.RequestBody != nil:
			verr.Details = "Request body does not match schema"
		default:
			verr.Details = reqErr.Error()
		}
	}
	return verr
}
