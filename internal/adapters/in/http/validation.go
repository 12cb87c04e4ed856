package http

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// structValidator plugs go-playground/validator into echo's c.Validate.
type structValidator struct {
	validate *validator.Validate
}

func newStructValidator() *structValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &structValidator{validate: v}
}

// Validate returns a ValueIsInvalidError naming every failing field.
func (v *structValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fe.Field()+" "+validationMessage(fe))
	}
	return errs.NewValueIsInvalidErrorWithCause("request body", fmt.Errorf("%s", strings.Join(problems, "; ")))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "uuid":
		return "must be a UUID"
	}
	return "is invalid"
}

// loadOpenAPI parses and validates the embedded OpenAPI document.
func loadOpenAPI(ctx context.Context, raw []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// openAPIRequestValidator checks path and query parameters and request bodies
// against the operation echo routed the request to. NewRouter refuses to start
// when an API route has no operation in the document (see checkRoutesDocumented).
func openAPIRequestValidator(doc *openapi3.T) echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         true,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route, pathParams := findRoute(doc, c)
			if route == nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    c.Request(),
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(c.Request().Context(), input); err != nil {
				return errs.NewValueIsInvalidErrorWithCause("request", err)
			}
			return next(c)
		}
	}
}

// findRoute maps echo's matched route template (/orders/:id) onto the
// document path (/orders/{id}).
func findRoute(doc *openapi3.T, c echo.Context) (*routers.Route, map[string]string) {
	path := documentPath(c.Path())

	item := doc.Paths.Value(path)
	if item == nil {
		return nil, nil
	}
	method := c.Request().Method
	operation := item.GetOperation(method)
	if operation == nil {
		return nil, nil
	}

	params := make(map[string]string, len(c.ParamNames()))
	for i, name := range c.ParamNames() {
		params[name] = c.ParamValues()[i]
	}

	return &routers.Route{
		Spec:      doc,
		Path:      path,
		PathItem:  item,
		Method:    method,
		Operation: operation,
	}, params
}

func documentPath(echoPath string) string {
	segments := strings.Split(echoPath, "/")
	for i, segment := range segments {
		if name, ok := strings.CutPrefix(segment, ":"); ok {
			segments[i] = "{" + name + "}"
		}
	}
	return strings.Join(segments, "/")
}

// checkRoutesDocumented keeps the echo routes under prefix and the document's
// operations in step: every route needs an operation and every operation a route.
func checkRoutesDocumented(doc *openapi3.T, routes []*echo.Route, prefix string) error {
	registered := make(map[string]struct{}, len(routes))
	var problems []string

	for _, r := range routes {
		if !strings.HasPrefix(r.Path, prefix) || !isHTTPMethod(r.Method) {
			continue
		}
		path := documentPath(r.Path)
		registered[r.Method+" "+path] = struct{}{}

		item := doc.Paths.Value(path)
		if item == nil || item.GetOperation(r.Method) == nil {
			problems = append(problems, "undocumented route "+r.Method+" "+path)
		}
	}

	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			if _, ok := registered[method+" "+path]; !ok {
				problems = append(problems, "documented operation without route "+method+" "+path)
			}
		}
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("openapi document and routes differ: %s", strings.Join(problems, "; "))
	}
	return nil
}

func isHTTPMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
