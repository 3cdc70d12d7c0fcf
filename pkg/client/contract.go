package client

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation identifiers declared by the form service contract.
const (
	OperationGetForm    = "getForm"
	OperationCreateUser = "createUser"
)

//go:embed openapi.yaml
var contractDocument []byte

// ContractDocument returns the embedded OpenAPI document describing the form
// service.
func ContractDocument() []byte {
	return append([]byte(nil), contractDocument...)
}

// Endpoint is a resolved operation: its HTTP method and path template.
type Endpoint struct {
	OperationID string
	Method      string
	Path        string
	Summary     string
}

// Contract indexes the operations of an OpenAPI document by operationId.
type Contract struct {
	endpoints map[string]Endpoint
}

// LoadContract parses and validates raw as an OpenAPI 3 document. Nil raw
// loads the embedded contract.
func LoadContract(ctx context.Context, raw []byte) (*Contract, error) {
	if raw == nil {
		raw = contractDocument
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("client: load contract: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("client: validate contract: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("client: contract does not contain any paths")
	}

	c := &Contract{endpoints: make(map[string]Endpoint)}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID == "" {
				continue
			}
			c.endpoints[op.OperationID] = Endpoint{
				OperationID: op.OperationID,
				Method:      method,
				Path:        path,
				Summary:     op.Summary,
			}
		}
	}
	for _, required := range []string{OperationGetForm, OperationCreateUser} {
		if _, ok := c.endpoints[required]; !ok {
			return nil, fmt.Errorf("client: contract is missing operation %q", required)
		}
	}
	return c, nil
}

// Endpoint returns the resolved endpoint for an operation id.
func (c *Contract) Endpoint(operationID string) (Endpoint, bool) {
	if c == nil {
		return Endpoint{}, false
	}
	ep, ok := c.endpoints[operationID]
	return ep, ok
}

// Endpoints lists every resolved endpoint sorted by operation id.
func (c *Contract) Endpoints() []Endpoint {
	if c == nil {
		return nil
	}
	out := make([]Endpoint, 0, len(c.endpoints))
	for _, ep := range c.endpoints {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OperationID < out[j].OperationID })
	return out
}
