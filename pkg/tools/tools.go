// Package tools manages the named tools executors invoke against the
// support store. Tool parameters are validated against generated JSON
// Schemas before the handler runs.
package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Parameter defines one tool parameter.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Definition defines a tool's metadata and handler.
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Handler     Handler     `json:"-"`
}

// Handler is the function signature for tool execution.
type Handler func(ctx context.Context, params map[string]any) (any, error)

// Result represents the outcome of one tool execution.
type Result struct {
	Success   bool   `json:"success"`
	Output    any    `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Registry holds registered tools and executes them.
type Registry struct {
	tools   map[string]*Definition
	schemas map[string]*gojsonschema.Schema
	timeout time.Duration
	mu      sync.RWMutex
}

// New creates an empty tool registry with a default per-tool timeout.
func New() *Registry {
	return &Registry{
		tools:   make(map[string]*Definition),
		schemas: make(map[string]*gojsonschema.Schema),
		timeout: 30 * time.Second,
	}
}

// Register registers a tool after validating its definition and
// compiling its parameter schema.
func (r *Registry) Register(def Definition) error {
	if err := validateDefinition(def); err != nil {
		return fmt.Errorf("invalid tool definition: %w", err)
	}

	schema, err := compileSchema(def)
	if err != nil {
		return fmt.Errorf("failed to compile schema for %s: %w", def.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool already registered: %s", def.Name)
	}

	r.tools[def.Name] = &def
	r.schemas[def.Name] = schema

	log.Debug().Str("tool", def.Name).Msg("Tool registered")

	return nil
}

// Get returns a tool definition by name, or nil.
func (r *Registry) Get(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.tools[name]
}

// List returns all registered tool definitions.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.tools))
	for _, def := range r.tools {
		defs = append(defs, *def)
	}
	return defs
}

// Execute runs a tool with the given parameters. Failures never
// propagate as errors; they are reported inside the Result so the
// calling executor can relay them as text.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) Result {
	r.mu.RLock()
	tool := r.tools[name]
	schema := r.schemas[name]
	r.mu.RUnlock()

	if tool == nil {
		return Result{Success: false, Error: fmt.Sprintf("tool not found: %s", name)}
	}

	if err := validateParams(schema, params); err != nil {
		log.Warn().Str("tool", name).Err(err).Msg("Tool parameter validation failed")
		return Result{Success: false, Error: fmt.Sprintf("parameter validation failed: %v", err)}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	output, err := tool.Handler(timeoutCtx, params)
	if err != nil {
		log.Warn().Str("tool", name).Dur("duration", time.Since(start)).Err(err).Msg("Tool execution failed")
		return Result{Success: false, Error: err.Error()}
	}

	output, truncated := truncateOutput(output)

	log.Debug().
		Str("tool", name).
		Dur("duration", time.Since(start)).
		Bool("truncated", truncated).
		Msg("Tool executed")

	return Result{Success: true, Output: output, Truncated: truncated}
}

func validateDefinition(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Description == "" {
		return fmt.Errorf("tool description cannot be empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}

	validTypes := map[string]bool{
		"string": true, "number": true, "boolean": true,
		"object": true, "array": true, "integer": true,
	}
	for _, p := range def.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if !validTypes[p.Type] {
			return fmt.Errorf("invalid parameter type %s for %s", p.Type, p.Name)
		}
	}

	return nil
}

// SchemaMap renders the tool's parameter schema as the plain map shape
// LLM providers expect for tool declarations.
func (d Definition) SchemaMap() map[string]any {
	properties := make(map[string]any, len(d.Parameters))
	required := []string{}

	for _, p := range d.Parameters {
		properties[p.Name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

func compileSchema(def Definition) (*gojsonschema.Schema, error) {
	schemaMap := def.SchemaMap()
	schemaMap["additionalProperties"] = false

	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
}

func validateParams(schema *gojsonschema.Schema, params map[string]any) error {
	if schema == nil {
		return nil
	}
	if params == nil {
		params = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(params))
	if err != nil {
		return err
	}

	if !result.Valid() {
		msgs := []string{}
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("validation errors: %v", msgs)
	}

	return nil
}

const maxOutputSize = 10 * 1024

func truncateOutput(output any) (any, bool) {
	str := fmt.Sprintf("%v", output)
	if len(str) <= maxOutputSize {
		return output, false
	}
	return str[:maxOutputSize] + "\n... [output truncated]", true
}
